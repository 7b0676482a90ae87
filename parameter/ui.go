package parameter

// Layout
const (
	// TopMargin rows reserved for the score line
	TopMargin = 1

	// BottomMargin rows reserved for the status bar
	BottomMargin = 1
)

// Glyphs
const (
	BallChar     = '●'
	BumperChar   = '◎'
	SaucerChar   = '○'
	TargetChar   = '▮'
	GuideChar    = '·'
	FlipperChar  = '▬'
	WallChar     = '│'
	DrainChar    = '▁'
	LaneWallChar = '┊'
)

// Status bar text
const (
	ModeTextAttract = " ATTRACT "
	ModeTextPlay    = "  PLAY   "
	ModeTextOver    = "  OVER   "
	ModeTextPaused  = " PAUSED  "

	AudioStr = "♫ "

	HelpText = "z/x: flippers  space: launch  p: pause  m: mute  q: quit"
)
