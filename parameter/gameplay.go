package parameter

// Game flow
const (
	// BallsPerGame is the number of balls served before game over
	BallsPerGame = 3

	// LaunchImpulse is the upward plunger velocity applied on launch
	LaunchImpulse = 24.0

	// FlipperHoldTicks keeps a flipper pressed after a key press
	// Terminals report no key release, so each press re-arms the hold
	FlipperHoldTicks = 9

	// SaucerHoldTicks is how long a captured ball stays in the saucer (1.5s at 60Hz)
	SaucerHoldTicks = 90

	// SaucerEjectX, SaucerEjectY is the release velocity out of the saucer
	SaucerEjectX = -6.0
	SaucerEjectY = -10.0

	// GameOverTicks is the over-screen dwell before returning to attract (3s at 60Hz)
	GameOverTicks = 180
)

// Scoring per contact identifier prefix
const (
	ScoreBumper = 100
	ScoreSling  = 10
	ScoreTarget = 500
	ScoreSaucer = 1000
)
