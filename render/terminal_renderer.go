package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-pinball/parameter"
	"github.com/lixenwraith/vi-pinball/physics"
	"github.com/lixenwraith/vi-pinball/playfield"
	"github.com/lixenwraith/vi-pinball/vmath"
)

// Mode is the top-level flow state shown in the status bar
type Mode string

const (
	ModeAttract Mode = "attract"
	ModePlay    Mode = "play"
	ModeOver    Mode = "over"
)

// Frame is everything one render pass needs, assembled by the game on the render callback
type Frame struct {
	Snapshot     playfield.Snapshot
	Alpha        float64
	Mode         Mode
	Score        int64
	Ball         int
	BallsPerGame int
	Paused       bool
	Audio        bool
}

// TerminalRenderer draws the table scaled into the terminal grid
type TerminalRenderer struct {
	screen tcell.Screen
	width  int
	height int

	tableWidth  float64
	tableHeight float64

	// Playfield area in cells, between the score line and the status bar
	areaY      int
	areaWidth  int
	areaHeight int
	scaleX     float64
	scaleY     float64
}

// NewTerminalRenderer creates a renderer for a table of the given size in table units
func NewTerminalRenderer(screen tcell.Screen, tableWidth, tableHeight float64) *TerminalRenderer {
	r := &TerminalRenderer{
		screen:      screen,
		tableWidth:  tableWidth,
		tableHeight: tableHeight,
	}
	w, h := screen.Size()
	r.Resize(w, h)
	return r
}

// Resize recomputes the cell scale after a terminal resize
func (r *TerminalRenderer) Resize(width, height int) {
	r.width = width
	r.height = height
	r.areaY = parameter.TopMargin
	r.areaWidth = max(width, 1)
	r.areaHeight = max(height-parameter.TopMargin-parameter.BottomMargin, 1)
	r.scaleX = float64(r.areaWidth) / r.tableWidth
	r.scaleY = float64(r.areaHeight) / r.tableHeight
}

// RenderFrame renders the entire frame
func (r *TerminalRenderer) RenderFrame(f Frame) {
	r.screen.Clear()
	defaultStyle := tcell.StyleDefault.Background(RgbBackground)
	r.screen.Fill(' ', defaultStyle)

	snap := &f.Snapshot

	r.drawBounds(snap.Bounds, defaultStyle)
	for i := range snap.Zones {
		r.drawZone(&snap.Zones[i], defaultStyle)
	}
	for _, fl := range snap.Flippers {
		r.drawFlipper(fl, f.Alpha, defaultStyle)
	}
	for _, b := range snap.Balls {
		r.drawBall(b, f.Alpha, defaultStyle)
	}

	r.drawScoreLine(f, defaultStyle)
	r.drawStatusBar(f, defaultStyle)

	r.screen.Show()
}

// toCell maps a table point into the playfield area, false when it falls outside
func (r *TerminalRenderer) toCell(p vmath.Vec2) (int, int, bool) {
	if !vmath.IsFinite(p) {
		return 0, 0, false
	}
	x := int(math.Floor(p.X * r.scaleX))
	y := int(math.Floor(p.Y * r.scaleY))
	if x == r.areaWidth {
		x--
	}
	if y == r.areaHeight {
		y--
	}
	if x < 0 || x >= r.areaWidth || y < 0 || y >= r.areaHeight {
		return 0, 0, false
	}
	return x, y + r.areaY, true
}

func (r *TerminalRenderer) plot(p vmath.Vec2, ch rune, style tcell.Style) {
	if x, y, ok := r.toCell(p); ok {
		r.screen.SetContent(x, y, ch, nil, style)
	}
}

// plotLine samples a segment at cell resolution
func (r *TerminalRenderer) plotLine(a, b vmath.Vec2, ch rune, style tcell.Style) {
	dx := math.Abs(b.X-a.X) * r.scaleX
	dy := math.Abs(b.Y-a.Y) * r.scaleY
	steps := int(math.Ceil(math.Max(dx, dy))) * 2
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		r.plot(vmath.V2Lerp(a, b, float64(i)/float64(steps)), ch, style)
	}
}

// fillRect fills every cell whose center lies in the rect, at least one cell
func (r *TerminalRenderer) fillRect(lo, hi vmath.Vec2, ch rune, style tcell.Style) {
	x0, y0, ok0 := r.toCell(lo)
	x1, y1, ok1 := r.toCell(hi)
	if !ok0 || !ok1 {
		r.plot(vmath.V2Lerp(lo, hi, 0.5), ch, style)
		return
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			r.screen.SetContent(x, y, ch, nil, style)
		}
	}
}

func (r *TerminalRenderer) drawBounds(b physics.Bounds, defaultStyle tcell.Style) {
	wallStyle := defaultStyle.Foreground(RgbWall)
	top := r.areaY
	bottom := r.areaY + r.areaHeight - 1
	for y := top; y <= bottom; y++ {
		r.screen.SetContent(0, y, parameter.WallChar, nil, wallStyle)
		r.screen.SetContent(r.areaWidth-1, y, parameter.WallChar, nil, wallStyle)
	}

	if b.Lane != (physics.Rect{}) {
		laneStyle := defaultStyle.Foreground(RgbLaneWall)
		r.plotLine(vmath.V2(b.Lane.Min.X, b.Lane.Min.Y), vmath.V2(b.Lane.Min.X, b.Lane.Max.Y), parameter.LaneWallChar, laneStyle)
	}
	if b.Drain != (physics.Rect{}) {
		drainStyle := defaultStyle.Foreground(RgbDrain)
		r.plotLine(vmath.V2(b.Drain.Min.X, b.Drain.Max.Y), vmath.V2(b.Drain.Max.X, b.Drain.Max.Y), parameter.DrainChar, drainStyle)
	}
}

// zoneLook picks a glyph and color from the contact identifier prefix
func zoneLook(z *physics.Zone) (rune, tcell.Color) {
	switch {
	case z.Captures || strings.HasPrefix(z.ContactID, "saucer"):
		return parameter.SaucerChar, RgbSaucer
	case strings.HasPrefix(z.ContactID, "bumper"):
		return parameter.BumperChar, RgbBumper
	case strings.HasPrefix(z.ContactID, "target"):
		return parameter.TargetChar, RgbTarget
	case strings.HasPrefix(z.ContactID, "sling"):
		return parameter.GuideChar, RgbSling
	}
	return parameter.GuideChar, RgbGuide
}

func (r *TerminalRenderer) drawZone(z *physics.Zone, defaultStyle tcell.Style) {
	ch, color := zoneLook(z)
	style := defaultStyle.Foreground(color)

	switch z.Kind {
	case physics.ShapeCircle:
		// Outline sampled around the rim, center glyph marks small shapes
		n := max(8, int(z.Radius*math.Max(r.scaleX, r.scaleY)*8))
		for i := 0; i < n; i++ {
			a := 2 * math.Pi * float64(i) / float64(n)
			r.plot(vmath.V2Add(z.Center, vmath.V2Scale(vmath.V2(math.Cos(a), math.Sin(a)), z.Radius)), ch, style)
		}
		r.plot(z.Center, ch, style)
	case physics.ShapeRect:
		r.fillRect(z.Min, z.Max, ch, style)
	case physics.ShapeSegment:
		r.plotLine(z.A, z.B, ch, style)
	}
}

func (r *TerminalRenderer) drawFlipper(f playfield.FlipperSnapshot, alpha float64, defaultStyle tcell.Style) {
	if f.Length <= 0 {
		return
	}
	style := defaultStyle.Foreground(RgbFlipper)
	if f.Pressed {
		style = style.Bold(true)
	}
	r.plotLine(f.Pivot, f.TipAt(alpha), parameter.FlipperChar, style)
}

func (r *TerminalRenderer) drawBall(b playfield.BallSnapshot, alpha float64, defaultStyle tcell.Style) {
	color := RgbBall
	if b.Captured {
		color = RgbBallHeld
	}
	r.plot(b.At(alpha), parameter.BallChar, defaultStyle.Foreground(color))
}

func (r *TerminalRenderer) drawText(x, y int, text string, style tcell.Style) int {
	for _, ch := range text {
		if x >= r.width {
			break
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}

// drawScoreLine draws score and ball count on the top row
func (r *TerminalRenderer) drawScoreLine(f Frame, defaultStyle tcell.Style) {
	scoreStyle := defaultStyle.Foreground(RgbScore).Bold(true)
	x := r.drawText(0, 0, fmt.Sprintf("SCORE %08d", f.Score), scoreStyle)
	if f.Mode == ModePlay && f.BallsPerGame > 0 {
		r.drawText(x+2, 0, fmt.Sprintf("BALL %d/%d", f.Ball, f.BallsPerGame), defaultStyle.Foreground(RgbStatusBar))
	}
}

// drawStatusBar draws mode, audio indicator and key help on the bottom row
func (r *TerminalRenderer) drawStatusBar(f Frame, defaultStyle tcell.Style) {
	y := r.height - 1
	if y < r.areaY {
		return
	}

	var text string
	var color tcell.Color
	switch {
	case f.Paused:
		text, color = parameter.ModeTextPaused, RgbModePaused
	case f.Mode == ModePlay:
		text, color = parameter.ModeTextPlay, RgbModePlay
	case f.Mode == ModeOver:
		text, color = parameter.ModeTextOver, RgbModeOver
	default:
		text, color = parameter.ModeTextAttract, RgbModeAttract
	}

	x := r.drawText(0, y, text, defaultStyle.Foreground(tcell.ColorBlack).Background(color))
	x++
	if f.Audio {
		x = r.drawText(x, y, parameter.AudioStr, defaultStyle.Foreground(RgbAudioOn))
	}
	r.drawText(x, y, parameter.HelpText, defaultStyle.Foreground(RgbHelpText))
}
