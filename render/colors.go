package render

import (
	"github.com/gdamore/tcell/v2"
)

// RGB color definitions for table elements
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbWall       = tcell.NewRGBColor(120, 120, 140) // Muted steel
	RgbLaneWall   = tcell.NewRGBColor(80, 80, 100)   // Darker steel
	RgbDrain      = tcell.NewRGBColor(0, 200, 200)   // Vibrant Cyan

	RgbBall     = tcell.NewRGBColor(255, 255, 255) // Bright white
	RgbBallHeld = tcell.NewRGBColor(255, 215, 0)   // Gold while captured

	RgbBumper  = tcell.NewRGBColor(255, 80, 80)   // Normal Red
	RgbSaucer  = tcell.NewRGBColor(255, 165, 0)   // Orange
	RgbTarget  = tcell.NewRGBColor(100, 150, 255) // Normal Blue
	RgbSling   = tcell.NewRGBColor(0, 200, 0)     // Normal Green
	RgbGuide   = tcell.NewRGBColor(180, 180, 180) // Brighter gray
	RgbFlipper = tcell.NewRGBColor(255, 255, 0)   // Bright Yellow

	RgbScore       = tcell.NewRGBColor(0, 255, 255)   // Cyan
	RgbStatusBar   = tcell.NewRGBColor(255, 255, 255) // White
	RgbHelpText    = tcell.NewRGBColor(120, 120, 120) // Dim gray
	RgbModeAttract = tcell.NewRGBColor(100, 150, 255)
	RgbModePlay    = tcell.NewRGBColor(0, 200, 0)
	RgbModeOver    = tcell.NewRGBColor(255, 80, 80)
	RgbModePaused  = tcell.NewRGBColor(255, 165, 0)
	RgbAudioOn     = tcell.NewRGBColor(0, 255, 0)
)
