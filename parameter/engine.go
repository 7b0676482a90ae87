package parameter

import "time"

// Scheduler timing
const (
	// TickRate is the fixed logic rate in steps per second
	TickRate = 60

	// FixedStep is the logic step duration (16.666667ms)
	FixedStep = time.Second / TickRate

	// MaxAccumulatorSteps caps catch-up work per frame as a multiple of FixedStep
	MaxAccumulatorSteps = 5

	// FrameUpdateInterval is the render/frame pump interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// EventChannelSize buffers terminal events between the poller goroutine and the loop
	EventChannelSize = 64
)

// Logging
const (
	LogDir      = "logs"
	LogFileName = "vi-pinball.log"

	// MaxLogSize triggers rotation of the previous log on startup (10 MiB)
	MaxLogSize = 10 * 1024 * 1024
)
