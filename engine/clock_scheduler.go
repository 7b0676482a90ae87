package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-pinball/status"
)

// SchedulerConfig sets the fixed logic rate and the spiral-of-death guard
type SchedulerConfig struct {
	TickRate            int // Fixed logic steps per second, nominal 60
	MaxAccumulatorSteps int // Accumulator cap as a multiple of the fixed step, nominal 5
}

// subscription is a registered callback, removed entries are skipped for the rest of the frame
type subscription[F any] struct {
	fn      F
	removed bool
}

// callbackList is copy-on-write so unsubscribing from inside a callback is safe
type callbackList[F any] struct {
	entries []*subscription[F]
}

func (l *callbackList[F]) add(fn F) func() {
	sub := &subscription[F]{fn: fn}
	next := make([]*subscription[F], len(l.entries), len(l.entries)+1)
	copy(next, l.entries)
	l.entries = append(next, sub)

	return func() {
		if sub.removed {
			return
		}
		sub.removed = true
		kept := make([]*subscription[F], 0, len(l.entries))
		for _, e := range l.entries {
			if e != sub {
				kept = append(kept, e)
			}
		}
		l.entries = kept
	}
}

// Scheduler converts variable-rate external frames into fixed logic steps
// followed by one late-update and one render with an interpolation alpha
//
// Single-threaded: Tick, registration and control calls must come from one goroutine
// Each callback is isolated; a panic is logged and the frame continues
type Scheduler struct {
	timeProvider TimeProvider

	fixedStep      time.Duration
	maxAccumulator time.Duration

	lastTime    time.Time
	accumulator time.Duration
	alpha       float64
	tickCount   uint64

	running bool
	paused  bool

	updates callbackList[func(dt time.Duration)]
	lates   callbackList[func()]
	renders callbackList[func(alpha float64)]

	// Cached metric pointers
	statTicks    *atomic.Int64
	statFrames   *atomic.Int64
	statClamped  *atomic.Int64
	statPeak     *status.AtomicFloat
	statAlpha    *status.AtomicFloat
	statRecovers *atomic.Int64
}

// NewScheduler creates a stopped scheduler
func NewScheduler(cfg SchedulerConfig, timeProvider TimeProvider, reg *status.Registry) (*Scheduler, error) {
	if cfg.TickRate <= 0 {
		return nil, fmt.Errorf("tick rate must be positive, got %d", cfg.TickRate)
	}
	if cfg.MaxAccumulatorSteps < 1 {
		return nil, fmt.Errorf("max accumulator steps must be at least 1, got %d", cfg.MaxAccumulatorSteps)
	}
	if timeProvider == nil {
		timeProvider = NewMonotonicTimeProvider()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}

	step := time.Second / time.Duration(cfg.TickRate)

	return &Scheduler{
		timeProvider:   timeProvider,
		fixedStep:      step,
		maxAccumulator: step * time.Duration(cfg.MaxAccumulatorSteps),
		statTicks:      reg.Ints.Get("sched.ticks"),
		statFrames:     reg.Ints.Get("sched.frames"),
		statClamped:    reg.Ints.Get("sched.clamped"),
		statPeak:       reg.Floats.Get("sched.steps_peak"),
		statAlpha:      reg.Floats.Get("sched.alpha"),
		statRecovers:   reg.Ints.Get("sched.recovered_panics"),
	}, nil
}

// RegisterUpdate adds a fixed-step callback, returns its unsubscribe handle
func (s *Scheduler) RegisterUpdate(fn func(dt time.Duration)) func() {
	return s.updates.add(fn)
}

// RegisterLateUpdate adds a once-per-frame callback run after all fixed steps
func (s *Scheduler) RegisterLateUpdate(fn func()) func() {
	return s.lates.add(fn)
}

// RegisterRender adds a once-per-frame callback receiving alpha in [0,1)
func (s *Scheduler) RegisterRender(fn func(alpha float64)) func() {
	return s.renders.add(fn)
}

// Start anchors the clock at the provider's current time
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.paused = false
	s.lastTime = s.timeProvider.Now()
	s.accumulator = 0
	s.alpha = 0
}

// Stop halts frame processing, safe to call repeatedly
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.paused = false
}

// Pause freezes logic; render keeps running with the frozen alpha
func (s *Scheduler) Pause() {
	if !s.running || s.paused {
		return
	}
	s.paused = true
}

// Resume re-anchors the wall clock and zeroes the accumulator
// The paused gap is never replayed as catch-up steps
func (s *Scheduler) Resume() {
	if !s.paused {
		return
	}
	s.paused = false
	s.lastTime = s.timeProvider.Now()
	s.accumulator = 0
	s.alpha = 0
}

// Tick processes one external frame at wall time now
func (s *Scheduler) Tick(now time.Time) {
	if !s.running {
		return
	}

	delta := now.Sub(s.lastTime)
	if delta < 0 {
		delta = 0
	}
	s.lastTime = now
	s.statFrames.Add(1)

	if !s.paused {
		if delta > s.maxAccumulator {
			delta = s.maxAccumulator
			s.statClamped.Add(1)
		}
		s.accumulator += delta
		if s.accumulator > s.maxAccumulator {
			s.accumulator = s.maxAccumulator
		}

		steps := 0
		for s.accumulator >= s.fixedStep {
			s.runUpdates()
			s.accumulator -= s.fixedStep
			s.tickCount++
			steps++
		}
		if steps > 0 {
			s.statTicks.Add(int64(steps))
			s.statPeak.Max(float64(steps))
		}

		for _, sub := range s.lates.entries {
			if sub.removed {
				continue
			}
			fn := sub.fn
			s.guard("SCHED:late", fn)
		}

		s.alpha = float64(s.accumulator) / float64(s.fixedStep)
		s.statAlpha.Set(s.alpha)
	}

	alpha := s.alpha
	for _, sub := range s.renders.entries {
		if sub.removed {
			continue
		}
		fn := sub.fn
		s.guard("SCHED:render", func() { fn(alpha) })
	}
}

// runUpdates invokes every update subscriber for one fixed step
func (s *Scheduler) runUpdates() {
	step := s.fixedStep
	for _, sub := range s.updates.entries {
		if sub.removed {
			continue
		}
		fn := sub.fn
		s.guard("SCHED:update", func() { fn(step) })
	}
}

func (s *Scheduler) guard(component string, fn func()) {
	if !SafeCall(component, fn) {
		s.statRecovers.Add(1)
	}
}

// Run drives Tick from a ticker until ctx is cancelled, then stops the scheduler
// Blocks the calling goroutine, which becomes the simulation goroutine
func (s *Scheduler) Run(ctx context.Context, frameInterval time.Duration) error {
	if frameInterval <= 0 {
		return fmt.Errorf("frame interval must be positive, got %v", frameInterval)
	}

	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Tick(s.timeProvider.Now())
		}
	}
}

// FixedStep returns the logic step duration
func (s *Scheduler) FixedStep() time.Duration {
	return s.fixedStep
}

// MaxAccumulator returns the catch-up cap
func (s *Scheduler) MaxAccumulator() time.Duration {
	return s.maxAccumulator
}

// Accumulator returns unconsumed time carried to the next frame
func (s *Scheduler) Accumulator() time.Duration {
	return s.accumulator
}

// Alpha returns the last computed interpolation factor
func (s *Scheduler) Alpha() float64 {
	return s.alpha
}

// TickCount returns the number of fixed steps executed
func (s *Scheduler) TickCount() uint64 {
	return s.tickCount
}

func (s *Scheduler) IsRunning() bool {
	return s.running
}

func (s *Scheduler) IsPaused() bool {
	return s.paused
}
