package game

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lixenwraith/vi-pinball/config"
	"github.com/lixenwraith/vi-pinball/engine"
	"github.com/lixenwraith/vi-pinball/engine/fsm"
	"github.com/lixenwraith/vi-pinball/game/flow"
	"github.com/lixenwraith/vi-pinball/playfield"
	"github.com/lixenwraith/vi-pinball/render"
	"github.com/lixenwraith/vi-pinball/status"
	"github.com/lixenwraith/vi-pinball/vmath"
)

// Sound is the cue surface the game plays into, satisfied by audio.SoundManager
type Sound interface {
	PlayBumper()
	PlayFlipper()
	PlayDrain()
	PlayCapture()
	Enabled() bool
	Toggle() bool
}

// FrameRenderer draws one interpolated frame, satisfied by render.TerminalRenderer
type FrameRenderer interface {
	RenderFrame(f render.Frame)
}

// Options are the optional collaborators; zero values run silent and headless
type Options struct {
	TimeProvider engine.TimeProvider
	Sound        Sound
	Renderer     FrameRenderer
	Status       *status.Registry

	// TopologyPath overrides the flow topology, empty = ./config/flow.yaml or embedded
	TopologyPath string
}

// Game owns every simulation component and wires them to one scheduler
// All methods must be called from the goroutine that calls Tick
type Game struct {
	cfg *config.Config

	Status    *status.Registry
	Scheduler *engine.Scheduler
	Timeline  *engine.Timeline
	World     *playfield.World
	Machine   *fsm.Machine
	Flow      *flow.Flow

	sound    Sound
	renderer FrameRenderer

	holds  [2]engine.TimerID
	unsubs []func()
}

// New builds the game from a validated config
func New(cfg *config.Config, opts Options) (*Game, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := opts.Status
	if reg == nil {
		reg = status.NewRegistry()
	}

	sched, err := engine.NewScheduler(engine.SchedulerConfig{
		TickRate:            cfg.Engine.TickRate,
		MaxAccumulatorSteps: cfg.Engine.MaxAccumulatorSteps,
	}, opts.TimeProvider, reg)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	wc, err := cfg.World()
	if err != nil {
		return nil, fmt.Errorf("world config: %w", err)
	}
	world, err := playfield.NewWorld(wc, reg)
	if err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}

	g := &Game{
		cfg:       cfg,
		Status:    reg,
		Scheduler: sched,
		Timeline:  engine.NewTimeline(),
		World:     world,
		Machine:   fsm.NewMachine(),
		sound:     opts.Sound,
		renderer:  opts.Renderer,
	}
	if g.sound == nil {
		g.sound = silent{}
	}

	g.Flow = flow.New(g, g.Machine, flow.Rules{
		BallsPerGame:    cfg.Game.BallsPerGame,
		SaucerHoldTicks: uint64(cfg.Game.SaucerHoldTicks),
		GameOverTicks:   uint64(cfg.Game.GameOverTicks),
	}, reg)
	if err := fsm.LoadTopologyAuto(g.Machine, opts.TopologyPath, flow.Topology(), g.Flow.Registry()); err != nil {
		return nil, fmt.Errorf("flow topology: %w", err)
	}

	g.unsubs = append(g.unsubs,
		world.Subscribe(playfield.ObserverFuncs{
			Contact: g.onContact,
			Capture: g.onCapture,
			Drain:   g.onDrain,
		}),
		sched.RegisterUpdate(g.update),
		sched.RegisterRender(g.render),
	)
	return g, nil
}

// Start enters the initial flow state and anchors the scheduler clock
func (g *Game) Start() error {
	if err := g.Machine.Start("", nil); err != nil {
		return fmt.Errorf("flow start: %w", err)
	}
	g.Scheduler.Start()
	log.Printf("[GAME] started in '%s'", g.Machine.CurrentStatePath())
	return nil
}

// Stop halts the scheduler and detaches every callback; safe to call twice
func (g *Game) Stop() {
	g.Scheduler.Stop()
	for _, unsub := range g.unsubs {
		unsub()
	}
	g.unsubs = nil
}

// Tick forwards a frame timestamp to the scheduler
func (g *Game) Tick(now time.Time) {
	g.Scheduler.Tick(now)
}

// update is the one fixed-step callback: timers, then physics, then flow
func (g *Game) update(dt time.Duration) {
	g.Timeline.Advance()
	g.World.Step()
	g.Machine.Update(dt)
}

func (g *Game) render(alpha float64) {
	if g.renderer == nil {
		return
	}
	g.renderer.RenderFrame(g.Frame(alpha))
}

// Frame assembles the render view for alpha
func (g *Game) Frame(alpha float64) render.Frame {
	mode := render.ModeAttract
	switch {
	case g.Machine.IsInState(flow.PathPlay):
		mode = render.ModePlay
	case g.Machine.IsInState(flow.PathOver):
		mode = render.ModeOver
	}
	return render.Frame{
		Snapshot:     g.World.Snapshot(),
		Alpha:        alpha,
		Mode:         mode,
		Score:        g.Flow.Score(),
		Ball:         g.Flow.Ball(),
		BallsPerGame: g.Flow.BallsPerGame(),
		Paused:       g.Scheduler.IsPaused(),
		Audio:        g.sound.Enabled(),
	}
}

// Observer callbacks run inline inside World.Step

func (g *Game) onContact(c playfield.Contact) {
	if strings.HasPrefix(c.ContactID, "bumper") || strings.HasPrefix(c.ContactID, "sling") {
		g.sound.PlayBumper()
	}
	g.Machine.SendEvent(flow.EventContact, c)
}

func (g *Game) onCapture(c playfield.Capture) {
	g.sound.PlayCapture()
	g.Machine.SendEvent(flow.EventCapture, c)
}

func (g *Game) onDrain(id playfield.BallID) {
	g.sound.PlayDrain()
	g.Machine.SendEvent(flow.EventDrain, id)
	g.World.RemoveBall(id)
}

// flow.Table

func (g *Game) ServeBall() {
	p := g.cfg.Table.Launch
	id := g.World.CreateBall(p.X, p.Y)
	log.Printf("[GAME] ball %d served at (%.0f, %.0f)", id, p.X, p.Y)
}

// LaunchBall fires every free ball resting in the plunger lane
func (g *Game) LaunchBall() bool {
	lane := g.cfg.Table.Lane.Rect()
	launched := false
	for _, b := range g.World.ActiveBalls() {
		if b.Captured || !lane.Contains(b.Pos) || vmath.Magnitude(b.Vel) > 1 {
			continue
		}
		if err := g.World.ApplyImpulse(b.ID, 0, -g.cfg.Game.LaunchImpulse); err != nil {
			log.Printf("[GAME] launch ball %d: %v", b.ID, err)
			continue
		}
		launched = true
	}
	return launched
}

func (g *Game) EjectCaptured(id playfield.BallID) {
	e := g.cfg.Game.SaucerEject
	if err := g.World.ReleaseCaptured(id, e.X, e.Y); err != nil {
		log.Printf("[GAME] eject ball %d: %v", id, err)
	}
}

func (g *Game) BallsInPlay() int {
	return len(g.World.ActiveBalls())
}

func (g *Game) ClearBalls() {
	for _, b := range g.World.ActiveBalls() {
		g.World.RemoveBall(b.ID)
	}
}

func (g *Game) After(ticks uint64, fn func()) engine.TimerID {
	return g.Timeline.After(ticks, fn)
}

func (g *Game) Cancel(id engine.TimerID) bool {
	return g.Timeline.Cancel(id)
}

// silent is the Sound used when audio is absent
type silent struct{}

func (silent) PlayBumper()   {}
func (silent) PlayFlipper()  {}
func (silent) PlayDrain()    {}
func (silent) PlayCapture()  {}
func (silent) Enabled() bool { return false }
func (silent) Toggle() bool  { return false }
