package game

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lixenwraith/vi-pinball/config"
	"github.com/lixenwraith/vi-pinball/engine"
	"github.com/lixenwraith/vi-pinball/game/flow"
	"github.com/lixenwraith/vi-pinball/playfield"
	"github.com/lixenwraith/vi-pinball/render"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type fakeSound struct {
	bumper, flipper, drain, capture int
	enabled                         bool
}

func (s *fakeSound) PlayBumper()   { s.bumper++ }
func (s *fakeSound) PlayFlipper()  { s.flipper++ }
func (s *fakeSound) PlayDrain()    { s.drain++ }
func (s *fakeSound) PlayCapture()  { s.capture++ }
func (s *fakeSound) Enabled() bool { return s.enabled }
func (s *fakeSound) Toggle() bool  { s.enabled = !s.enabled; return s.enabled }

type fakeRenderer struct {
	frames []render.Frame
}

func (r *fakeRenderer) RenderFrame(f render.Frame) { r.frames = append(r.frames, f) }

type harness struct {
	g     *Game
	clock *engine.MockTimeProvider
	sound *fakeSound
	out   *fakeRenderer
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	h := &harness{
		clock: engine.NewMockTimeProvider(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		sound: &fakeSound{enabled: true},
		out:   &fakeRenderer{},
	}
	g, err := New(cfg, Options{TimeProvider: h.clock, Sound: h.sound, Renderer: h.out})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(g.Stop)
	h.g = g
	return h
}

// step runs n frames of exactly one fixed step each
func (h *harness) step(n int) {
	for i := 0; i < n; i++ {
		h.g.Tick(h.clock.Advance(h.g.Scheduler.FixedStep()))
	}
}

func (h *harness) assertState(t *testing.T, want string) {
	t.Helper()
	if got := h.g.Machine.CurrentStatePath(); got != want {
		t.Fatalf("state = %q, want %q", got, want)
	}
}

func (h *harness) onlyBall(t *testing.T) playfield.Ball {
	t.Helper()
	balls := h.g.World.ActiveBalls()
	if len(balls) != 1 {
		t.Fatalf("active balls = %d, want 1", len(balls))
	}
	return balls[0]
}

func TestStartsInAttract(t *testing.T) {
	h := newHarness(t, nil)
	h.assertState(t, flow.PathAttract)

	h.step(3)
	if h.g.World.Tick() != 3 || h.g.Timeline.Now() != 3 {
		t.Errorf("world/timeline ticks = %d/%d, want 3/3", h.g.World.Tick(), h.g.Timeline.Now())
	}
	if len(h.out.frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(h.out.frames))
	}
	if f := h.out.frames[2]; f.Mode != render.ModeAttract || !f.Audio {
		t.Errorf("frame mode/audio = %s/%v", f.Mode, f.Audio)
	}
}

// TestServeAndLaunch verifies the ball settles in the lane and the plunger fires it
func TestServeAndLaunch(t *testing.T) {
	h := newHarness(t, nil)
	cfg := config.Default()

	h.g.Input(ActionLaunch)
	h.assertState(t, flow.PathLaunch)

	b := h.onlyBall(t)
	if b.Pos.X != cfg.Table.Launch.X || b.Pos.Y != cfg.Table.Launch.Y {
		t.Fatalf("served at %v, want launch point", b.Pos)
	}

	h.step(30)
	b = h.onlyBall(t)
	rest := cfg.Table.Height - cfg.Physics.BallRadius
	if b.Pos.Y != rest || b.Vel.Y != 0 {
		t.Fatalf("ball pos/vel = %v/%v, want resting at y=%v", b.Pos, b.Vel, rest)
	}

	h.g.Input(ActionLaunch)
	h.assertState(t, flow.PathLive)
	b = h.onlyBall(t)
	if b.Vel.Y != -cfg.Game.LaunchImpulse {
		t.Errorf("launch velocity = %v, want %v", b.Vel.Y, -cfg.Game.LaunchImpulse)
	}

	h.step(1)
	if got := h.onlyBall(t).Pos.Y; got >= rest {
		t.Errorf("ball did not rise: y = %v", got)
	}
}

// TestDrainServesNextBall runs a drain through physics, flow and the table
func TestDrainServesNextBall(t *testing.T) {
	h := newHarness(t, nil)
	h.g.Input(ActionStart)
	h.step(30)
	h.g.Input(ActionLaunch)
	h.assertState(t, flow.PathLive)

	served := h.onlyBall(t)
	h.g.World.RemoveBall(served.ID)
	doomed := h.g.World.CreateBall(400, 1180)

	h.step(1)
	if h.sound.drain != 1 {
		t.Errorf("drain cues = %d, want 1", h.sound.drain)
	}
	h.assertState(t, flow.PathLaunch)
	if h.g.Flow.Ball() != 2 {
		t.Errorf("ball = %d, want 2", h.g.Flow.Ball())
	}
	if _, ok := h.g.World.Ball(doomed); ok {
		t.Error("drained ball still tracked by the world")
	}
	next := h.onlyBall(t)
	if next.ID == served.ID || next.ID == doomed {
		t.Errorf("next ball reused id %d", next.ID)
	}
}

// TestGameOverReturnsToAttract verifies the over dwell is counted in fixed ticks
func TestGameOverReturnsToAttract(t *testing.T) {
	cfg := config.Default()
	cfg.Game.BallsPerGame = 1
	cfg.Game.GameOverTicks = 40
	h := newHarness(t, cfg)

	h.g.Input(ActionStart)
	h.g.World.RemoveBall(h.onlyBall(t).ID)
	h.g.World.CreateBall(400, 1180)
	h.step(1)
	h.assertState(t, flow.PathOver)
	if n := len(h.g.World.ActiveBalls()); n != 0 {
		t.Errorf("active balls in over = %d", n)
	}

	h.step(39)
	h.assertState(t, flow.PathOver)
	h.step(1)
	h.assertState(t, flow.PathAttract)
}

func TestBumperScores(t *testing.T) {
	h := newHarness(t, nil)
	h.g.Input(ActionStart)

	// Dropped onto the top of bumper.2 at (400, 260)
	h.g.World.CreateBall(400, 200)
	h.step(30)

	if h.g.Flow.Score() < 100 || h.g.Flow.Score()%100 != 0 {
		t.Errorf("score = %d, want bumper hits", h.g.Flow.Score())
	}
	if h.sound.bumper == 0 {
		t.Error("no bumper cue")
	}
}

// TestSaucerHoldAndEject verifies capture, the timed hold and the eject velocity
func TestSaucerHoldAndEject(t *testing.T) {
	cfg := config.Default()
	cfg.Game.SaucerHoldTicks = 20
	h := newHarness(t, cfg)
	h.g.Input(ActionStart)

	// Dropped into the saucer at (400, 520)
	id := h.g.World.CreateBall(400, 480)
	var capturedAt int
	for i := 1; i <= 30; i++ {
		h.step(1)
		if b, _ := h.g.World.Ball(id); b.Captured {
			capturedAt = i
			break
		}
	}
	if capturedAt == 0 {
		t.Fatal("ball never captured")
	}
	if h.sound.capture != 1 {
		t.Errorf("capture cues = %d, want 1", h.sound.capture)
	}
	if h.g.Flow.Score() != 1000 {
		t.Errorf("score = %d, want saucer 1000", h.g.Flow.Score())
	}

	h.step(19)
	if b, _ := h.g.World.Ball(id); !b.Captured || b.Vel.X != 0 || b.Vel.Y != 0 {
		t.Fatalf("ball left saucer early: %+v", b)
	}
	anchor, _ := h.g.World.Ball(id)
	h.step(1)
	b, _ := h.g.World.Ball(id)
	if b.Captured {
		t.Fatal("ball not ejected after hold")
	}
	// Released before the step, so the eject velocity is integrated on the same tick
	if b.Vel.X >= 0 || b.Vel.Y >= 0 || b.Pos.X >= anchor.Pos.X || b.Pos.Y >= anchor.Pos.Y {
		t.Errorf("ball not ejected up-left: pos %v vel %v", b.Pos, b.Vel)
	}
	h.step(10)
	if b, _ := h.g.World.Ball(id); b.Captured {
		t.Error("ball recaptured while leaving the saucer")
	}
}

// TestFlipperHold verifies a press holds for FlipperHoldTicks and a repeat re-arms it
func TestFlipperHold(t *testing.T) {
	h := newHarness(t, nil)
	hold := config.Default().Game.FlipperHoldTicks
	left := h.g.World.Flipper(playfield.SideLeft)

	h.g.Input(ActionFlipLeft)
	if !left.Pressed() || h.sound.flipper != 1 {
		t.Fatalf("pressed/cues = %v/%d", left.Pressed(), h.sound.flipper)
	}

	h.step(hold - 1)
	if !left.Pressed() {
		t.Fatal("released before hold expired")
	}
	h.step(1)
	if left.Pressed() {
		t.Fatal("still pressed after hold expired")
	}

	h.g.Input(ActionFlipLeft)
	h.step(hold - 2)
	h.g.Input(ActionFlipLeft)
	if h.sound.flipper != 2 {
		t.Errorf("cues = %d, want 2 (repeat while held is silent)", h.sound.flipper)
	}
	h.step(hold - 1)
	if !left.Pressed() {
		t.Error("repeat press did not re-arm the hold")
	}
	h.step(1)
	if left.Pressed() {
		t.Error("re-armed hold never expired")
	}
	if h.g.World.Flipper(playfield.SideRight).Pressed() {
		t.Error("right flipper moved")
	}
}

func TestPauseBlocksInput(t *testing.T) {
	h := newHarness(t, nil)
	h.step(2)

	h.g.Input(ActionPause)
	if !h.g.Scheduler.IsPaused() {
		t.Fatal("not paused")
	}
	h.g.Input(ActionStart)
	h.g.Input(ActionFlipRight)
	h.assertState(t, flow.PathAttract)
	if h.g.World.Flipper(playfield.SideRight).Pressed() {
		t.Error("flipper pressed while paused")
	}

	h.step(5)
	if h.g.World.Tick() != 2 {
		t.Errorf("world ticked while paused: %d", h.g.World.Tick())
	}
	if f := h.out.frames[len(h.out.frames)-1]; !f.Paused {
		t.Error("frame not marked paused")
	}

	h.g.Input(ActionToggleAudio)
	if h.sound.enabled {
		t.Error("audio toggle ignored while paused")
	}

	h.g.Input(ActionPause)
	h.step(1)
	if h.g.World.Tick() != 3 {
		t.Errorf("world tick after resume = %d, want 3", h.g.World.Tick())
	}
}

func TestStopDetaches(t *testing.T) {
	h := newHarness(t, nil)
	h.step(1)
	h.g.Stop()
	h.g.Stop()

	frames := len(h.out.frames)
	h.step(3)
	if len(h.out.frames) != frames || h.g.World.Tick() != 1 {
		t.Error("callbacks ran after Stop")
	}
}

func TestTopologyOverride(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "flow.yaml")
	doc := "initial: over\nstates:\n  - name: attract\n    behavior: attract\n  - name: play\n    behavior: play\n    children:\n      - name: launch\n        behavior: launch\n      - name: live\n        behavior: live\n  - name: over\n    behavior: over\n"
	if err := os.WriteFile(custom, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := New(nil, Options{TopologyPath: custom})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := g.Machine.CurrentStatePath(); got != flow.PathOver {
		t.Errorf("initial state = %q, want over from custom topology", got)
	}

	if _, err := New(nil, Options{TopologyPath: filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Error("expected error for missing topology")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.TickRate = 0
	if _, err := New(cfg, Options{}); err == nil {
		t.Error("expected error for zero tick rate")
	}
}
