package playfield

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/lixenwraith/vi-pinball/physics"
	"github.com/lixenwraith/vi-pinball/status"
	"github.com/lixenwraith/vi-pinball/vmath"
)

// Config is the immutable per-run physics setup, all rates are per tick
type Config struct {
	Gravity    vmath.Vec2
	Friction   float64 // Fraction of velocity lost per tick, in [0,1)
	Damping    float64 // Restitution applied on reflection
	MaxSpeed   float64 // Uniform speed cap, <= 0 disables
	BallRadius float64

	Bounds physics.Bounds
	Zones  []physics.Zone

	Left  FlipperConfig
	Right FlipperConfig
}

// Validate checks every field the world depends on
func (c *Config) Validate() error {
	if c.Friction < 0 || c.Friction >= 1 {
		return fmt.Errorf("friction must be in [0,1), got %g", c.Friction)
	}
	if c.Damping < 0 {
		return fmt.Errorf("damping must not be negative, got %g", c.Damping)
	}
	if c.BallRadius <= 0 {
		return fmt.Errorf("ball radius must be positive, got %g", c.BallRadius)
	}
	if c.Bounds.Width <= 2*c.BallRadius || c.Bounds.Height <= 2*c.BallRadius {
		return fmt.Errorf("table %gx%g too small for ball radius %g", c.Bounds.Width, c.Bounds.Height, c.BallRadius)
	}
	for i := range c.Zones {
		if err := c.Zones[i].Validate(); err != nil {
			return fmt.Errorf("zone %d (%s): %w", i, c.Zones[i].ContactID, err)
		}
	}
	if err := c.Left.Validate(); err != nil {
		return fmt.Errorf("left flipper: %w", err)
	}
	if err := c.Right.Validate(); err != nil {
		return fmt.Errorf("right flipper: %w", err)
	}
	return nil
}

// World owns balls and flippers and advances them one fixed tick per Step
// It is the single writer of simulation state; renderers read Snapshot copies
// Not thread-safe; driven from the simulation goroutine
type World struct {
	cfg   Config
	zones []physics.Zone

	balls  map[BallID]*Ball
	order  []BallID // Creation order, drives deterministic iteration
	nextID BallID

	flippers  [2]*Flipper
	observers observerSet
	tick      uint64

	// Cached metric pointers
	statSteps    *atomic.Int64
	statActive   *atomic.Int64
	statContacts *atomic.Int64
	statDrains   *atomic.Int64
	statCaptures *atomic.Int64
	statScrubs   *atomic.Int64
	statSpeed    *status.AtomicFloat
}

// NewWorld validates cfg and creates an empty world with both flippers at rest
func NewWorld(cfg Config, reg *status.Registry) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid physics config: %w", err)
	}
	if reg == nil {
		reg = status.NewRegistry()
	}

	zones := make([]physics.Zone, len(cfg.Zones))
	copy(zones, cfg.Zones)

	w := &World{
		cfg:          cfg,
		zones:        zones,
		balls:        make(map[BallID]*Ball),
		statSteps:    reg.Ints.Get("phys.ball_steps"),
		statActive:   reg.Ints.Get("phys.balls_active"),
		statContacts: reg.Ints.Get("phys.contacts"),
		statDrains:   reg.Ints.Get("phys.drains"),
		statCaptures: reg.Ints.Get("phys.captures"),
		statScrubs:   reg.Ints.Get("phys.scrubs"),
		statSpeed:    reg.Floats.Get("phys.speed_peak"),
	}
	w.flippers[SideLeft] = newFlipper(SideLeft, cfg.Left)
	w.flippers[SideRight] = newFlipper(SideRight, cfg.Right)
	return w, nil
}

// Subscribe registers an observer, returns its unsubscribe handle
func (w *World) Subscribe(o Observer) func() {
	return w.observers.add(o)
}

// CreateBall places a new active ball at rest
func (w *World) CreateBall(x, y float64) BallID {
	w.nextID++
	id := w.nextID
	pos := vmath.V2(x, y)
	w.balls[id] = &Ball{
		ID:      id,
		Pos:     pos,
		PrevPos: pos,
		Radius:  w.cfg.BallRadius,
		Active:  true,
		Captor:  noZone,
		ignore:  noZone,
	}
	w.order = append(w.order, id)
	w.statActive.Add(1)
	return id
}

// ApplyImpulse adds (ix, iy) to the ball's velocity; captured balls ignore impulses
func (w *World) ApplyImpulse(id BallID, ix, iy float64) error {
	b, err := w.activeBall(id)
	if err != nil {
		return err
	}
	if b.Captured {
		return nil
	}
	body := b.body()
	physics.ApplyImpulse(&body, vmath.V2(ix, iy))
	b.commit(body)
	return nil
}

// ReleaseCaptured frees a captured ball with velocity (vx, vy)
// Integration resumes from exactly that velocity on the next Step
func (w *World) ReleaseCaptured(id BallID, vx, vy float64) error {
	b, err := w.activeBall(id)
	if err != nil {
		return err
	}
	if !b.Captured {
		return fmt.Errorf("ball %d: %w", id, ErrBallNotCaptured)
	}
	b.Captured = false
	b.ignore = b.Captor
	b.Captor = noZone
	body := b.body()
	physics.SetImpulse(&body, vmath.V2(vx, vy))
	b.commit(body)
	return nil
}

// RemoveBall drops a ball without a drain signal, returns false if unknown
func (w *World) RemoveBall(id BallID) bool {
	b, ok := w.balls[id]
	if !ok {
		return false
	}
	if b.Active {
		b.Active = false
		w.statActive.Add(-1)
	}
	delete(w.balls, id)
	for i, x := range w.order {
		if x == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

// Ball returns a copy of the ball state
func (w *World) Ball(id BallID) (Ball, bool) {
	b, ok := w.balls[id]
	if !ok {
		return Ball{}, false
	}
	return *b, true
}

// ActiveBalls returns copies of every active ball in creation order
func (w *World) ActiveBalls() []Ball {
	out := make([]Ball, 0, len(w.order))
	for _, id := range w.order {
		if b := w.balls[id]; b.Active {
			out = append(out, *b)
		}
	}
	return out
}

// PressFlipper starts the strike sweep
func (w *World) PressFlipper(side Side) {
	if f := w.flipper(side); f != nil {
		f.Press()
	}
}

// ReleaseFlipper starts the return sweep
func (w *World) ReleaseFlipper(side Side) {
	if f := w.flipper(side); f != nil {
		f.Release()
	}
}

// Flipper exposes a flipper for inspection
func (w *World) Flipper(side Side) *Flipper {
	return w.flipper(side)
}

// Tick returns the number of completed steps
func (w *World) Tick() uint64 {
	return w.tick
}

func (w *World) flipper(side Side) *Flipper {
	if int(side) >= len(w.flippers) {
		log.Printf("[PHYS] unknown flipper side %d", side)
		return nil
	}
	return w.flippers[side]
}

func (w *World) activeBall(id BallID) (*Ball, error) {
	b, ok := w.balls[id]
	if !ok || !b.Active {
		return nil, fmt.Errorf("ball %d: %w", id, ErrUnknownBall)
	}
	return b, nil
}

// pending collects one ball's notifications so dispatch happens after its state commits
type pending struct {
	contacts []Contact
	capture  *Capture
	drained  bool
}

// Step advances the world one fixed tick
// Flippers move first so a blade's upward sweep and its kick land on the same tick
func (w *World) Step() {
	w.tick++
	for _, f := range w.flippers {
		f.step()
	}

	// Balls created by observers during this step start next tick
	ids := make([]BallID, len(w.order))
	copy(ids, w.order)

	for _, id := range ids {
		b, ok := w.balls[id]
		if !ok || !b.Active {
			continue
		}

		var p pending
		if b.Captured {
			b.PrevPos = b.Pos
			b.Vel = vmath.Vec2{}
		} else {
			p = w.stepBall(b)
		}
		w.statSteps.Add(1)

		w.dispatch(b, &p)
	}
}

func (w *World) stepBall(b *Ball) pending {
	var p pending

	body := b.body()
	prev := physics.Integrate(&body, w.cfg.Gravity, w.cfg.Friction, w.cfg.MaxSpeed)
	b.PrevPos = prev
	if physics.Scrub(&body, prev) {
		w.statScrubs.Add(1)
		log.Printf("[PHYS] ball %d non-finite after integration, restored", b.ID)
	}

	for i := range w.zones {
		z := &w.zones[i]
		if b.ignore == i {
			if _, still := physics.TestZone(z, body.Pos, body.Radius); still {
				continue
			}
			b.ignore = noZone
		}

		if _, hit := physics.ResolveZone(&body, z, w.cfg.Damping); !hit {
			continue
		}
		if z.ContactID != "" {
			p.contacts = append(p.contacts, Contact{ContactID: z.ContactID, Ball: b.ID, Pos: body.Pos, Vel: body.Vel})
		}
		if z.Captures {
			body.Pos = z.Anchor()
			body.Vel = vmath.Vec2{}
			b.Captured = true
			b.Captor = i
			p.capture = &Capture{Ball: b.ID, ContactID: z.ContactID, Anchor: body.Pos}
			break
		}
	}

	if !b.Captured {
		for _, f := range w.flippers {
			physics.ResolveBlade(&body, f.blade(), w.cfg.Damping)
		}
		res := physics.ReflectBounds(&body, w.cfg.Bounds, w.cfg.Damping)
		p.drained = res.Drained
	}

	if physics.Scrub(&body, prev) {
		w.statScrubs.Add(1)
		log.Printf("[PHYS] ball %d non-finite after collision, restored", b.ID)
	}
	b.commit(body)

	w.statSpeed.Max(vmath.Magnitude(body.Vel))
	return p
}

func (w *World) dispatch(b *Ball, p *pending) {
	update := BallUpdate{ID: b.ID, Pos: b.Pos, Vel: b.Vel, Captured: b.Captured}
	w.observers.each(func(o Observer) { o.OnBallUpdate(update) })

	for _, c := range p.contacts {
		w.statContacts.Add(1)
		w.observers.each(func(o Observer) { o.OnContact(c) })
	}

	if p.capture != nil {
		w.statCaptures.Add(1)
		capture := *p.capture
		w.observers.each(func(o Observer) { o.OnCapture(capture) })
	}

	if p.drained && b.Active {
		b.Active = false
		b.Vel = vmath.Vec2{}
		w.statActive.Add(-1)
		w.statDrains.Add(1)
		id := b.ID
		w.observers.each(func(o Observer) { o.OnDrain(id) })
	}
}
