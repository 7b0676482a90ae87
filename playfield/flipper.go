package playfield

import (
	"fmt"
	"math"

	"github.com/lixenwraith/vi-pinball/physics"
	"github.com/lixenwraith/vi-pinball/vmath"
)

// Side selects one of the two flippers
type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return "unknown"
}

// ParseSide resolves a config or input name
func ParseSide(name string) (Side, error) {
	switch name {
	case "left", "l":
		return SideLeft, nil
	case "right", "r":
		return SideRight, nil
	}
	return 0, fmt.Errorf("unknown flipper side '%s'", name)
}

// angleEpsilon is the snap distance in degrees
const angleEpsilon = 1e-6

// FlipperConfig is the static geometry and tuning of one flipper
// Angles are degrees in table space (y grows downward); the right flipper mirrors the left
type FlipperConfig struct {
	Pivot        vmath.Vec2
	Length       float64
	HalfWidth    float64
	RestAngle    float64
	MaxAngle     float64
	Speed        float64 // Degrees per tick toward MaxAngle
	ReturnFactor float64 // Release speed as a fraction of Speed, nominal 0.6
	Kick         float64 // Impulse along the contact normal during the upward sweep
}

// Validate checks the geometry is usable
func (c FlipperConfig) Validate() error {
	if c.Length <= 0 {
		return fmt.Errorf("flipper length must be positive, got %g", c.Length)
	}
	if c.HalfWidth < 0 {
		return fmt.Errorf("flipper half width must not be negative, got %g", c.HalfWidth)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("flipper speed must be positive, got %g", c.Speed)
	}
	if c.ReturnFactor <= 0 || c.ReturnFactor > 1 {
		return fmt.Errorf("flipper return factor must be in (0,1], got %g", c.ReturnFactor)
	}
	if c.RestAngle == c.MaxAngle {
		return fmt.Errorf("flipper rest and max angle are equal (%g)", c.RestAngle)
	}
	return nil
}

// Flipper is an actuated blade rotating between rest and max
type Flipper struct {
	side Side
	cfg  FlipperConfig

	angle     float64
	prevAngle float64
	target    float64
	dir       int // Sign of the last angular step, 0 when settled
	pressed   bool
	movingUp  bool
}

func newFlipper(side Side, cfg FlipperConfig) *Flipper {
	return &Flipper{
		side:      side,
		cfg:       cfg,
		angle:     cfg.RestAngle,
		prevAngle: cfg.RestAngle,
		target:    cfg.RestAngle,
	}
}

// Press aims the flipper at its max angle
func (f *Flipper) Press() {
	f.pressed = true
	f.target = f.cfg.MaxAngle
}

// Release aims the flipper back at rest
func (f *Flipper) Release() {
	f.pressed = false
	f.target = f.cfg.RestAngle
}

// step advances one tick; the return sweep runs at ReturnFactor of the strike speed
// Snaps to target within angleEpsilon or when the step would overshoot
func (f *Flipper) step() {
	f.prevAngle = f.angle
	f.movingUp = false

	diff := f.target - f.angle
	if diff == 0 {
		f.dir = 0
		return
	}

	towardMax := f.target == f.cfg.MaxAngle
	speed := f.cfg.Speed
	if !towardMax {
		speed *= f.cfg.ReturnFactor
	}

	dir := 1.0
	if diff < 0 {
		dir = -1
	}
	next := f.angle + dir*speed
	if math.Abs(f.target-next) < angleEpsilon || (f.target-next)*dir < 0 {
		next = f.target
	}

	f.angle = next
	f.dir = int(dir)
	f.movingUp = towardMax
}

// IsMovingUp is true only on ticks where the blade swept toward max
func (f *Flipper) IsMovingUp() bool {
	return f.movingUp
}

func (f *Flipper) Side() Side            { return f.side }
func (f *Flipper) Angle() float64        { return f.angle }
func (f *Flipper) PrevAngle() float64    { return f.prevAngle }
func (f *Flipper) Pressed() bool         { return f.pressed }
func (f *Flipper) Direction() int        { return f.dir }
func (f *Flipper) Config() FlipperConfig { return f.cfg }

// Tip returns pivot + length·(cos θ, sin θ) at the current angle
func (f *Flipper) Tip() vmath.Vec2 {
	return tipAt(f.cfg.Pivot, f.cfg.Length, f.angle)
}

// TicksToMax returns the number of steps a press takes from rest
func (f *Flipper) TicksToMax() int {
	return int(math.Ceil(math.Abs(f.cfg.MaxAngle-f.cfg.RestAngle) / f.cfg.Speed))
}

func (f *Flipper) blade() physics.Blade {
	return physics.Blade{
		Pivot:     f.cfg.Pivot,
		Tip:       f.Tip(),
		HalfWidth: f.cfg.HalfWidth,
		MovingUp:  f.movingUp,
		Kick:      f.cfg.Kick,
		Fallback:  physics.DefaultFallbackNormal,
	}
}

func tipAt(pivot vmath.Vec2, length, deg float64) vmath.Vec2 {
	return vmath.V2Add(pivot, vmath.V2Scale(vmath.FromAngle(vmath.DegToRad(deg)), length))
}
