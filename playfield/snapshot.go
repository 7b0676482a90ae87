package playfield

import (
	"github.com/lixenwraith/vi-pinball/physics"
	"github.com/lixenwraith/vi-pinball/vmath"
)

// BallSnapshot is the render view of one ball
type BallSnapshot struct {
	ID       BallID
	Prev     vmath.Vec2
	Pos      vmath.Vec2
	Vel      vmath.Vec2
	Radius   float64
	Captured bool
}

// At interpolates between the previous and current tick position
func (b BallSnapshot) At(alpha float64) vmath.Vec2 {
	return vmath.V2Lerp(b.Prev, b.Pos, alpha)
}

// FlipperSnapshot is the render view of one flipper
type FlipperSnapshot struct {
	Side      Side
	Pivot     vmath.Vec2
	Length    float64
	HalfWidth float64
	PrevAngle float64
	Angle     float64
	Pressed   bool
}

// TipAt interpolates the blade tip between the previous and current angle
func (f FlipperSnapshot) TipAt(alpha float64) vmath.Vec2 {
	deg := f.PrevAngle + (f.Angle-f.PrevAngle)*alpha
	return tipAt(f.Pivot, f.Length, deg)
}

// Snapshot is an immutable copy of committed state for readers
// Zones and Bounds are shared with the world and must be treated as read-only
type Snapshot struct {
	Tick     uint64
	Balls    []BallSnapshot
	Flippers [2]FlipperSnapshot
	Zones    []physics.Zone
	Bounds   physics.Bounds
}

// Snapshot copies the current committed state
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Tick:   w.tick,
		Balls:  make([]BallSnapshot, 0, len(w.order)),
		Zones:  w.zones,
		Bounds: w.cfg.Bounds,
	}
	for _, id := range w.order {
		b := w.balls[id]
		if !b.Active {
			continue
		}
		s.Balls = append(s.Balls, BallSnapshot{
			ID:       b.ID,
			Prev:     b.PrevPos,
			Pos:      b.Pos,
			Vel:      b.Vel,
			Radius:   b.Radius,
			Captured: b.Captured,
		})
	}
	for i, f := range w.flippers {
		s.Flippers[i] = FlipperSnapshot{
			Side:      f.side,
			Pivot:     f.cfg.Pivot,
			Length:    f.cfg.Length,
			HalfWidth: f.cfg.HalfWidth,
			PrevAngle: f.prevAngle,
			Angle:     f.angle,
			Pressed:   f.pressed,
		}
	}
	return s
}
