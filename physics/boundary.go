package physics

import (
	"github.com/lixenwraith/vi-pinball/vmath"
)

// Bounds is the playfield outline
// Lane is the plunger column where the right wall holds instead of bouncing
// Drain deactivates any ball whose center enters it
type Bounds struct {
	Width, Height float64
	Lane          Rect
	Drain         Rect
}

// BoundsResult reports which edges acted on a body this tick
type BoundsResult struct {
	Reflected bool
	Resting   bool
	Drained   bool
}

// ReflectBounds handles the table edges for one body
// Left and top always reflect; right reflects outside the lane; the floor outside the drain holds
func ReflectBounds(b *Body, bounds Bounds, damping float64) BoundsResult {
	var res BoundsResult

	if bounds.Drain.Contains(b.Pos) {
		res.Drained = true
		return res
	}

	r := b.Radius

	if b.Pos.X < r {
		b.Pos.X = r
		if b.Vel.X < 0 {
			b.Vel.X = -b.Vel.X * damping
		}
		res.Reflected = true
	}

	if b.Pos.Y < r {
		b.Pos.Y = r
		if b.Vel.Y < 0 {
			b.Vel.Y = -b.Vel.Y * damping
		}
		res.Reflected = true
	}

	if b.Pos.X > bounds.Width-r {
		b.Pos.X = bounds.Width - r
		if bounds.Lane.Contains(b.Pos) {
			if b.Vel.X > 0 {
				b.Vel.X = 0
			}
			res.Resting = true
		} else if b.Vel.X > 0 {
			b.Vel.X = -b.Vel.X * damping
			res.Reflected = true
		}
	}

	if b.Pos.Y > bounds.Height-r {
		b.Pos.Y = bounds.Height - r
		if b.Vel.Y > 0 {
			b.Vel.Y = 0
		}
		res.Resting = true
	}

	return res
}

// Scrub restores a body whose state went non-finite during the tick
// Returns true when a repair was needed
func Scrub(b *Body, prev vmath.Vec2) bool {
	if vmath.IsFinite(b.Pos) && vmath.IsFinite(b.Vel) {
		return false
	}
	if vmath.IsFinite(prev) {
		b.Pos = prev
	} else {
		b.Pos = vmath.Vec2{}
	}
	b.Vel = vmath.Vec2{}
	return true
}
