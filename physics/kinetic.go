package physics

import (
	"github.com/lixenwraith/vi-pinball/vmath"
)

// Integrate performs one fixed-tick step in per-tick units:
// v += g; v *= (1 - friction); |v| <= maxSpeed; p += v
// Returns the position before the move for render interpolation
func Integrate(b *Body, gravity vmath.Vec2, friction, maxSpeed float64) (prev vmath.Vec2) {
	prev = b.Pos
	b.Vel = vmath.V2Add(b.Vel, gravity)
	b.Vel = vmath.V2Scale(b.Vel, 1-friction)
	CapSpeed(&b.Vel, maxSpeed)
	b.Pos = vmath.V2Add(b.Pos, b.Vel)
	return prev
}

// ApplyImpulse adds velocity delta, all bodies have unit mass
func ApplyImpulse(b *Body, impulse vmath.Vec2) {
	b.Vel = vmath.V2Add(b.Vel, impulse)
}

// SetImpulse overrides velocity (capture release, hard redirect)
func SetImpulse(b *Body, vel vmath.Vec2) {
	b.Vel = vel
}
