package physics

import (
	"github.com/lixenwraith/vi-pinball/vmath"
)

// CapSpeed limits the velocity vector magnitude to maxSpeed
// Returns true if velocity was clamped; maxSpeed <= 0 disables the cap
func CapSpeed(vel *vmath.Vec2, maxSpeed float64) bool {
	if maxSpeed <= 0 {
		return false
	}
	if vmath.MagnitudeSq(*vel) > maxSpeed*maxSpeed {
		*vel = vmath.ClampMagnitude(*vel, maxSpeed)
		return true
	}
	return false
}
