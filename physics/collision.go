package physics

import (
	"math"

	"github.com/lixenwraith/vi-pinball/vmath"
)

// Body is the mutable slice of ball state the resolver works on
type Body struct {
	Pos    vmath.Vec2
	Vel    vmath.Vec2
	Radius float64
}

// Hit describes one overlap between a body and a shape
type Hit struct {
	Point   vmath.Vec2 // Closest point on the shape surface (or center for circles)
	Normal  vmath.Vec2 // Unit vector from shape toward body
	Overlap float64    // Penetration depth, > 0 when overlapping
}

// Blade is a flipper capsule in world space for one tick
type Blade struct {
	Pivot     vmath.Vec2
	Tip       vmath.Vec2
	HalfWidth float64
	MovingUp  bool
	Kick      float64
	Fallback  vmath.Vec2
}

// TestZone returns the overlap of a ball at pos with radius against zone z
// Pure: no state is modified
func TestZone(z *Zone, pos vmath.Vec2, radius float64) (Hit, bool) {
	switch z.Kind {
	case ShapeCircle:
		return testPoint(pos, radius, z.Center, z.Radius, z.Fallback())
	case ShapeRect:
		return testRect(pos, radius, z.Min, z.Max, z.Fallback())
	case ShapeSegment:
		closest := vmath.ClosestPointOnSegment(pos, z.A, z.B)
		return testPoint(pos, radius, closest, z.HalfWidth, z.Fallback())
	}
	return Hit{}, false
}

// TestBlade returns the overlap of a ball against a flipper capsule
func TestBlade(blade Blade, pos vmath.Vec2, radius float64) (Hit, bool) {
	closest := vmath.ClosestPointOnSegment(pos, blade.Pivot, blade.Tip)
	return testPoint(pos, radius, closest, blade.HalfWidth, vmath.Normalize2D(blade.Fallback, DefaultFallbackNormal))
}

// testPoint is the shared circle-vs-point check, every shape reduces to it
// Coincident centers resolve along fallback instead of a zero-length normal
func testPoint(pos vmath.Vec2, radius float64, point vmath.Vec2, pointRadius float64, fallback vmath.Vec2) (Hit, bool) {
	delta := vmath.V2Sub(pos, point)
	dist := vmath.Magnitude(delta)
	overlap := radius + pointRadius - dist
	if !(overlap > 0) { // also rejects NaN
		return Hit{}, false
	}

	var normal vmath.Vec2
	if dist < vmath.Epsilon {
		normal = fallback
	} else {
		normal = vmath.V2Scale(delta, 1/dist)
	}

	return Hit{Point: point, Normal: normal, Overlap: overlap}, true
}

// testRect handles a center outside the rect like any closest point
// A center inside leaves through the nearest edge, overlap = depth to that edge + radius;
// the fallback direction is taken when two axes tie or the rect has no area
func testRect(pos vmath.Vec2, radius float64, lo, hi, fallback vmath.Vec2) (Hit, bool) {
	inside := pos.X >= lo.X && pos.X <= hi.X && pos.Y >= lo.Y && pos.Y <= hi.Y
	if !inside {
		return testPoint(pos, radius, vmath.ClosestPointOnRect(pos, lo, hi), 0, fallback)
	}

	// Exit depth and direction per axis, nearer side wins
	dx, nx := pos.X-lo.X, -1.0
	if d := hi.X - pos.X; d < dx {
		dx, nx = d, 1
	}
	dy, ny := pos.Y-lo.Y, -1.0
	if d := hi.Y - pos.Y; d < dy {
		dy, ny = d, 1
	}

	var normal vmath.Vec2
	var depth float64
	switch {
	case hi.X-lo.X < vmath.Epsilon || hi.Y-lo.Y < vmath.Epsilon || math.Abs(dx-dy) < vmath.Epsilon:
		normal = fallback
		depth = exitDepth(pos, lo, hi, normal)
	case dx < dy:
		normal, depth = vmath.V2(nx, 0), dx
	default:
		normal, depth = vmath.V2(0, ny), dy
	}

	return Hit{Point: vmath.V2Add(pos, vmath.V2Scale(normal, depth)), Normal: normal, Overlap: depth + radius}, true
}

// exitDepth is how far pos travels along unit n before leaving the rect
func exitDepth(pos, lo, hi, n vmath.Vec2) float64 {
	depth := -1.0
	axis := func(p, l, h, d float64) {
		var t float64
		switch {
		case d > vmath.Epsilon:
			t = (h - p) / d
		case d < -vmath.Epsilon:
			t = (p - l) / -d
		default:
			return
		}
		if depth < 0 || t < depth {
			depth = t
		}
	}
	axis(pos.X, lo.X, hi.X, n.X)
	axis(pos.Y, lo.Y, hi.Y, n.Y)
	return max(depth, 0)
}

// Respond applies push-out, reflection, damping and kick for a hit
// Push-out runs first so the body never ends the tick embedded in the shape
// Velocity is only reflected while approaching the surface
func Respond(b *Body, hit Hit, damping, kick float64) {
	b.Pos = vmath.V2Add(b.Pos, vmath.V2Scale(hit.Normal, hit.Overlap))

	if vmath.DotProduct(b.Vel, hit.Normal) < 0 {
		b.Vel = vmath.V2Scale(vmath.Reflect(b.Vel, hit.Normal), damping)
	}

	if kick > 0 {
		b.Vel = vmath.V2Add(b.Vel, vmath.V2Scale(hit.Normal, kick))
	}
}

// ResolveZone tests and responds to a single zone
// Capture zones are only tested; the caller owns the capture transition
func ResolveZone(b *Body, z *Zone, damping float64) (Hit, bool) {
	hit, ok := TestZone(z, b.Pos, b.Radius)
	if !ok {
		return Hit{}, false
	}
	if z.Captures {
		return hit, true
	}

	kick := 0.0
	if z.Kicks {
		kick = z.KickStrength
	}
	Respond(b, hit, damping, kick)
	return hit, true
}

// ResolveBlade tests and responds to a flipper capsule
// The kick impulse is only injected during the active upward sweep
func ResolveBlade(b *Body, blade Blade, damping float64) (Hit, bool) {
	hit, ok := TestBlade(blade, b.Pos, b.Radius)
	if !ok {
		return Hit{}, false
	}

	kick := 0.0
	if blade.MovingUp {
		kick = blade.Kick
	}
	Respond(b, hit, damping, kick)
	return hit, true
}
