package vmath

import "math"

// Epsilon is the distance below which two points are treated as coincident
const Epsilon = 1e-9

// Vec2 is a float64 2D vector in playfield units (pixels, pixels/tick)
type Vec2 struct {
	X, Y float64
}

// V2 constructs a Vec2
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

func V2Add(a, b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

func V2Sub(a, b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func V2Scale(v Vec2, s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// V2Lerp returns a + (b-a)*t
func V2Lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// DotProduct returns a.X*b.X + a.Y*b.Y
func DotProduct(a, b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// MagnitudeSq returns squared length without sqrt
func MagnitudeSq(v Vec2) float64 {
	return v.X*v.X + v.Y*v.Y
}

// Magnitude returns Euclidean length
func Magnitude(v Vec2) float64 {
	return math.Sqrt(MagnitudeSq(v))
}

// Normalize2D returns the unit vector of v, or fallback when v is shorter than Epsilon
// Fallback is returned as given; callers pass an already normalized vector
func Normalize2D(v, fallback Vec2) Vec2 {
	mag := Magnitude(v)
	if mag < Epsilon || math.IsNaN(mag) || math.IsInf(mag, 0) {
		return fallback
	}
	inv := 1.0 / mag
	return Vec2{v.X * inv, v.Y * inv}
}

// ClampMagnitude limits vector to maxMag while preserving direction
// Scales both axes uniformly, never per-axis
func ClampMagnitude(v Vec2, maxMag float64) Vec2 {
	magSq := MagnitudeSq(v)
	if magSq <= maxMag*maxMag || magSq == 0 {
		return v
	}
	scale := maxMag / math.Sqrt(magSq)
	return Vec2{v.X * scale, v.Y * scale}
}

// Reflect returns velocity reflected off surface with given unit normal
// vel' = vel - 2 * dot(vel, normal) * normal
func Reflect(vel, normal Vec2) Vec2 {
	dot2 := 2 * DotProduct(vel, normal)
	return Vec2{vel.X - dot2*normal.X, vel.Y - dot2*normal.Y}
}

// Perpendicular returns vector rotated 90° counter-clockwise (in y-down screen space this points clockwise)
func Perpendicular(v Vec2) Vec2 {
	return Vec2{-v.Y, v.X}
}

// FromAngle returns the unit vector (cos θ, sin θ)
func FromAngle(rad float64) Vec2 {
	s, c := math.Sincos(rad)
	return Vec2{c, s}
}

// ClosestPointOnSegment projects p onto segment ab, clamping the projection to [0, |ab|]
// A zero-length segment degrades to a
func ClosestPointOnSegment(p, a, b Vec2) Vec2 {
	ab := V2Sub(b, a)
	lenSq := MagnitudeSq(ab)
	if lenSq < Epsilon*Epsilon {
		return a
	}
	t := DotProduct(V2Sub(p, a), ab) / lenSq
	t = Clamp(t, 0, 1)
	return Vec2{a.X + ab.X*t, a.Y + ab.Y*t}
}

// ClosestPointOnRect clamps p to the axis-aligned rectangle [min, max]
func ClosestPointOnRect(p, min, max Vec2) Vec2 {
	return Vec2{Clamp(p.X, min.X, max.X), Clamp(p.Y, min.Y, max.Y)}
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsFinite reports whether both components are neither NaN nor infinite
func IsFinite(v Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// DegToRad converts degrees to radians
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
