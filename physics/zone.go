package physics

import (
	"fmt"

	"github.com/lixenwraith/vi-pinball/vmath"
)

// ShapeKind selects the geometry variant of a Zone
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
	ShapeSegment
)

var shapeNames = map[ShapeKind]string{
	ShapeCircle:  "circle",
	ShapeRect:    "rect",
	ShapeSegment: "segment",
}

func (k ShapeKind) String() string {
	if name, ok := shapeNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseShapeKind resolves a config name to a ShapeKind
func ParseShapeKind(name string) (ShapeKind, error) {
	for k, n := range shapeNames {
		if n == name {
			return k, nil
		}
	}
	switch name {
	case "rectangle":
		return ShapeRect, nil
	case "line", "line-segment":
		return ShapeSegment, nil
	}
	return 0, fmt.Errorf("unknown shape kind '%s'", name)
}

// DefaultFallbackNormal points up the playfield (y grows downward)
var DefaultFallbackNormal = vmath.V2(0, -1)

// Zone is a static collision shape, read-only after table load
// Only the geometry fields of the active Kind are meaningful
type Zone struct {
	Kind ShapeKind

	// Circle
	Center vmath.Vec2
	Radius float64

	// Rect (axis-aligned, Min <= Max)
	Min, Max vmath.Vec2

	// Segment A->B, HalfWidth thickens it into a capsule
	A, B      vmath.Vec2
	HalfWidth float64

	// ContactID is the external switch identifier, empty = silent zone
	ContactID string

	// Captures holds the ball at Anchor until released externally
	Captures bool

	Kicks        bool
	KickStrength float64

	// FallbackNormal is used when the contact normal degenerates to zero length
	FallbackNormal vmath.Vec2
}

// Anchor returns the point a captured ball snaps to
func (z *Zone) Anchor() vmath.Vec2 {
	switch z.Kind {
	case ShapeRect:
		return vmath.V2Lerp(z.Min, z.Max, 0.5)
	case ShapeSegment:
		return vmath.V2Lerp(z.A, z.B, 0.5)
	default:
		return z.Center
	}
}

// Fallback returns the normalized declared fallback normal, or DefaultFallbackNormal
func (z *Zone) Fallback() vmath.Vec2 {
	return vmath.Normalize2D(z.FallbackNormal, DefaultFallbackNormal)
}

// Validate checks geometry is usable
func (z *Zone) Validate() error {
	switch z.Kind {
	case ShapeCircle:
		if z.Radius <= 0 {
			return fmt.Errorf("circle radius must be positive, got %g", z.Radius)
		}
	case ShapeRect:
		if z.Max.X < z.Min.X || z.Max.Y < z.Min.Y {
			return fmt.Errorf("rect max %v is below min %v", z.Max, z.Min)
		}
	case ShapeSegment:
		if z.HalfWidth < 0 {
			return fmt.Errorf("segment half width must not be negative, got %g", z.HalfWidth)
		}
	default:
		return fmt.Errorf("unknown shape kind %d", z.Kind)
	}
	if z.Kicks && z.KickStrength <= 0 {
		return fmt.Errorf("kicking zone needs positive kick strength")
	}
	return nil
}

// Rect is an axis-aligned region used for boundaries (drain, lane)
type Rect struct {
	Min, Max vmath.Vec2
}

// Contains reports whether p lies inside the rectangle, edges inclusive
// A zero Rect contains nothing
func (r Rect) Contains(p vmath.Vec2) bool {
	if r.Min == r.Max {
		return false
	}
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}
