package vmath

import (
	"math"
	"testing"
)

func TestReflect(t *testing.T) {
	tests := []struct {
		name   string
		vel    Vec2
		normal Vec2
		want   Vec2
	}{
		{"floor", V2(3, 4), V2(0, -1), V2(3, -4)},
		{"wall", V2(-5, 1), V2(1, 0), V2(5, 1)},
		{"parallel", V2(2, 0), V2(0, 1), V2(2, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reflect(tt.vel, tt.normal)
			if got != tt.want {
				t.Errorf("Reflect(%v, %v) = %v, want %v", tt.vel, tt.normal, got, tt.want)
			}
		})
	}
}

func TestNormalize2DFallback(t *testing.T) {
	fallback := V2(0, -1)

	if got := Normalize2D(Vec2{}, fallback); got != fallback {
		t.Errorf("zero vector should use fallback, got %v", got)
	}
	if got := Normalize2D(V2(math.NaN(), 1), fallback); got != fallback {
		t.Errorf("NaN vector should use fallback, got %v", got)
	}

	got := Normalize2D(V2(3, 4), fallback)
	if math.Abs(got.X-0.6) > 1e-12 || math.Abs(got.Y-0.8) > 1e-12 {
		t.Errorf("Normalize2D(3,4) = %v, want (0.6, 0.8)", got)
	}
}

func TestClampMagnitudeIsUniform(t *testing.T) {
	v := ClampMagnitude(V2(30, 40), 10)
	if math.Abs(Magnitude(v)-10) > 1e-9 {
		t.Fatalf("clamped magnitude = %f, want 10", Magnitude(v))
	}
	// Direction preserved: ratio X/Y unchanged
	if math.Abs(v.X/v.Y-0.75) > 1e-12 {
		t.Errorf("direction changed: %v", v)
	}

	short := V2(1, 1)
	if got := ClampMagnitude(short, 10); got != short {
		t.Errorf("short vector modified: %v", got)
	}
}

func TestClosestPointOnSegment(t *testing.T) {
	a, b := V2(0, 0), V2(10, 0)

	tests := []struct {
		name string
		p    Vec2
		want Vec2
	}{
		{"middle", V2(5, 3), V2(5, 0)},
		{"before start", V2(-4, 2), V2(0, 0)},
		{"past end", V2(14, -2), V2(10, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClosestPointOnSegment(tt.p, a, b); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	// Degenerate segment collapses to start point
	if got := ClosestPointOnSegment(V2(3, 3), V2(1, 1), V2(1, 1)); got != V2(1, 1) {
		t.Errorf("zero-length segment: got %v, want (1,1)", got)
	}
}

func TestClosestPointOnRect(t *testing.T) {
	min, max := V2(0, 0), V2(10, 5)
	if got := ClosestPointOnRect(V2(20, 2), min, max); got != V2(10, 2) {
		t.Errorf("outside right: got %v", got)
	}
	inside := V2(3, 3)
	if got := ClosestPointOnRect(inside, min, max); got != inside {
		t.Errorf("inside point should map to itself, got %v", got)
	}
}
