package parameter

// Ball dynamics, per fixed tick, table units (y grows downward)
const (
	GravityX   = 0.0
	GravityY   = 0.25
	Friction   = 0.002 // Fraction of velocity lost per tick
	Damping    = 0.6   // Restitution on wall/zone reflection
	MaxSpeed   = 28.0  // Uniform speed cap
	BallRadius = 12.0
)

// Flipper geometry and actuation
// Left blade points down-right at rest, right blade mirrors it
const (
	FlipperLength       = 110.0
	FlipperHalfWidth    = 8.0
	FlipperSpeed        = 10.0 // Degrees per tick on the strike sweep
	FlipperReturnFactor = 0.6  // Return sweep speed as a fraction of FlipperSpeed
	FlipperKick         = 6.0

	LeftFlipperPivotX    = 240.0
	LeftFlipperPivotY    = 1100.0
	LeftFlipperRestAngle = 25.0
	LeftFlipperMaxAngle  = -25.0

	RightFlipperPivotX    = 560.0
	RightFlipperPivotY    = 1100.0
	RightFlipperRestAngle = 155.0
	RightFlipperMaxAngle  = 205.0
)

// Zone defaults
const (
	BumperRadius = 30.0
	BumperKick   = 5.0
	SlingKick    = 4.0
	GuideWidth   = 4.0
	SaucerRadius = 14.0
)
