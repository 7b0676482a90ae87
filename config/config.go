package config

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/vi-pinball/parameter"
	"github.com/lixenwraith/vi-pinball/physics"
	"github.com/lixenwraith/vi-pinball/playfield"
	"github.com/lixenwraith/vi-pinball/vmath"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Point is a YAML-friendly 2D coordinate
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p Point) Vec() vmath.Vec2 { return vmath.V2(p.X, p.Y) }

type RectConfig struct {
	Min Point `yaml:"min"`
	Max Point `yaml:"max"`
}

func (r RectConfig) Rect() physics.Rect {
	return physics.Rect{Min: r.Min.Vec(), Max: r.Max.Vec()}
}

type EngineConfig struct {
	TickRate            int `yaml:"tick_rate"`
	MaxAccumulatorSteps int `yaml:"max_accumulator_steps"`
	FPS                 int `yaml:"fps"`
}

type PhysicsConfig struct {
	Gravity    Point   `yaml:"gravity"`
	Friction   float64 `yaml:"friction"`
	Damping    float64 `yaml:"damping"`
	MaxSpeed   float64 `yaml:"max_speed"`
	BallRadius float64 `yaml:"ball_radius"`
}

// ZoneConfig is one static collision shape; only fields of its shape are read
type ZoneConfig struct {
	Shape     string  `yaml:"shape"`
	Center    Point   `yaml:"center,omitempty"`
	Radius    float64 `yaml:"radius,omitempty"`
	Min       Point   `yaml:"min,omitempty"`
	Max       Point   `yaml:"max,omitempty"`
	A         Point   `yaml:"a,omitempty"`
	B         Point   `yaml:"b,omitempty"`
	HalfWidth float64 `yaml:"half_width,omitempty"`
	Contact   string  `yaml:"contact,omitempty"`
	Captures  bool    `yaml:"captures,omitempty"`
	Kick      float64 `yaml:"kick,omitempty"` // > 0 marks a kicking zone
	Fallback  *Point  `yaml:"fallback_normal,omitempty"`
}

// Zone converts to the resolver's representation
func (z ZoneConfig) Zone() (physics.Zone, error) {
	kind, err := physics.ParseShapeKind(z.Shape)
	if err != nil {
		return physics.Zone{}, err
	}
	zone := physics.Zone{
		Kind:         kind,
		Center:       z.Center.Vec(),
		Radius:       z.Radius,
		Min:          z.Min.Vec(),
		Max:          z.Max.Vec(),
		A:            z.A.Vec(),
		B:            z.B.Vec(),
		HalfWidth:    z.HalfWidth,
		ContactID:    z.Contact,
		Captures:     z.Captures,
		Kicks:        z.Kick > 0,
		KickStrength: z.Kick,
	}
	if z.Fallback != nil {
		zone.FallbackNormal = z.Fallback.Vec()
	}
	return zone, nil
}

type TableConfig struct {
	Width  float64      `yaml:"width"`
	Height float64      `yaml:"height"`
	Lane   RectConfig   `yaml:"lane"`
	Drain  RectConfig   `yaml:"drain"`
	Launch Point        `yaml:"launch"`
	Zones  []ZoneConfig `yaml:"zones"`
}

type FlipperConfig struct {
	Pivot        Point   `yaml:"pivot"`
	Length       float64 `yaml:"length"`
	HalfWidth    float64 `yaml:"half_width"`
	RestAngle    float64 `yaml:"rest_angle"`
	MaxAngle     float64 `yaml:"max_angle"`
	Speed        float64 `yaml:"speed"`
	ReturnFactor float64 `yaml:"return_factor"`
	Kick         float64 `yaml:"kick"`
}

func (f FlipperConfig) playfield() playfield.FlipperConfig {
	return playfield.FlipperConfig{
		Pivot:        f.Pivot.Vec(),
		Length:       f.Length,
		HalfWidth:    f.HalfWidth,
		RestAngle:    f.RestAngle,
		MaxAngle:     f.MaxAngle,
		Speed:        f.Speed,
		ReturnFactor: f.ReturnFactor,
		Kick:         f.Kick,
	}
}

type FlippersConfig struct {
	Left  FlipperConfig `yaml:"left"`
	Right FlipperConfig `yaml:"right"`
}

type GameConfig struct {
	BallsPerGame     int     `yaml:"balls_per_game"`
	LaunchImpulse    float64 `yaml:"launch_impulse"`
	FlipperHoldTicks int     `yaml:"flipper_hold_ticks"`
	SaucerHoldTicks  int     `yaml:"saucer_hold_ticks"`
	SaucerEject      Point   `yaml:"saucer_eject"`
	GameOverTicks    int     `yaml:"game_over_ticks"`
}

type AudioConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the complete run configuration, immutable once the game is built
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Table    TableConfig    `yaml:"table"`
	Flippers FlippersConfig `yaml:"flippers"`
	Game     GameConfig     `yaml:"game"`
	Audio    AudioConfig    `yaml:"audio"`
}

// World builds the physics configuration
func (c *Config) World() (playfield.Config, error) {
	zones := make([]physics.Zone, 0, len(c.Table.Zones))
	for i, zc := range c.Table.Zones {
		z, err := zc.Zone()
		if err != nil {
			return playfield.Config{}, fmt.Errorf("zone %d: %w", i, err)
		}
		zones = append(zones, z)
	}

	return playfield.Config{
		Gravity:    c.Physics.Gravity.Vec(),
		Friction:   c.Physics.Friction,
		Damping:    c.Physics.Damping,
		MaxSpeed:   c.Physics.MaxSpeed,
		BallRadius: c.Physics.BallRadius,
		Bounds: physics.Bounds{
			Width:  c.Table.Width,
			Height: c.Table.Height,
			Lane:   c.Table.Lane.Rect(),
			Drain:  c.Table.Drain.Rect(),
		},
		Zones: zones,
		Left:  c.Flippers.Left.playfield(),
		Right: c.Flippers.Right.playfield(),
	}, nil
}

// Validate rejects values the core cannot run with
// Duplicate contact identifiers are allowed; they model switch banks
func (c *Config) Validate() error {
	if c.Engine.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate must be positive, got %d", ErrInvalidConfig, c.Engine.TickRate)
	}
	if c.Engine.MaxAccumulatorSteps < 1 {
		return fmt.Errorf("%w: max accumulator steps must be at least 1, got %d", ErrInvalidConfig, c.Engine.MaxAccumulatorSteps)
	}
	if c.Engine.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.Engine.FPS)
	}
	if c.Game.BallsPerGame < 1 {
		return fmt.Errorf("%w: balls per game must be at least 1, got %d", ErrInvalidConfig, c.Game.BallsPerGame)
	}
	if c.Game.FlipperHoldTicks < 1 || c.Game.SaucerHoldTicks < 0 || c.Game.GameOverTicks < 0 {
		return fmt.Errorf("%w: game tick durations out of range", ErrInvalidConfig)
	}

	wc, err := c.World()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := wc.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Default returns the built-in table assembled from parameter constants
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			TickRate:            parameter.TickRate,
			MaxAccumulatorSteps: parameter.MaxAccumulatorSteps,
			FPS:                 60,
		},
		Physics: PhysicsConfig{
			Gravity:    Point{X: parameter.GravityX, Y: parameter.GravityY},
			Friction:   parameter.Friction,
			Damping:    parameter.Damping,
			MaxSpeed:   parameter.MaxSpeed,
			BallRadius: parameter.BallRadius,
		},
		Table: TableConfig{
			Width:  parameter.TableWidth,
			Height: parameter.TableHeight,
			Lane: RectConfig{
				Min: Point{X: parameter.LaneMinX, Y: parameter.LaneMinY},
				Max: Point{X: parameter.LaneMaxX, Y: parameter.LaneMaxY},
			},
			Drain: RectConfig{
				Min: Point{X: parameter.DrainMinX, Y: parameter.DrainMinY},
				Max: Point{X: parameter.DrainMaxX, Y: parameter.DrainMaxY},
			},
			Launch: Point{X: parameter.LaunchX, Y: parameter.LaunchY},
			Zones:  defaultZones(),
		},
		Flippers: FlippersConfig{
			Left: FlipperConfig{
				Pivot:        Point{X: parameter.LeftFlipperPivotX, Y: parameter.LeftFlipperPivotY},
				Length:       parameter.FlipperLength,
				HalfWidth:    parameter.FlipperHalfWidth,
				RestAngle:    parameter.LeftFlipperRestAngle,
				MaxAngle:     parameter.LeftFlipperMaxAngle,
				Speed:        parameter.FlipperSpeed,
				ReturnFactor: parameter.FlipperReturnFactor,
				Kick:         parameter.FlipperKick,
			},
			Right: FlipperConfig{
				Pivot:        Point{X: parameter.RightFlipperPivotX, Y: parameter.RightFlipperPivotY},
				Length:       parameter.FlipperLength,
				HalfWidth:    parameter.FlipperHalfWidth,
				RestAngle:    parameter.RightFlipperRestAngle,
				MaxAngle:     parameter.RightFlipperMaxAngle,
				Speed:        parameter.FlipperSpeed,
				ReturnFactor: parameter.FlipperReturnFactor,
				Kick:         parameter.FlipperKick,
			},
		},
		Game: GameConfig{
			BallsPerGame:     parameter.BallsPerGame,
			LaunchImpulse:    parameter.LaunchImpulse,
			FlipperHoldTicks: parameter.FlipperHoldTicks,
			SaucerHoldTicks:  parameter.SaucerHoldTicks,
			SaucerEject:      Point{X: parameter.SaucerEjectX, Y: parameter.SaucerEjectY},
			GameOverTicks:    parameter.GameOverTicks,
		},
		Audio: AudioConfig{Enabled: true},
	}
}

func defaultZones() []ZoneConfig {
	return []ZoneConfig{
		{Shape: "circle", Center: Point{X: 250, Y: 350}, Radius: parameter.BumperRadius, Contact: "bumper.1", Kick: parameter.BumperKick},
		{Shape: "circle", Center: Point{X: 400, Y: 260}, Radius: parameter.BumperRadius, Contact: "bumper.2", Kick: parameter.BumperKick},
		{Shape: "circle", Center: Point{X: 550, Y: 350}, Radius: parameter.BumperRadius, Contact: "bumper.3", Kick: parameter.BumperKick},
		{Shape: "circle", Center: Point{X: 400, Y: 520}, Radius: parameter.SaucerRadius, Contact: "saucer", Captures: true},
		{Shape: "rect", Min: Point{X: 60, Y: 500}, Max: Point{X: 76, Y: 580}, Contact: "target.left"},
		{Shape: "rect", Min: Point{X: 664, Y: 500}, Max: Point{X: 680, Y: 580}, Contact: "target.right"},
		{Shape: "segment", A: Point{X: 130, Y: 880}, B: Point{X: 190, Y: 1000}, HalfWidth: parameter.GuideWidth, Contact: "sling.left", Kick: parameter.SlingKick},
		{Shape: "segment", A: Point{X: 610, Y: 880}, B: Point{X: 550, Y: 1000}, HalfWidth: parameter.GuideWidth, Contact: "sling.right", Kick: parameter.SlingKick},
		{Shape: "segment", A: Point{X: 0, Y: 960}, B: Point{X: 240, Y: 1100}, HalfWidth: parameter.GuideWidth},
		{Shape: "segment", A: Point{X: 750, Y: 960}, B: Point{X: 560, Y: 1100}, HalfWidth: parameter.GuideWidth},
		{Shape: "segment", A: Point{X: 750, Y: 420}, B: Point{X: 750, Y: 1200}, HalfWidth: parameter.GuideWidth},
		{Shape: "segment", A: Point{X: 650, Y: 0}, B: Point{X: 800, Y: 150}, HalfWidth: parameter.GuideWidth},
	}
}
