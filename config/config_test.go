package config

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/lixenwraith/vi-pinball/physics"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

// TestEmbeddedMatchesDefault keeps the shipped YAML in sync with the parameter constants
func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := Parse(Embedded())
	if err != nil {
		t.Fatalf("Parse(embedded): %v", err)
	}
	want := Default()

	if !reflect.DeepEqual(cfg.Engine, want.Engine) {
		t.Errorf("engine = %+v, want %+v", cfg.Engine, want.Engine)
	}
	if !reflect.DeepEqual(cfg.Physics, want.Physics) {
		t.Errorf("physics = %+v, want %+v", cfg.Physics, want.Physics)
	}
	if !reflect.DeepEqual(cfg.Flippers, want.Flippers) {
		t.Errorf("flippers = %+v, want %+v", cfg.Flippers, want.Flippers)
	}
	if !reflect.DeepEqual(cfg.Game, want.Game) {
		t.Errorf("game = %+v, want %+v", cfg.Game, want.Game)
	}
	if len(cfg.Table.Zones) != len(want.Table.Zones) {
		t.Fatalf("zones = %d, want %d", len(cfg.Table.Zones), len(want.Table.Zones))
	}
	for i := range want.Table.Zones {
		if !reflect.DeepEqual(cfg.Table.Zones[i], want.Table.Zones[i]) {
			t.Errorf("zone %d = %+v, want %+v", i, cfg.Table.Zones[i], want.Table.Zones[i])
		}
	}
}

func TestParseInheritsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("physics:\n  friction: 0.01\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Physics.Friction != 0.01 {
		t.Errorf("friction = %f, want 0.01", cfg.Physics.Friction)
	}
	if cfg.Physics.BallRadius != Default().Physics.BallRadius {
		t.Errorf("ball radius = %f, want default", cfg.Physics.BallRadius)
	}
	if cfg.Engine.TickRate != 60 {
		t.Errorf("tick rate = %d, want 60", cfg.Engine.TickRate)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"tick rate", "engine:\n  tick_rate: 0\n"},
		{"accumulator", "engine:\n  max_accumulator_steps: 0\n"},
		{"friction", "physics:\n  friction: 1.0\n"},
		{"radius", "physics:\n  ball_radius: -1\n"},
		{"shape", "table:\n  zones:\n    - { shape: hexagon }\n"},
		{"zone geometry", "table:\n  zones:\n    - { shape: circle, radius: 0 }\n"},
		{"flipper", "flippers:\n  left:\n    speed: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestDuplicateContactIDsAllowed(t *testing.T) {
	doc := `
table:
  zones:
    - { shape: rect, min: { x: 100, y: 100 }, max: { x: 110, y: 140 }, contact: bank }
    - { shape: rect, min: { x: 120, y: 100 }, max: { x: 130, y: 140 }, contact: bank }
`
	if _, err := Parse([]byte(doc)); err != nil {
		t.Errorf("switch bank rejected: %v", err)
	}
}

func TestWorldConversion(t *testing.T) {
	cfg := Default()
	wc, err := cfg.World()
	if err != nil {
		t.Fatalf("World: %v", err)
	}
	if len(wc.Zones) != len(cfg.Table.Zones) {
		t.Fatalf("zones = %d, want %d", len(wc.Zones), len(cfg.Table.Zones))
	}

	saucer := wc.Zones[3]
	if saucer.Kind != physics.ShapeCircle || !saucer.Captures || saucer.ContactID != "saucer" {
		t.Errorf("saucer = %+v", saucer)
	}
	bumper := wc.Zones[0]
	if !bumper.Kicks || bumper.KickStrength != 5 {
		t.Errorf("bumper kick = %v/%f, want true/5", bumper.Kicks, bumper.KickStrength)
	}
	if !wc.Bounds.Lane.Contains(cfg.Table.Launch.Vec()) {
		t.Error("launch point outside the plunger lane")
	}
}

func TestLoadAutoPriority(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(custom, []byte("game:\n  balls_per_game: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAuto(custom)
	if err != nil {
		t.Fatalf("LoadAuto(custom): %v", err)
	}
	if cfg.Game.BallsPerGame != 5 {
		t.Errorf("balls per game = %d, want 5 from custom file", cfg.Game.BallsPerGame)
	}

	if _, err := LoadAuto(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom path")
	}

	// Run from an empty directory so no ./config/table.yaml shadows the embedded table
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err = LoadAuto("")
	if err != nil {
		t.Fatalf("LoadAuto(embedded): %v", err)
	}
	if cfg.Game.BallsPerGame != Default().Game.BallsPerGame {
		t.Errorf("embedded balls per game = %d", cfg.Game.BallsPerGame)
	}
}
