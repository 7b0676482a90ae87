package main

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/vi-pinball/config"
	"github.com/lixenwraith/vi-pinball/engine"
	"github.com/lixenwraith/vi-pinball/game"
)

// Autoplay tuning for headless runs
const (
	autoLaunchEvery = 120    // ticks between launch/start presses
	autoFlipLine    = 1040.0 // falling balls below this line trigger the nearer flipper
)

// headlessReport is the first YAML document of a headless run; the flow history follows as a second
type headlessReport struct {
	Ticks     uint64             `yaml:"ticks"`
	State     string             `yaml:"state"`
	Score     int64              `yaml:"score"`
	HighScore int64              `yaml:"high_score"`
	Balls     int                `yaml:"balls_in_play"`
	Metrics   map[string]float64 `yaml:"metrics"`
}

// runHeadless drives the game on a mock clock with a simple autopilot
// Output depends only on cfg and steps; identical inputs give identical reports
func runHeadless(cfg *config.Config, flowPath string, steps int, w io.Writer) error {
	clock := engine.NewMockTimeProvider(time.Unix(0, 0))
	g, err := game.New(cfg, game.Options{TimeProvider: clock, TopologyPath: flowPath})
	if err != nil {
		return err
	}
	g.Machine.SetClock(clock.Now)
	if err := g.Start(); err != nil {
		return err
	}
	defer g.Stop()

	step := g.Scheduler.FixedStep()
	center := cfg.Table.Width / 2
	for i := 1; i <= steps; i++ {
		if i%autoLaunchEvery == 0 {
			g.Input(game.ActionLaunch)
		}
		for _, b := range g.World.ActiveBalls() {
			if b.Captured || b.Pos.Y < autoFlipLine || b.Vel.Y <= 0 {
				continue
			}
			if b.Pos.X < center {
				g.Input(game.ActionFlipLeft)
			} else {
				g.Input(game.ActionFlipRight)
			}
		}
		g.Tick(clock.Advance(step))
	}

	rep := headlessReport{
		Ticks:     g.Scheduler.TickCount(),
		State:     g.Machine.CurrentStatePath(),
		Score:     g.Flow.Score(),
		HighScore: g.Flow.HighScore(),
		Balls:     g.BallsInPlay(),
		Metrics:   g.Status.Snapshot(),
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	history, err := g.Machine.ExportHistory()
	if err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	if _, err := fmt.Fprintf(w, "---\n%s", history); err != nil {
		return err
	}
	return nil
}
