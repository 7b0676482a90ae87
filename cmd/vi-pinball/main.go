package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-pinball/audio"
	"github.com/lixenwraith/vi-pinball/config"
	"github.com/lixenwraith/vi-pinball/game"
	"github.com/lixenwraith/vi-pinball/parameter"
	"github.com/lixenwraith/vi-pinball/render"
)

var (
	configFlag   = flag.String("config", "", "Table config YAML (default: ./config/table.yaml, then embedded)")
	flowFlag     = flag.String("flow", "", "Game flow topology YAML (default: ./config/flow.yaml, then embedded)")
	debugFlag    = flag.Bool("debug", false, "Write logs to "+logDir+"/"+logFileName)
	fpsFlag      = flag.Int("fps", 0, "Frame rate override, 0 uses the config value")
	muteFlag     = flag.Bool("mute", false, "Start with audio disabled")
	headlessFlag = flag.Int("headless", 0, "Run N fixed steps of attract-mode autoplay without a terminal and print a YAML report")
)

func main() {
	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.LoadAuto(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *fpsFlag > 0 {
		cfg.Engine.FPS = *fpsFlag
	}

	if *headlessFlag > 0 {
		if err := runHeadless(cfg, *flowFlag, *headlessFlag, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Headless run failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	// Normal exit terminal cleanup
	defer screen.Fini()

	// Panic recovery: terminal is reset even if the simulation crashes
	defer func() {
		if r := recover(); r != nil {
			handleCrash(screen, r)
		}
	}()

	screen.HideCursor()
	screen.SetStyle(tcell.StyleDefault.Background(render.RgbBackground))
	screen.Clear()

	sound := audio.NewSoundManager()
	if *muteFlag || !cfg.Audio.Enabled {
		sound.SetEnabled(false)
	} else if err := sound.Initialize(); err != nil {
		log.Printf("[AUDIO] initialization failed, continuing without audio: %v", err)
		sound.SetEnabled(false)
	}
	defer sound.Cleanup()

	renderer := render.NewTerminalRenderer(screen, cfg.Table.Width, cfg.Table.Height)

	g, err := game.New(cfg, game.Options{
		Sound:        sound,
		Renderer:     renderer,
		TopologyPath: *flowFlag,
	})
	if err != nil {
		return err
	}
	if err := g.Start(); err != nil {
		return err
	}
	defer g.Stop()

	events := make(chan tcell.Event, parameter.EventChannelSize)
	done := make(chan struct{})
	defer close(done)
	// Input polling uses a raw goroutine as it talks to the terminal directly
	goSafe(screen, func() { pollEvents(screen, events, done) })

	frameTicker := time.NewTicker(time.Second / time.Duration(cfg.Engine.FPS))
	defer frameTicker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				renderer.Resize(screen.Size())
			case *tcell.EventKey:
				action, quit := keyAction(ev.Key(), ev.Rune())
				if quit {
					return nil
				}
				g.Input(action)
			}

		case now := <-frameTicker.C:
			g.Tick(now)
		}
	}
}

// pollEvents forwards terminal events until the screen is finalized or done is closed
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		// nil after Fini
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}
