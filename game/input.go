package game

import (
	"log"

	"github.com/lixenwraith/vi-pinball/game/flow"
	"github.com/lixenwraith/vi-pinball/playfield"
)

// Action is a player command already translated from a key press
type Action int

const (
	ActionNone Action = iota
	ActionFlipLeft
	ActionFlipRight
	ActionLaunch
	ActionStart
	ActionPause
	ActionToggleAudio
)

func (a Action) String() string {
	switch a {
	case ActionFlipLeft:
		return "flip-left"
	case ActionFlipRight:
		return "flip-right"
	case ActionLaunch:
		return "launch"
	case ActionStart:
		return "start"
	case ActionPause:
		return "pause"
	case ActionToggleAudio:
		return "toggle-audio"
	}
	return "none"
}

// Input applies one action; gameplay actions are dropped while paused
func (g *Game) Input(a Action) {
	switch a {
	case ActionPause:
		if g.Scheduler.IsPaused() {
			g.Scheduler.Resume()
		} else {
			g.Scheduler.Pause()
		}
		return
	case ActionToggleAudio:
		enabled := g.sound.Toggle()
		log.Printf("[GAME] audio enabled: %v", enabled)
		return
	}

	if g.Scheduler.IsPaused() {
		return
	}

	switch a {
	case ActionFlipLeft:
		g.flip(playfield.SideLeft)
	case ActionFlipRight:
		g.flip(playfield.SideRight)
	case ActionLaunch:
		g.Machine.SendEvent(flow.EventLaunch, nil)
	case ActionStart:
		g.Machine.SendEvent(flow.EventStart, nil)
	}
}

// flip presses a flipper and re-arms its hold; terminals report presses but no releases
func (g *Game) flip(side playfield.Side) {
	f := g.World.Flipper(side)
	if f == nil {
		return
	}
	if !f.Pressed() {
		g.sound.PlayFlipper()
	}
	g.World.PressFlipper(side)

	g.Timeline.Cancel(g.holds[side])
	g.holds[side] = g.Timeline.After(uint64(g.cfg.Game.FlipperHoldTicks), func() {
		g.World.ReleaseFlipper(side)
	})
}
