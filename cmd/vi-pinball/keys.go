package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-pinball/game"
)

// keyAction translates a key press; quit is true for the exit keys
// z/x are the classic flipper keys, h/l and the arrows mirror them for vi hands
func keyAction(key tcell.Key, r rune) (action game.Action, quit bool) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.ActionNone, true
	case tcell.KeyLeft:
		return game.ActionFlipLeft, false
	case tcell.KeyRight:
		return game.ActionFlipRight, false
	case tcell.KeyDown:
		return game.ActionLaunch, false
	case tcell.KeyEnter:
		return game.ActionStart, false
	case tcell.KeyRune:
	default:
		return game.ActionNone, false
	}

	switch r {
	case 'q':
		return game.ActionNone, true
	case 'z', 'h':
		return game.ActionFlipLeft, false
	case 'x', 'l':
		return game.ActionFlipRight, false
	case ' ', 'j':
		return game.ActionLaunch, false
	case 's':
		return game.ActionStart, false
	case 'p':
		return game.ActionPause, false
	case 'm':
		return game.ActionToggleAudio, false
	}
	return game.ActionNone, false
}
