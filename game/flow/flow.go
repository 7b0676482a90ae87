package flow

import (
	_ "embed"
	"log"
	"sync/atomic"

	"github.com/lixenwraith/vi-pinball/engine"
	"github.com/lixenwraith/vi-pinball/engine/fsm"
	"github.com/lixenwraith/vi-pinball/playfield"
	"github.com/lixenwraith/vi-pinball/status"
)

//go:embed flow.yaml
var topology []byte

// Topology returns the embedded state forest document
func Topology() []byte {
	return topology
}

// State paths used by transitions
const (
	PathAttract = "attract"
	PathPlay    = "play"
	PathLaunch  = "play.launch"
	PathLive    = "play.live"
	PathOver    = "over"
)

// Event names delivered through Machine.SendEvent
const (
	EventStart   = "start"   // no data
	EventLaunch  = "launch"  // no data
	EventDrain   = "drain"   // playfield.BallID
	EventContact = "contact" // playfield.Contact
	EventCapture = "capture" // playfield.Capture
)

// Table is the playfield surface flow states drive
type Table interface {
	ServeBall()
	LaunchBall() bool
	EjectCaptured(id playfield.BallID)
	BallsInPlay() int
	ClearBalls()
	After(ticks uint64, fn func()) engine.TimerID
	Cancel(id engine.TimerID) bool
}

// Rules are the game-flow tunables
type Rules struct {
	BallsPerGame    int
	SaucerHoldTicks uint64
	GameOverTicks   uint64
}

// Flow owns game progress and the behaviors registered into the machine
type Flow struct {
	table   Table
	machine *fsm.Machine
	rules   Rules

	score     int64
	highScore int64
	ball      int

	statScore *atomic.Int64
	statBall  *atomic.Int64
	statGames *atomic.Int64
}

// New creates the flow; the machine is driven but not loaded, see Registry
func New(table Table, machine *fsm.Machine, rules Rules, reg *status.Registry) *Flow {
	if rules.BallsPerGame < 1 {
		rules.BallsPerGame = 1
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Flow{
		table:     table,
		machine:   machine,
		rules:     rules,
		statScore: reg.Ints.Get("game.score"),
		statBall:  reg.Ints.Get("game.ball"),
		statGames: reg.Ints.Get("game.games"),
	}
}

// Registry maps the topology's behavior names to this flow's states
func (f *Flow) Registry() fsm.Registry {
	return fsm.Registry{
		"attract": &attract{f: f},
		"play":    &play{f: f},
		"launch":  &launch{f: f},
		"live":    &live{f: f},
		"over":    &over{f: f},
	}
}

func (f *Flow) Score() int64      { return f.score }
func (f *Flow) HighScore() int64  { return f.highScore }
func (f *Flow) Ball() int         { return f.ball }
func (f *Flow) BallsPerGame() int { return f.rules.BallsPerGame }

func (f *Flow) addScore(points int64) {
	f.score += points
	f.statScore.Store(f.score)
}

// transition logs instead of failing; flow hooks have no caller to return to
func (f *Flow) transition(path string) {
	if err := f.machine.Transition(path, nil); err != nil {
		log.Printf("[FLOW] transition to '%s' failed: %v", path, err)
	}
}

// attract idles with an empty table until a start or launch press
type attract struct {
	fsm.Hooks
	f *Flow
}

func (s *attract) OnEnter(fsm.Params) {
	s.f.table.ClearBalls()
}

func (s *attract) OnEvent(name string, _ any) bool {
	if name == EventStart || name == EventLaunch {
		s.f.transition(PathLaunch)
		return true
	}
	return false
}

// play is the game root: scoring, saucer holds and ball accounting
type play struct {
	fsm.Hooks
	f      *Flow
	ejects map[playfield.BallID]engine.TimerID
}

func (s *play) OnEnter(fsm.Params) {
	f := s.f
	f.score = 0
	f.ball = 1
	f.statScore.Store(0)
	f.statBall.Store(1)
	f.statGames.Add(1)
	s.ejects = make(map[playfield.BallID]engine.TimerID)
	log.Printf("[FLOW] new game, %d balls", f.rules.BallsPerGame)
}

func (s *play) OnExit() {
	for _, id := range s.ejects {
		s.f.table.Cancel(id)
	}
	s.ejects = nil
	if s.f.score > s.f.highScore {
		s.f.highScore = s.f.score
	}
}

func (s *play) OnEvent(name string, data any) bool {
	f := s.f
	switch name {
	case EventContact:
		c, ok := data.(playfield.Contact)
		if !ok {
			return false
		}
		f.addScore(ScoreFor(c.ContactID))
		return true

	case EventCapture:
		c, ok := data.(playfield.Capture)
		if !ok {
			return false
		}
		id := c.Ball
		if old, pending := s.ejects[id]; pending {
			f.table.Cancel(old)
		}
		s.ejects[id] = f.table.After(f.rules.SaucerHoldTicks, func() {
			delete(s.ejects, id)
			f.table.EjectCaptured(id)
		})
		return true

	case EventDrain:
		if id, ok := data.(playfield.BallID); ok {
			if t, pending := s.ejects[id]; pending {
				f.table.Cancel(t)
				delete(s.ejects, id)
			}
		}
		if f.table.BallsInPlay() > 0 {
			return true
		}
		if f.ball >= f.rules.BallsPerGame {
			f.transition(PathOver)
			return true
		}
		f.ball++
		f.statBall.Store(int64(f.ball))
		f.transition(PathLaunch)
		return true
	}
	return false
}

// launch serves a ball into the plunger lane and waits for the plunger
type launch struct {
	fsm.Hooks
	f *Flow
}

func (s *launch) OnEnter(fsm.Params) {
	s.f.table.ServeBall()
}

func (s *launch) OnEvent(name string, _ any) bool {
	if name != EventLaunch {
		return false
	}
	if s.f.table.LaunchBall() {
		s.f.transition(PathLive)
	}
	return true
}

// live is free play; a ball that falls back into the lane can be relaunched
type live struct {
	fsm.Hooks
	f *Flow
}

func (s *live) OnEvent(name string, _ any) bool {
	if name != EventLaunch {
		return false
	}
	s.f.table.LaunchBall()
	return true
}

// over dwells on the final score then returns to attract
type over struct {
	fsm.Hooks
	f     *Flow
	timer engine.TimerID
	armed bool
}

func (s *over) OnEnter(fsm.Params) {
	s.f.table.ClearBalls()
	log.Printf("[FLOW] game over, score %d", s.f.score)
	s.timer = s.f.table.After(s.f.rules.GameOverTicks, func() {
		s.armed = false
		s.f.transition(PathAttract)
	})
	s.armed = true
}

func (s *over) OnExit() {
	if s.armed {
		s.f.table.Cancel(s.timer)
		s.armed = false
	}
}

func (s *over) OnEvent(name string, _ any) bool {
	if name == EventStart || name == EventLaunch {
		s.f.transition(PathLaunch)
		return true
	}
	return false
}
