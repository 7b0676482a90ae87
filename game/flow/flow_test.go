package flow

import (
	"io"
	"log"
	"os"
	"testing"

	"github.com/lixenwraith/vi-pinball/engine"
	"github.com/lixenwraith/vi-pinball/engine/fsm"
	"github.com/lixenwraith/vi-pinball/playfield"
	"github.com/lixenwraith/vi-pinball/status"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// fakeTable counts balls and records ejects on a real timeline
type fakeTable struct {
	timeline *engine.Timeline
	next     playfield.BallID
	inPlay   map[playfield.BallID]bool
	inLane   bool
	served   int
	launched int
	ejected  []playfield.BallID
}

func newFakeTable() *fakeTable {
	return &fakeTable{timeline: engine.NewTimeline(), inPlay: make(map[playfield.BallID]bool)}
}

func (t *fakeTable) ServeBall() {
	t.next++
	t.inPlay[t.next] = true
	t.inLane = true
	t.served++
}

func (t *fakeTable) LaunchBall() bool {
	if !t.inLane {
		return false
	}
	t.inLane = false
	t.launched++
	return true
}

func (t *fakeTable) EjectCaptured(id playfield.BallID) { t.ejected = append(t.ejected, id) }
func (t *fakeTable) BallsInPlay() int                  { return len(t.inPlay) }
func (t *fakeTable) ClearBalls()                       { clear(t.inPlay); t.inLane = false }

func (t *fakeTable) After(ticks uint64, fn func()) engine.TimerID {
	return t.timeline.After(ticks, fn)
}

func (t *fakeTable) Cancel(id engine.TimerID) bool { return t.timeline.Cancel(id) }

// drain mimics the world: the ball goes inactive before the signal
func (t *fakeTable) drain(m *fsm.Machine, id playfield.BallID) bool {
	delete(t.inPlay, id)
	return m.SendEvent(EventDrain, id)
}

func (t *fakeTable) advance(n int) {
	for i := 0; i < n; i++ {
		t.timeline.Advance()
	}
}

func newTestFlow(t *testing.T, rules Rules) (*Flow, *fsm.Machine, *fakeTable, *status.Registry) {
	t.Helper()
	table := newFakeTable()
	m := fsm.NewMachine()
	reg := status.NewRegistry()
	f := New(table, m, rules, reg)
	if err := m.LoadTopology(Topology(), f.Registry()); err != nil {
		t.Fatalf("LoadTopology: %v", err)
	}
	if err := m.Start("", nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return f, m, table, reg
}

func assertState(t *testing.T, m *fsm.Machine, want string) {
	t.Helper()
	if got := m.CurrentStatePath(); got != want {
		t.Fatalf("state = %q, want %q", got, want)
	}
}

func TestTopologyLoads(t *testing.T) {
	m := fsm.NewMachine()
	f := New(newFakeTable(), m, Rules{BallsPerGame: 3}, nil)
	if err := m.LoadTopology(Topology(), f.Registry()); err != nil {
		t.Fatalf("LoadTopology: %v", err)
	}
	for _, path := range []string{PathAttract, PathPlay, PathLaunch, PathLive, PathOver} {
		if _, ok := m.Lookup(path); !ok {
			t.Errorf("topology missing %s", path)
		}
	}
}

// TestFullGame plays three balls through to game over and back to attract
func TestFullGame(t *testing.T) {
	f, m, table, reg := newTestFlow(t, Rules{BallsPerGame: 3, SaucerHoldTicks: 10, GameOverTicks: 30})
	assertState(t, m, PathAttract)

	if !m.SendEvent(EventLaunch, nil) {
		t.Fatal("attract ignored launch")
	}
	assertState(t, m, PathLaunch)
	if table.served != 1 || f.Ball() != 1 {
		t.Fatalf("served = %d ball = %d, want 1/1", table.served, f.Ball())
	}

	for ball := 1; ball <= 3; ball++ {
		if f.Ball() != ball {
			t.Fatalf("ball = %d, want %d", f.Ball(), ball)
		}
		m.SendEvent(EventLaunch, nil)
		assertState(t, m, PathLive)

		m.SendEvent(EventContact, playfield.Contact{ContactID: "bumper.1", Ball: table.next})
		table.drain(m, table.next)
		if ball < 3 {
			assertState(t, m, PathLaunch)
		}
	}
	assertState(t, m, PathOver)
	if f.Score() != 300 {
		t.Errorf("score = %d, want 300", f.Score())
	}
	if f.HighScore() != 300 {
		t.Errorf("high score = %d, want 300", f.HighScore())
	}
	if got := reg.Ints.Get("game.score").Load(); got != 300 {
		t.Errorf("game.score metric = %d, want 300", got)
	}

	table.advance(29)
	assertState(t, m, PathOver)
	table.advance(1)
	assertState(t, m, PathAttract)
	if table.timeline.Len() != 0 {
		t.Errorf("timeline has %d leftover entries", table.timeline.Len())
	}
}

// TestDrainWithBallStillInPlay keeps the game going while another ball is active
func TestDrainWithBallStillInPlay(t *testing.T) {
	f, m, table, _ := newTestFlow(t, Rules{BallsPerGame: 1})
	m.SendEvent(EventStart, nil)
	m.SendEvent(EventLaunch, nil)

	table.inPlay[99] = true
	table.drain(m, table.next)
	assertState(t, m, PathLive)
	if f.Ball() != 1 {
		t.Errorf("ball = %d, want 1", f.Ball())
	}

	table.drain(m, 99)
	assertState(t, m, PathOver)
}

func TestSaucerEjectAfterHold(t *testing.T) {
	_, m, table, _ := newTestFlow(t, Rules{BallsPerGame: 3, SaucerHoldTicks: 5})
	m.SendEvent(EventStart, nil)
	m.SendEvent(EventLaunch, nil)

	id := table.next
	m.SendEvent(EventCapture, playfield.Capture{Ball: id, ContactID: "saucer"})
	table.advance(4)
	if len(table.ejected) != 0 {
		t.Fatalf("ejected early at tick 4")
	}
	table.advance(1)
	if len(table.ejected) != 1 || table.ejected[0] != id {
		t.Fatalf("ejected = %v, want [%d]", table.ejected, id)
	}
}

// TestSaucerTimerCancelledOnGameEnd verifies a pending eject never fires into the next state
func TestSaucerTimerCancelledOnGameEnd(t *testing.T) {
	_, m, table, _ := newTestFlow(t, Rules{BallsPerGame: 1, SaucerHoldTicks: 50, GameOverTicks: 100})
	m.SendEvent(EventStart, nil)
	m.SendEvent(EventLaunch, nil)

	id := table.next
	m.SendEvent(EventCapture, playfield.Capture{Ball: id, ContactID: "saucer"})
	table.drain(m, id)
	assertState(t, m, PathOver)

	table.advance(60)
	if len(table.ejected) != 0 {
		t.Errorf("eject fired after drain: %v", table.ejected)
	}
}

// TestRestartFromOver cancels the dwell timer and starts a fresh game
func TestRestartFromOver(t *testing.T) {
	f, m, table, reg := newTestFlow(t, Rules{BallsPerGame: 1, GameOverTicks: 10})
	m.SendEvent(EventStart, nil)
	m.SendEvent(EventLaunch, nil)
	m.SendEvent(EventContact, playfield.Contact{ContactID: "target.left"})
	table.drain(m, table.next)
	assertState(t, m, PathOver)

	if !m.SendEvent(EventStart, nil) {
		t.Fatal("over ignored start")
	}
	assertState(t, m, PathLaunch)
	if f.Score() != 0 || f.Ball() != 1 {
		t.Errorf("score/ball = %d/%d, want 0/1", f.Score(), f.Ball())
	}
	if f.HighScore() != 500 {
		t.Errorf("high score = %d, want 500", f.HighScore())
	}
	if got := reg.Ints.Get("game.games").Load(); got != 2 {
		t.Errorf("games = %d, want 2", got)
	}

	table.advance(20)
	assertState(t, m, PathLaunch)
}

func TestLaunchWithoutBallInLane(t *testing.T) {
	_, m, table, _ := newTestFlow(t, Rules{BallsPerGame: 3})
	m.SendEvent(EventStart, nil)
	table.inLane = false

	if !m.SendEvent(EventLaunch, nil) {
		t.Error("launch event not consumed")
	}
	assertState(t, m, PathLaunch)
}

func TestUnknownEventsIgnored(t *testing.T) {
	_, m, _, _ := newTestFlow(t, Rules{BallsPerGame: 3})
	if m.SendEvent("tilt", nil) {
		t.Error("attract consumed unknown event")
	}
	m.SendEvent(EventStart, nil)
	if m.SendEvent(EventContact, "not a contact") {
		t.Error("malformed contact consumed")
	}
}

func TestScoreFor(t *testing.T) {
	tests := []struct {
		id   string
		want int64
	}{
		{"bumper.1", 100},
		{"bumper", 100},
		{"sling.left", 10},
		{"target.right", 500},
		{"saucer", 1000},
		{"lane", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ScoreFor(tt.id); got != tt.want {
			t.Errorf("ScoreFor(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}
}
