package playfield

import (
	"github.com/lixenwraith/vi-pinball/engine"
	"github.com/lixenwraith/vi-pinball/vmath"
)

// BallUpdate is emitted every tick for every active ball
type BallUpdate struct {
	ID       BallID
	Pos      vmath.Vec2
	Vel      vmath.Vec2
	Captured bool
}

// Contact is a switch closure: one per tick per overlapping identified zone
type Contact struct {
	ContactID string
	Ball      BallID
	Pos       vmath.Vec2
	Vel       vmath.Vec2
}

// Capture reports a ball snapped into a capture zone
type Capture struct {
	Ball      BallID
	ContactID string
	Anchor    vmath.Vec2
}

// Observer receives world notifications inline during Step
// Implementations must be cheap; commands issued back into the World take effect next tick
type Observer interface {
	OnBallUpdate(u BallUpdate)
	OnDrain(id BallID)
	OnContact(c Contact)
	OnCapture(c Capture)
}

// ObserverFuncs adapts funcs to Observer, nil fields are skipped
type ObserverFuncs struct {
	BallUpdate func(BallUpdate)
	Drain      func(BallID)
	Contact    func(Contact)
	Capture    func(Capture)
}

func (o ObserverFuncs) OnBallUpdate(u BallUpdate) {
	if o.BallUpdate != nil {
		o.BallUpdate(u)
	}
}

func (o ObserverFuncs) OnDrain(id BallID) {
	if o.Drain != nil {
		o.Drain(id)
	}
}

func (o ObserverFuncs) OnContact(c Contact) {
	if o.Contact != nil {
		o.Contact(c)
	}
}

func (o ObserverFuncs) OnCapture(c Capture) {
	if o.Capture != nil {
		o.Capture(c)
	}
}

type observerEntry struct {
	obs     Observer
	removed bool
}

// observerSet is copy-on-write so unsubscribing during dispatch is safe
type observerSet struct {
	entries []*observerEntry
}

func (s *observerSet) add(o Observer) func() {
	e := &observerEntry{obs: o}
	next := make([]*observerEntry, len(s.entries), len(s.entries)+1)
	copy(next, s.entries)
	s.entries = append(next, e)

	return func() {
		if e.removed {
			return
		}
		e.removed = true
		kept := make([]*observerEntry, 0, len(s.entries))
		for _, x := range s.entries {
			if x != e {
				kept = append(kept, x)
			}
		}
		s.entries = kept
	}
}

func (s *observerSet) each(fn func(Observer)) {
	for _, e := range s.entries {
		if e.removed {
			continue
		}
		obs := e.obs
		engine.SafeCall("PHYS", func() { fn(obs) })
	}
}
