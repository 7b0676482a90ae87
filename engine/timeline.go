package engine

import (
	"container/heap"
)

// TimerID identifies a scheduled timeline action, zero is never issued
type TimerID uint64

type timelineEntry struct {
	id    TimerID
	tick  uint64
	seq   uint64
	fn    func()
	index int
}

// timelineHeap orders entries by (tick, seq) so same-tick actions run in scheduling order
type timelineHeap []*timelineEntry

func (h timelineHeap) Len() int { return len(h) }
func (h timelineHeap) Less(i, j int) bool {
	if h[i].tick != h[j].tick {
		return h[i].tick < h[j].tick
	}
	return h[i].seq < h[j].seq
}
func (h timelineHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timelineHeap) Push(x any) {
	e := x.(*timelineEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timelineHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Timeline runs deferred actions keyed on logic ticks instead of wall time
// Replaying the same tick sequence fires the same actions in the same order
// Not thread-safe; owned by the simulation goroutine
type Timeline struct {
	now     uint64
	nextSeq uint64
	nextID  TimerID
	queue   timelineHeap
	byID    map[TimerID]*timelineEntry
}

// NewTimeline creates an empty timeline at tick 0
func NewTimeline() *Timeline {
	return &Timeline{
		byID: make(map[TimerID]*timelineEntry),
	}
}

// After schedules fn to run once delay ticks from now, delay 0 fires on the next Advance
func (t *Timeline) After(delay uint64, fn func()) TimerID {
	return t.At(t.now+delay, fn)
}

// At schedules fn for an absolute tick, ticks already passed fire on the next Advance
func (t *Timeline) At(tick uint64, fn func()) TimerID {
	t.nextID++
	t.nextSeq++
	e := &timelineEntry{
		id:   t.nextID,
		tick: tick,
		seq:  t.nextSeq,
		fn:   fn,
	}
	heap.Push(&t.queue, e)
	t.byID[e.id] = e
	return e.id
}

// Cancel removes a pending action, returns false when it already ran or never existed
func (t *Timeline) Cancel(id TimerID) bool {
	e, ok := t.byID[id]
	if !ok {
		return false
	}
	delete(t.byID, id)
	heap.Remove(&t.queue, e.index)
	return true
}

// Advance moves the timeline one tick forward and fires everything due
// Actions scheduled by a firing action for the current tick also run in this call
// Returns the number of actions fired
func (t *Timeline) Advance() int {
	t.now++
	fired := 0
	for t.queue.Len() > 0 && t.queue[0].tick <= t.now {
		e := heap.Pop(&t.queue).(*timelineEntry)
		delete(t.byID, e.id)
		SafeCall("TIMELINE", e.fn)
		fired++
	}
	return fired
}

// Now returns the current tick
func (t *Timeline) Now() uint64 {
	return t.now
}

// Len returns the number of pending actions
func (t *Timeline) Len() int {
	return t.queue.Len()
}
