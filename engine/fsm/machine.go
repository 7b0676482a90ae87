package fsm

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lixenwraith/vi-pinball/engine"
)

// Machine is an OR-state hierarchical state machine over an arena of nodes
// A forest of roots, exactly one current root; each node has at most one active child
//
// Transitions requested while one is in flight are queued and replayed FIFO
// Not thread-safe; driven from the simulation goroutine
type Machine struct {
	nodes       []*node
	roots       map[string]StateID
	rootOrder   []StateID
	defaultRoot StateID
	current     StateID

	busy  bool
	queue []request

	history historyRing
	now     func() time.Time
}

// NewMachine creates an empty machine
func NewMachine() *Machine {
	return &Machine{
		roots:       make(map[string]StateID),
		defaultRoot: StateNone,
		current:     StateNone,
		now:         time.Now,
	}
}

// SetClock replaces the history timestamp source
func (m *Machine) SetClock(now func() time.Time) {
	if now != nil {
		m.now = now
	}
}

// Start enters a root; empty name selects the default root
// A previously active hierarchy is unwound first
func (m *Machine) Start(name string, params Params) error {
	if name == "" {
		if m.defaultRoot == StateNone {
			return fmt.Errorf("%w: no root registered", ErrUnknownState)
		}
		name = m.nodes[m.defaultRoot].name
	}
	if _, ok := m.roots[name]; !ok {
		log.Printf("[FSM] start: unknown root '%s'", name)
		return fmt.Errorf("%w: root '%s'", ErrUnknownState, name)
	}

	return m.submit(request{path: name, params: params, restart: true})
}

// Transition moves the machine to a dotted path; the first segment selects the root
//
// Root change: the active chain of the current root is exited leaf to root inclusive,
// then the new root is entered and the remaining segments descended
// Same root: only the descent runs; an already active child on the path is kept,
// any other active child's subtree is exited leaf-first before the requested one enters
// The machine rests exactly at the deepest resolved node, deeper active states are exited
//
// Called while busy the request is queued and nil returned; failures of replayed
// requests are logged
func (m *Machine) Transition(path string, params Params) error {
	return m.submit(request{path: path, params: params})
}

// submit runs req now, or queues it when a transition or dispatch is in flight
func (m *Machine) submit(req request) error {
	if m.busy {
		m.queue = append(m.queue, req)
		return nil
	}

	m.busy = true
	err := m.run(req)
	m.drain()
	m.busy = false
	return err
}

func (m *Machine) run(req request) error {
	if req.restart && m.current != StateNone {
		m.unwind(m.current)
		m.current = StateNone
	}
	return m.apply(req.path, req.params)
}

// drain replays queued requests until empty, including requests queued by replays
func (m *Machine) drain() {
	for len(m.queue) > 0 {
		req := m.queue[0]
		m.queue[0] = request{}
		m.queue = m.queue[1:]
		if err := m.run(req); err != nil {
			log.Printf("[FSM] queued transition '%s' failed: %v", req.path, err)
		}
	}
	m.queue = nil
}

// dispatch walks hooks with the machine marked busy, so transitions they request
// are queued and applied once the walk is over
func (m *Machine) dispatch(walk func()) {
	if m.busy {
		walk()
		return
	}
	m.busy = true
	walk()
	m.drain()
	m.busy = false
}

func (m *Machine) apply(path string, params Params) error {
	segs := strings.Split(path, ".")
	rootID, ok := m.roots[segs[0]]
	if !ok {
		log.Printf("[FSM] transition '%s': unknown root '%s'", path, segs[0])
		return fmt.Errorf("%w: root '%s'", ErrUnknownState, segs[0])
	}

	if m.current != rootID {
		if m.current != StateNone {
			m.unwind(m.current)
		}
		m.current = rootID
		m.enter(rootID, params)
	}

	at := rootID
	for _, seg := range segs[1:] {
		p := m.nodes[at]
		child, ok := p.children[seg]
		if !ok {
			log.Printf("[FSM] transition '%s': unknown state '%s', resting at '%s'", path, seg, m.pathOf(at))
			break
		}
		if p.active != child {
			if p.active != StateNone {
				m.unwind(p.active)
			}
			p.active = child
			m.enter(child, params)
		}
		at = child
	}

	if below := m.nodes[at].active; below != StateNone {
		m.unwind(below)
	}

	m.history.push(HistoryEntry{Path: m.CurrentStatePath(), At: m.now()})
	return nil
}

// unwind exits the active subtree rooted at top, deepest first, walking parent links
// Clears the active link on top's parent as well
func (m *Machine) unwind(top StateID) {
	leaf := top
	for m.nodes[leaf].active != StateNone {
		leaf = m.nodes[leaf].active
	}

	for id := leaf; ; id = m.nodes[id].parent {
		n := m.nodes[id]
		n.active = StateNone
		engine.SafeCall("FSM", n.behavior.OnExit)
		if id == top {
			break
		}
	}

	if parent := m.nodes[top].parent; parent != StateNone && m.nodes[parent].active == top {
		m.nodes[parent].active = StateNone
	}
}

func (m *Machine) enter(id StateID, params Params) {
	n := m.nodes[id]
	engine.SafeCall("FSM", func() { n.behavior.OnEnter(params) })
}

// SendEvent offers an event to the deepest active state, bubbling through parents
// until a hook consumes it; a panicking hook counts as unhandled
// Transitions requested by the hooks take effect after the bubble completes
func (m *Machine) SendEvent(name string, data any) bool {
	if m.current == StateNone {
		return false
	}

	handled := false
	m.dispatch(func() {
		for id := m.leaf(); id != StateNone; id = m.nodes[id].parent {
			n := m.nodes[id]
			engine.SafeCall("FSM", func() { handled = n.behavior.OnEvent(name, data) })
			if handled {
				return
			}
		}
	})
	return handled
}

// Update runs OnUpdate top-down from the current root to the active leaf
// The chain is fixed for the pass; requested transitions apply afterwards
func (m *Machine) Update(dt time.Duration) {
	m.dispatch(func() {
		for id := m.current; id != StateNone; id = m.nodes[id].active {
			n := m.nodes[id]
			engine.SafeCall("FSM", func() { n.behavior.OnUpdate(dt) })
		}
	})
}

func (m *Machine) leaf() StateID {
	id := m.current
	for id != StateNone && m.nodes[id].active != StateNone {
		id = m.nodes[id].active
	}
	return id
}

// CurrentStatePath returns the dotted active path, empty before Start
func (m *Machine) CurrentStatePath() string {
	if m.current == StateNone {
		return ""
	}
	return m.pathOf(m.leaf())
}

// IsInState reports whether path is a whole-segment prefix of the current path
func (m *Machine) IsInState(path string) bool {
	cur := m.CurrentStatePath()
	if path == "" || cur == "" {
		return false
	}
	return cur == path || strings.HasPrefix(cur, path+".")
}

// Busy reports whether a transition or hook dispatch is in flight
func (m *Machine) Busy() bool {
	return m.busy
}

// History returns the recorded resting paths, oldest first
func (m *Machine) History() []HistoryEntry {
	return m.history.entries()
}
