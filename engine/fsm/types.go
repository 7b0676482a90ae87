package fsm

import (
	"errors"
	"time"
)

// StateID indexes a node in the machine's arena
type StateID int

// StateNone marks an absent parent or active child
const StateNone StateID = -1

// HistoryCapacity bounds the diagnostic transition ring
const HistoryCapacity = 20

var (
	ErrUnknownState   = errors.New("unknown state")
	ErrDuplicateState = errors.New("duplicate state")
)

// Params is the payload handed to OnEnter for every node entered by a request
type Params map[string]any

// Behavior is the per-state hook set held by each node
// OnEvent returns true when the event is consumed and bubbling stops
type Behavior interface {
	OnEnter(params Params)
	OnExit()
	OnUpdate(dt time.Duration)
	OnEvent(name string, data any) bool
}

// Hooks adapts plain funcs to Behavior, nil fields are no-ops
type Hooks struct {
	Enter  func(params Params)
	Exit   func()
	Update func(dt time.Duration)
	Event  func(name string, data any) bool
}

func (h Hooks) OnEnter(params Params) {
	if h.Enter != nil {
		h.Enter(params)
	}
}

func (h Hooks) OnExit() {
	if h.Exit != nil {
		h.Exit()
	}
}

func (h Hooks) OnUpdate(dt time.Duration) {
	if h.Update != nil {
		h.Update(dt)
	}
}

func (h Hooks) OnEvent(name string, data any) bool {
	if h.Event != nil {
		return h.Event(name, data)
	}
	return false
}

// node is one arena record; links are indices, the parent link is lookup only
type node struct {
	id       StateID
	name     string
	parent   StateID
	children map[string]StateID
	active   StateID
	behavior Behavior
}

// HistoryEntry records the resting path after a start or transition
type HistoryEntry struct {
	Path string    `yaml:"path"`
	At   time.Time `yaml:"at"`
}

// request is a deferred transition captured while the machine is busy
type request struct {
	path    string
	params  Params
	restart bool // Start semantics: the current root is exited even when it is the target
}
