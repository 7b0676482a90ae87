package fsm

import (
	"fmt"
	"strings"
)

// AddState registers a root state, the first root becomes the default for Start("")
func (m *Machine) AddState(name string, b Behavior) (StateID, error) {
	if err := validName(name); err != nil {
		return StateNone, err
	}
	if _, exists := m.roots[name]; exists {
		return StateNone, fmt.Errorf("%w: root '%s'", ErrDuplicateState, name)
	}

	id := m.newNode(name, StateNone, b)
	m.roots[name] = id
	m.rootOrder = append(m.rootOrder, id)
	if m.defaultRoot == StateNone {
		m.defaultRoot = id
	}
	return id, nil
}

// AddChild registers name under parent; sibling names must be unique
func (m *Machine) AddChild(parent StateID, name string, b Behavior) (StateID, error) {
	if !m.valid(parent) {
		return StateNone, fmt.Errorf("%w: parent id %d", ErrUnknownState, parent)
	}
	if err := validName(name); err != nil {
		return StateNone, err
	}
	p := m.nodes[parent]
	if _, exists := p.children[name]; exists {
		return StateNone, fmt.Errorf("%w: '%s' under '%s'", ErrDuplicateState, name, m.pathOf(parent))
	}

	id := m.newNode(name, parent, b)
	p.children[name] = id
	return id, nil
}

// SetDefault selects the root entered by Start("")
func (m *Machine) SetDefault(name string) error {
	id, ok := m.roots[name]
	if !ok {
		return fmt.Errorf("%w: root '%s'", ErrUnknownState, name)
	}
	m.defaultRoot = id
	return nil
}

// Lookup resolves a dotted path to its node
func (m *Machine) Lookup(path string) (StateID, bool) {
	segs := strings.Split(path, ".")
	id, ok := m.roots[segs[0]]
	if !ok {
		return StateNone, false
	}
	for _, seg := range segs[1:] {
		if id, ok = m.nodes[id].children[seg]; !ok {
			return StateNone, false
		}
	}
	return id, true
}

// Name returns the local name of a node
func (m *Machine) Name(id StateID) string {
	if !m.valid(id) {
		return ""
	}
	return m.nodes[id].name
}

func (m *Machine) newNode(name string, parent StateID, b Behavior) StateID {
	if b == nil {
		b = Hooks{}
	}
	id := StateID(len(m.nodes))
	m.nodes = append(m.nodes, &node{
		id:       id,
		name:     name,
		parent:   parent,
		children: make(map[string]StateID),
		active:   StateNone,
		behavior: b,
	})
	return id
}

func (m *Machine) valid(id StateID) bool {
	return id >= 0 && int(id) < len(m.nodes)
}

// pathOf builds the dotted path by walking parent links
func (m *Machine) pathOf(id StateID) string {
	var segs []string
	for cur := id; cur != StateNone; cur = m.nodes[cur].parent {
		segs = append(segs, m.nodes[cur].name)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, ".")
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("state name must not be empty")
	}
	if strings.Contains(name, ".") {
		return fmt.Errorf("state name '%s' must not contain '.'", name)
	}
	return nil
}
