package fsm

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Registry maps behavior names used in topology documents to implementations
type Registry map[string]Behavior

// LoadTopology parses a YAML topology and rebuilds the forest
// Validates every behavior reference before touching the machine
// Clears existing graph data; the machine must not be started
func (m *Machine) LoadTopology(data []byte, reg Registry) error {
	if m.current != StateNone {
		return fmt.Errorf("cannot load topology into a started machine")
	}

	var cfg TopologyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to unmarshal FSM topology: %w", err)
	}
	if len(cfg.States) == 0 {
		return fmt.Errorf("FSM topology defines no states")
	}
	for _, s := range cfg.States {
		if err := checkBehaviors(s, reg); err != nil {
			return err
		}
	}

	// Build into a scratch machine so a failed load leaves m intact
	next := NewMachine()
	next.now = m.now
	for _, s := range cfg.States {
		id, err := next.AddState(s.Name, reg[s.Behavior])
		if err != nil {
			return fmt.Errorf("state '%s': %w", s.Name, err)
		}
		if err := next.addChildren(id, s.Children, reg); err != nil {
			return err
		}
	}

	if cfg.Initial != "" {
		if err := next.SetDefault(cfg.Initial); err != nil {
			return fmt.Errorf("initial state: %w", err)
		}
	}

	m.nodes = next.nodes
	m.roots = next.roots
	m.rootOrder = next.rootOrder
	m.defaultRoot = next.defaultRoot
	m.queue = nil
	m.history = historyRing{}
	return nil
}

func (m *Machine) addChildren(parent StateID, children []*StateConfig, reg Registry) error {
	for _, c := range children {
		id, err := m.AddChild(parent, c.Name, reg[c.Behavior])
		if err != nil {
			return fmt.Errorf("state '%s.%s': %w", m.pathOf(parent), c.Name, err)
		}
		if err := m.addChildren(id, c.Children, reg); err != nil {
			return err
		}
	}
	return nil
}

func checkBehaviors(s *StateConfig, reg Registry) error {
	if s == nil {
		return fmt.Errorf("FSM topology contains an empty state entry")
	}
	if s.Behavior != "" {
		if _, ok := reg[s.Behavior]; !ok {
			return fmt.Errorf("state '%s' references unknown behavior '%s'", s.Name, s.Behavior)
		}
	}
	for _, c := range s.Children {
		if err := checkBehaviors(c, reg); err != nil {
			return err
		}
	}
	return nil
}

// Roots returns root names in registration order
func (m *Machine) Roots() []string {
	names := make([]string, len(m.rootOrder))
	for i, id := range m.rootOrder {
		names[i] = m.nodes[id].name
	}
	return names
}
