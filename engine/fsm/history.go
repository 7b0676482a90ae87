package fsm

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// historyRing keeps the last HistoryCapacity entries, oldest overwritten first
type historyRing struct {
	buf  [HistoryCapacity]HistoryEntry
	head int // next write slot
	size int
}

func (r *historyRing) push(e HistoryEntry) {
	r.buf[r.head] = e
	r.head = (r.head + 1) % HistoryCapacity
	if r.size < HistoryCapacity {
		r.size++
	}
}

func (r *historyRing) entries() []HistoryEntry {
	out := make([]HistoryEntry, r.size)
	start := (r.head - r.size + HistoryCapacity) % HistoryCapacity
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(start+i)%HistoryCapacity]
	}
	return out
}

// historyDocument is the YAML shape of ExportHistory
type historyDocument struct {
	Current string         `yaml:"current"`
	Entries []HistoryEntry `yaml:"history"`
}

// ExportHistory marshals the current path and history ring for diagnostics
func (m *Machine) ExportHistory() ([]byte, error) {
	doc := historyDocument{
		Current: m.CurrentStatePath(),
		Entries: m.History(),
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal FSM history: %w", err)
	}
	return data, nil
}
