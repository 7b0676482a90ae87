package fsm

import (
	"fmt"
	"os"
)

const (
	DefaultTopologyDir  = "./config"
	DefaultTopologyFile = "flow.yaml"
	DefaultTopologyPath = DefaultTopologyDir + "/" + DefaultTopologyFile
)

// LoadTopologyAuto loads the topology with priority: customPath > DefaultTopologyPath > embedded
func LoadTopologyAuto(m *Machine, customPath string, embeddedFallback []byte, reg Registry) error {
	// Priority 1: Custom path from CLI
	if customPath != "" {
		return LoadTopologyFromPath(m, customPath, reg)
	}

	// Priority 2: Default external config
	if fileExists(DefaultTopologyPath) {
		return LoadTopologyFromPath(m, DefaultTopologyPath, reg)
	}

	// Priority 3: Embedded fallback
	return m.LoadTopology(embeddedFallback, reg)
}

// LoadTopologyFromPath loads a topology document from an arbitrary file path
func LoadTopologyFromPath(m *Machine, path string, reg Registry) error {
	if !fileExists(path) {
		return fmt.Errorf("topology file not found: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := m.LoadTopology(data, reg); err != nil {
		return fmt.Errorf("failed to load FSM topology from %s: %w", path, err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
