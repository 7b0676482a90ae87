package fsm

// TopologyConfig is the YAML document describing the state forest
type TopologyConfig struct {
	Initial string         `yaml:"initial"`
	States  []*StateConfig `yaml:"states"`
}

// StateConfig is one node with its registered behavior name and nested children
type StateConfig struct {
	Name     string         `yaml:"name"`
	Behavior string         `yaml:"behavior,omitempty"` // Registry key, empty = no-op hooks
	Children []*StateConfig `yaml:"children,omitempty"`
}
