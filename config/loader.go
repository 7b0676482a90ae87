package config

import (
	_ "embed"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigDir  = "./config"
	DefaultConfigFile = "table.yaml"
	DefaultConfigPath = DefaultConfigDir + "/" + DefaultConfigFile
)

//go:embed default.yaml
var embeddedDefault []byte

// Embedded returns the built-in YAML document
func Embedded() []byte {
	return embeddedDefault
}

// Parse decodes YAML over Default(), so omitted keys keep their defaults, then validates
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses a config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadAuto loads config with priority: customPath > DefaultConfigPath > embedded
func LoadAuto(customPath string) (*Config, error) {
	// Priority 1: Custom path from CLI
	if customPath != "" {
		log.Printf("[CONFIG] loading %s", customPath)
		return Load(customPath)
	}

	// Priority 2: Default external config
	if fileExists(DefaultConfigPath) {
		log.Printf("[CONFIG] loading %s", DefaultConfigPath)
		return Load(DefaultConfigPath)
	}

	// Priority 3: Embedded fallback
	log.Printf("[CONFIG] using embedded table")
	return Parse(embeddedDefault)
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
