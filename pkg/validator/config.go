package validator

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileNames are the names LoadConfigFromDir looks for, in order
var ConfigFileNames = []string{"dml.yaml", "dml.yml", ".dml.yaml", ".dml.yml"}

// Config represents the validation configuration file
type Config struct {
	Version    string           `yaml:"version"`
	Validation ValidationConfig `yaml:"validation"`
}

// ValidationConfig controls how a datamodel is walked
type ValidationConfig struct {
	// FailFast stops after the first node that reports errors.
	// It forces sequential validation.
	FailFast bool `yaml:"fail_fast"`
	// Concurrency is the number of nodes validated in parallel; 0 or 1
	// means sequential.
	Concurrency int `yaml:"concurrency"`
}

// DefaultConfig returns the default validation configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "v1",
		Validation: ValidationConfig{
			FailFast:    false,
			Concurrency: 1,
		},
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Version != "" && c.Version != "v1" {
		return fmt.Errorf("unsupported config version %q", c.Version)
	}
	if c.Validation.Concurrency < 0 {
		return fmt.Errorf("validation.concurrency must not be negative, got %d", c.Validation.Concurrency)
	}
	return nil
}

// workers returns the effective number of parallel workers
func (c *Config) workers() int {
	if c.Validation.FailFast || c.Validation.Concurrency < 1 {
		return 1
	}
	return c.Validation.Concurrency
}

// LoadConfig loads configuration from a file. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// LoadConfigFromDir searches for a config file in dir and returns the
// default configuration when none exists
func LoadConfigFromDir(dir string) (*Config, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		}
	}
	return DefaultConfig(), nil
}

// SaveConfig writes configuration to a file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
