// Package config holds all cadence configuration, loaded from a YAML file
// with environment overrides for secrets. One file per concern.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all cadence configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Text backend configuration
	LLM LLMConfig `yaml:"llm"`

	// Content generation preferences
	Generation GenerationConfig `yaml:"generation"`

	// Scheduling constraint defaults
	Constraints ConstraintsConfig `yaml:"constraints"`

	// Persistence
	Store StoreConfig `yaml:"store"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:        "cadence",
		Version:     "0.3.0",
		LLM:         DefaultLLMConfig(),
		Generation:  DefaultGenerationConfig(),
		Constraints: DefaultConstraintsConfig(),
		Store:       DefaultStoreConfig(),
		Logging:     DefaultLoggingConfig(),
	}
}

// Load reads config from the given path, falling back to defaults for any
// missing file, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config to the given path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides pulls secrets from the environment so keys never have
// to live in the config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CADENCE_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.LLM.Provider == "gemini" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("CADENCE_DB_PATH"); v != "" {
		c.Store.DatabasePath = v
	}
}
