// Package arenaconfig loads and persists the runtime configuration shared
// by cmd/arenatree and pkg/arenaserve: the tree's branching factor, the
// HTTP bind address, and the logging level.
package arenaconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/arenatree/pkg/arenatree"
)

// Config is the persisted shape of an arenatree server's runtime settings.
type Config struct {
	Capacity int     `yaml:"capacity"`
	Bind     string  `yaml:"bind"`
	Port     int     `yaml:"port"`
	Logging  Logging `yaml:"logging"`
	Metrics  Metrics `yaml:"metrics"`
}

// Logging controls the structured logger's verbosity.
type Logging struct {
	Level string `yaml:"level"`
}

// Metrics controls whether /metrics is mounted and under what path.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns the configuration used when no file is supplied:
// arenatree.DefaultCapacity, loopback bind, info logging, metrics mounted.
func DefaultConfig() *Config {
	return &Config{
		Capacity: arenatree.DefaultCapacity,
		Bind:     "127.0.0.1",
		Port:     8080,
		Logging: Logging{
			Level: "info",
		},
		Metrics: Metrics{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// LoadConfig reads and parses a YAML config file at configPath.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Capacity < arenatree.MinCapacity {
		return nil, fmt.Errorf("config capacity %d below minimum %d: %w", config.Capacity, arenatree.MinCapacity, arenatree.ErrInvalidCapacity)
	}

	return config, nil
}

// SaveConfig writes config as YAML to configPath, creating parent
// directories as needed.
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns ~/.config/arenatree/config.yaml, falling
// back to a relative path if the home directory cannot be resolved.
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./arenatree.yaml"
	}
	configDir := filepath.Join(homeDir, ".config", "arenatree")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists reports whether a config file exists at configPath.
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
