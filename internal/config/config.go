// Package config loads CLI configuration from the optional .artagonrc file
// at the repository root.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the per-repository configuration file.
const ConfigFileName = ".artagonrc"

// Config holds all CLI configuration.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	History  HistoryConfig  `toml:"history"`
}

// DefaultsConfig holds project identity defaults.
type DefaultsConfig struct {
	Language string `toml:"language"`
	Owner    string `toml:"owner"`
	Repo     string `toml:"repo"`
}

// HistoryConfig controls the invocation audit log. Path "off" disables
// recording entirely.
type HistoryConfig struct {
	Path string `toml:"path"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Language: "java",
		},
	}
}

// Load reads configuration from a TOML file. An absent or unreadable file
// yields the defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, nil
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Defaults.Language == "" {
		cfg.Defaults.Language = "java"
	}
	return cfg, nil
}

// DefaultPath returns the config file location for a repository root.
func DefaultPath(root string) string {
	return filepath.Join(root, ConfigFileName)
}

// HistoryPath resolves the audit log location for a repository root. It
// returns "" when recording is disabled.
func (c *Config) HistoryPath(root string) string {
	switch c.History.Path {
	case "":
		return filepath.Join(root, ".artagon", "history.db")
	case "off":
		return ""
	default:
		return c.History.Path
	}
}
