// Package config reads and writes the studytrackr config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/sadopc/studytrackr/internal/store"
)

const configFile = "config.yaml"

// Config is the top-level structure of config.yaml.
type Config struct {
	DBPath    string    `yaml:"db_path"`
	ExportDir string    `yaml:"export_dir"` // empty means the home directory
	Log       LogConfig `yaml:"log"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
	JSON  bool   `yaml:"json"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DBPath: store.DefaultDBPath(),
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(xdg.StateHome, store.AppName, store.AppName+".log"),
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/studytrackr/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, store.AppName, configFile)
}

// Load reads the config at path. A missing file yields Default(); fields
// absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Write saves cfg to path, creating parent directories.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ResolveExportDir returns ExportDir, falling back to the user's home.
func (c *Config) ResolveExportDir() (string, error) {
	if c.ExportDir != "" {
		return c.ExportDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return home, nil
}
