//go:build !tinygo

// Package config loads the host simulator configuration. The first run
// writes a default file so every knob is discoverable next to the
// binary's state.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"quartz/watch"
)

// StoreConfig selects the record store backend.
type StoreConfig struct {
	// Backend is "dir" (one file per record), "sqlite", or "littlefs"
	// (a filesystem on the flash image, matching the device layout).
	Backend string `yaml:"backend"`
	// Path is the record directory or the sqlite database file; the
	// littlefs backend uses the flash image instead.
	Path string `yaml:"path"`
}

// Config is the host simulator configuration.
type Config struct {
	// Personality selects the simulated segment layout: "custom" has a
	// seven-cell bottom line and a decimal point, "classic" six cells
	// and a colon.
	Personality string `yaml:"personality"`

	// Scale is the window pixel multiplier.
	Scale int `yaml:"scale"`

	// Faces is the number of independent progress face instances, each
	// with its own stored range.
	Faces int `yaml:"faces"`

	// TimeoutSeconds is the inactivity window before the timeout event.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// LowEnergySeconds is the inactivity window before low-energy mode.
	LowEnergySeconds int `yaml:"low_energy_seconds"`

	Store StoreConfig `yaml:"store"`
}

// Default returns the in-memory default configuration.
func Default() *Config {
	return &Config{
		Personality:      "custom",
		Scale:            4,
		Faces:            1,
		TimeoutSeconds:   60,
		LowEnergySeconds: 600,
		Store: StoreConfig{
			Backend: "dir",
			Path:    defaultStorePath(),
		},
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".quartz"
	}
	return filepath.Join(home, ".quartz")
}

// Normalize fills missing or out-of-range values with defaults so a
// partially filled file still behaves.
func (c *Config) Normalize() {
	switch c.Personality {
	case "custom", "classic":
	default:
		c.Personality = "custom"
	}
	if c.Scale <= 0 {
		c.Scale = 4
	}
	if c.Faces <= 0 {
		c.Faces = 1
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 60
	}
	if c.LowEnergySeconds <= 0 {
		c.LowEnergySeconds = 600
	}
	switch c.Store.Backend {
	case "dir", "sqlite", "littlefs":
	default:
		c.Store.Backend = "dir"
	}
	if c.Store.Path == "" {
		c.Store.Path = defaultStorePath()
		if c.Store.Backend == "sqlite" {
			c.Store.Path = filepath.Join(defaultStorePath(), "records.db")
		}
	}
}

// LCDPersonality maps the config string onto the display model.
func (c *Config) LCDPersonality() watch.Personality {
	if c.Personality == "classic" {
		return watch.PersonalityClassic
	}
	return watch.PersonalityCustom
}

// Load reads the YAML config at path. A missing file is a first run:
// the defaults are written there with 0600 permissions and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the config to path with 0600 permissions, atomically via
// a temp file in the same directory.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	cfg.Normalize()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".quartz-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
