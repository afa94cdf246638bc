package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Device describes a preset hardware profile in defaults.yaml.
type Device struct {
	InteractionCoefficient float64 `yaml:"interaction_coefficient"` // C6, rad·m^6/s
	BlockadeRadius         float64 `yaml:"blockade_radius"`         // meters
	Description            string  `yaml:"description"`             // informational only
}

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version string            `yaml:"version"`
	Devices map[string]Device `yaml:"devices"`
}

// loadDefaultsConfig parses defaults.yaml into a Config struct.
func loadDefaultsConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading defaults file %s: %w", path, err)
	}

	// Strict field checking: typos must cause errors
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing defaults YAML: %w", err)
	}
	return cfg, nil
}

// GetDeviceDefaults returns the named device profile from the defaults file.
func GetDeviceDefaults(name string, defaultsFilePath string) (Device, error) {
	cfg, err := loadDefaultsConfig(defaultsFilePath)
	if err != nil {
		return Device{}, err
	}
	device, ok := cfg.Devices[name]
	if !ok {
		return Device{}, fmt.Errorf("device %q not found in %s", name, defaultsFilePath)
	}
	if device.InteractionCoefficient < 0 || device.BlockadeRadius < 0 {
		return Device{}, fmt.Errorf("device %q has negative parameters", name)
	}
	return device, nil
}
