// Package config provides configuration loading and management for
// doseprofiler. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Profile parameters applied to every extracted segment
	Profile struct {
		// Spacing is the requested sample spacing along each segment, in cm
		Spacing float64 `yaml:"spacing"`

		// DoseUnits is the unit profiles are converted to ("Gy" or "cGy")
		DoseUnits string `yaml:"doseUnits"`

		// Interpolation selects the grid kernel ("nearest" or "linear")
		Interpolation string `yaml:"interpolation"`

		// NormalizeByMonitorUnits divides dose values by the plan's
		// monitor units when available
		NormalizeByMonitorUnits bool `yaml:"normalizeByMonitorUnits"`

		// ZeroPoint is "default" (CAX-surface intercept), "origin", or an
		// explicit "x,y,z" point in mm
		ZeroPoint string `yaml:"zeroPoint"`
	} `yaml:"profile"`

	// Input parameters for the segment CSV file
	Input struct {
		// Delimiter separates the values of a segment row
		Delimiter string `yaml:"delimiter"`

		// SkipRows is the number of header rows before the first segment
		SkipRows int `yaml:"skipRows"`
	} `yaml:"input"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores to use when extracting a
		// batch of segments in parallel
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default profile parameters
	cfg.Profile.Spacing = 0.1
	cfg.Profile.DoseUnits = "Gy"
	cfg.Profile.Interpolation = "linear"
	cfg.Profile.NormalizeByMonitorUnits = false
	cfg.Profile.ZeroPoint = "default"

	// Set default input parameters
	cfg.Input.Delimiter = ","
	cfg.Input.SkipRows = 2

	// Set default processing parameters
	cfg.Processing.NumCores = runtime.NumCPU() // Use all available cores by default

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path.
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
