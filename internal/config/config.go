package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	Athlete AthleteConfig `json:"athlete"`
	Paces   PacesConfig   `json:"paces"`
	Display DisplayConfig `json:"display"`
}

// AthleteConfig holds athlete-specific settings
type AthleteConfig struct {
	Age       int     `json:"age"`
	RestingHR float64 `json:"resting_hr"`
	MaxHR     float64 `json:"max_hr"`
	KnownVDOT float64 `json:"known_vdot"`
}

// PacesConfig holds the athlete's reference training paces, in seconds
// per display unit. Easy is the anchor; the rest are optional and
// derived from it when zero.
type PacesConfig struct {
	Easy      float64 `json:"easy"`
	Marathon  float64 `json:"marathon"`
	Tempo     float64 `json:"tempo"`
	Threshold float64 `json:"threshold"`
	Interval  float64 `json:"interval"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `json:"distance_unit"`
	PaceUnit     string `json:"pace_unit"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Athlete: AthleteConfig{
			RestingHR: 50,
		},
		Display: DisplayConfig{
			DistanceUnit: "mi",
			PaceUnit:     "min/mi",
		},
	}
}

// Load reads the configuration from ~/.runlab/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.Athlete.RestingHR == 0 {
		cfg.Athlete.RestingHR = defaults.Athlete.RestingHR
	}
	if cfg.Display.DistanceUnit == "" {
		cfg.Display.DistanceUnit = defaults.Display.DistanceUnit
	}
	if cfg.Display.PaceUnit == "" {
		cfg.Display.PaceUnit = defaults.Display.PaceUnit
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.runlab/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := Config{
		Athlete: AthleteConfig{
			Age:       35,
			RestingHR: 50,
			MaxHR:     185,
		},
		Paces: PacesConfig{
			Easy: 540,
		},
		Display: DisplayConfig{
			DistanceUnit: "mi",
			PaceUnit:     "min/mi",
		},
	}

	return Save(&example)
}

// Validate checks if the config is internally consistent
func (c *Config) Validate() error {
	// Validate display units
	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}
	if c.Display.PaceUnit != "" && c.Display.PaceUnit != "min/km" && c.Display.PaceUnit != "min/mi" {
		return fmt.Errorf("display.pace_unit must be \"min/km\" or \"min/mi\", got %q", c.Display.PaceUnit)
	}

	if c.Athlete.Age < 0 || c.Athlete.Age > 120 {
		return fmt.Errorf("athlete.age %d is not plausible", c.Athlete.Age)
	}
	if c.Athlete.MaxHR < 0 || (c.Athlete.MaxHR > 0 && c.Athlete.MaxHR < 100) {
		return fmt.Errorf("athlete.max_hr (%v) is not plausible", c.Athlete.MaxHR)
	}
	if c.Athlete.RestingHR > 0 && c.Athlete.MaxHR > 0 && c.Athlete.RestingHR >= c.Athlete.MaxHR {
		return fmt.Errorf("athlete.resting_hr (%v) must be less than athlete.max_hr (%v)", c.Athlete.RestingHR, c.Athlete.MaxHR)
	}
	if c.Athlete.KnownVDOT < 0 {
		return errors.New("athlete.known_vdot must not be negative")
	}

	// Reference paces, when set, must order fastest to slowest
	p := c.Paces
	if p.Easy < 0 || p.Marathon < 0 || p.Tempo < 0 || p.Threshold < 0 || p.Interval < 0 {
		return errors.New("paces must not be negative")
	}
	if p.Threshold > 0 && p.Easy > 0 && p.Threshold >= p.Easy {
		return fmt.Errorf("paces.threshold (%v) must be faster than paces.easy (%v)", p.Threshold, p.Easy)
	}
	if p.Interval > 0 && p.Threshold > 0 && p.Interval >= p.Threshold {
		return fmt.Errorf("paces.interval (%v) must be faster than paces.threshold (%v)", p.Interval, p.Threshold)
	}

	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".runlab", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".runlab"), nil
}
