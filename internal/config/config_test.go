package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test athlete defaults
	if cfg.Athlete.RestingHR != 50 {
		t.Errorf("Athlete.RestingHR = %v, want 50", cfg.Athlete.RestingHR)
	}
	if cfg.Athlete.MaxHR != 0 {
		t.Errorf("Athlete.MaxHR = %v, want 0 (derived at runtime)", cfg.Athlete.MaxHR)
	}

	// Test display defaults
	if cfg.Display.DistanceUnit != "mi" {
		t.Errorf("Display.DistanceUnit = %q, want %q", cfg.Display.DistanceUnit, "mi")
	}
	if cfg.Display.PaceUnit != "min/mi" {
		t.Errorf("Display.PaceUnit = %q, want %q", cfg.Display.PaceUnit, "min/mi")
	}

	// No paces by default: zones come from VDOT or history instead
	if cfg.Paces.Easy != 0 {
		t.Errorf("Paces.Easy should be unset by default, got %v", cfg.Paces.Easy)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errContains string
	}{
		{
			name:        "empty config is valid",
			config:      Config{},
			expectError: false,
		},
		{
			name: "full config is valid",
			config: Config{
				Athlete: AthleteConfig{Age: 35, RestingHR: 50, MaxHR: 185, KnownVDOT: 48},
				Paces:   PacesConfig{Easy: 540, Threshold: 456, Interval: 420},
				Display: DisplayConfig{DistanceUnit: "mi", PaceUnit: "min/mi"},
			},
			expectError: false,
		},
		{
			name: "bad distance unit",
			config: Config{
				Display: DisplayConfig{DistanceUnit: "furlongs"},
			},
			expectError: true,
			errContains: "distance_unit",
		},
		{
			name: "bad pace unit",
			config: Config{
				Display: DisplayConfig{PaceUnit: "min/furlong"},
			},
			expectError: true,
			errContains: "pace_unit",
		},
		{
			name: "implausible age",
			config: Config{
				Athlete: AthleteConfig{Age: 200},
			},
			expectError: true,
			errContains: "age",
		},
		{
			name: "implausible max HR",
			config: Config{
				Athlete: AthleteConfig{MaxHR: 60},
			},
			expectError: true,
			errContains: "max_hr",
		},
		{
			name: "resting HR above max HR",
			config: Config{
				Athlete: AthleteConfig{RestingHR: 190, MaxHR: 185},
			},
			expectError: true,
			errContains: "resting_hr",
		},
		{
			name: "threshold pace slower than easy",
			config: Config{
				Paces: PacesConfig{Easy: 540, Threshold: 560},
			},
			expectError: true,
			errContains: "threshold",
		},
		{
			name: "interval pace slower than threshold",
			config: Config{
				Paces: PacesConfig{Threshold: 456, Interval: 480},
			},
			expectError: true,
			errContains: "interval",
		},
		{
			name: "negative pace",
			config: Config{
				Paces: PacesConfig{Easy: -10},
			},
			expectError: true,
			errContains: "negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}
