// Package config loads simulation and analysis tuning from JSON files and
// server settings from the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NiranjanKaithota/InsurTech/internal/analysis"
)

// TuningConfig holds the optional overrides for simulation and analysis
// parameters. All fields are pointers so partial JSON files are safe:
// omitted fields keep their defaults through the Get* accessors.
type TuningConfig struct {
	// Simulation params
	TripDurationSec *float64 `json:"trip_duration,omitempty"`
	TickIntervalSec *float64 `json:"tick_interval,omitempty"`
	ZoneMinSec      *int     `json:"zone_min_seconds,omitempty"`
	ZoneMaxSec      *int     `json:"zone_max_seconds,omitempty"`

	// Analysis params
	Timesteps           *int     `json:"timesteps,omitempty"`
	HardBrakeThreshold  *float64 `json:"hard_brake_threshold,omitempty"`
	RapidAccelThreshold *float64 `json:"rapid_accel_threshold,omitempty"`
	SpeedingBuffer      *float64 `json:"speeding_buffer,omitempty"`
	HighSeverityDelta   *float64 `json:"high_severity_delta,omitempty"`
	GraceDuration       *float64 `json:"grace_duration,omitempty"`
	BrakingThreshold    *float64 `json:"braking_threshold,omitempty"`
	DecimationFactor    *int     `json:"decimation_factor,omitempty"`

	// Extra driver profiles merged over the builtins.
	ProfileFile *string `json:"profile_file,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the JSON keep their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *TuningConfig) Validate() error {
	if c.TripDurationSec != nil && *c.TripDurationSec <= 0 {
		return fmt.Errorf("trip_duration must be positive, got %f", *c.TripDurationSec)
	}
	if c.TickIntervalSec != nil && *c.TickIntervalSec <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %f", *c.TickIntervalSec)
	}
	if c.ZoneMinSec != nil && *c.ZoneMinSec < 1 {
		return fmt.Errorf("zone_min_seconds must be at least 1, got %d", *c.ZoneMinSec)
	}
	if c.ZoneMinSec != nil && c.ZoneMaxSec != nil && *c.ZoneMinSec > *c.ZoneMaxSec {
		return fmt.Errorf("zone duration range [%d,%d] has min > max", *c.ZoneMinSec, *c.ZoneMaxSec)
	}
	if c.Timesteps != nil && *c.Timesteps < 1 {
		return fmt.Errorf("timesteps must be at least 1, got %d", *c.Timesteps)
	}
	if c.DecimationFactor != nil && *c.DecimationFactor < 1 {
		return fmt.Errorf("decimation_factor must be at least 1, got %d", *c.DecimationFactor)
	}
	if c.GraceDuration != nil && *c.GraceDuration < 0 {
		return fmt.Errorf("grace_duration must not be negative, got %f", *c.GraceDuration)
	}
	return nil
}

// GetTripDuration returns the trip duration in seconds or the default.
func (c *TuningConfig) GetTripDuration() float64 {
	if c.TripDurationSec == nil {
		return 360.0
	}
	return *c.TripDurationSec
}

// GetTickInterval returns the tick interval in seconds or the default.
func (c *TuningConfig) GetTickInterval() float64 {
	if c.TickIntervalSec == nil {
		return 1.0
	}
	return *c.TickIntervalSec
}

// GetZoneRange returns the per-segment zone duration range in seconds.
func (c *TuningConfig) GetZoneRange() (int, int) {
	minSec, maxSec := 20, 40
	if c.ZoneMinSec != nil {
		minSec = *c.ZoneMinSec
	}
	if c.ZoneMaxSec != nil {
		maxSec = *c.ZoneMaxSec
	}
	return minSec, maxSec
}

// GetTimesteps returns the scorer sequence length or the default.
func (c *TuningConfig) GetTimesteps() int {
	if c.Timesteps == nil {
		return analysis.DefaultTimesteps
	}
	return *c.Timesteps
}

// GetProfileFile returns the extra profile file path, or empty when unset.
func (c *TuningConfig) GetProfileFile() string {
	if c.ProfileFile == nil {
		return ""
	}
	return *c.ProfileFile
}

// ExplainerConfig materializes the explainability thresholds, applying
// defaults for unset fields.
func (c *TuningConfig) ExplainerConfig() analysis.ExplainerConfig {
	cfg := analysis.DefaultExplainerConfig()
	if c.HardBrakeThreshold != nil {
		cfg.HardBrakeThresholdMPS2 = *c.HardBrakeThreshold
	}
	if c.RapidAccelThreshold != nil {
		cfg.RapidAccelThresholdMPS2 = *c.RapidAccelThreshold
	}
	if c.SpeedingBuffer != nil {
		cfg.SpeedingBufferKMH = *c.SpeedingBuffer
	}
	if c.HighSeverityDelta != nil {
		cfg.HighSeverityDeltaKMH = *c.HighSeverityDelta
	}
	if c.GraceDuration != nil {
		cfg.GraceDurationSec = *c.GraceDuration
	}
	if c.BrakingThreshold != nil {
		cfg.BrakingThresholdMPS2 = *c.BrakingThreshold
	}
	if c.DecimationFactor != nil {
		cfg.DecimationFactor = *c.DecimationFactor
	}
	return cfg
}
