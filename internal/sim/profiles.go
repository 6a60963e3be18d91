package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

// BiasMode selects how a profile's target bias combines with the posted limit.
type BiasMode string

const (
	// BiasMultiplicative scales the limit: target = limit * bias.
	BiasMultiplicative BiasMode = "multiplicative"
	// BiasAdditive offsets the limit: target = limit + bias (km/h).
	BiasAdditive BiasMode = "additive"
)

// ControlStrategy selects how a speed error becomes a pedal command.
type ControlStrategy string

const (
	// ControlDirect maps the speed error straight to throttle or brake
	// through the profile gains, with a small deadband.
	ControlDirect ControlStrategy = "direct"
	// ControlInverseDynamics converts the error to a desired acceleration,
	// clamps it to the profile's comfort bounds, and inverts the vehicle
	// force equations (ignoring drag) to recover a pedal position.
	ControlInverseDynamics ControlStrategy = "inverse_dynamics"
)

// DriverProfile is an immutable parameter bundle describing a driving
// style. Profiles are data: adding one needs no new code paths.
type DriverProfile struct {
	Name     string   `json:"name"`
	BiasMode BiasMode `json:"bias_mode"`
	// TargetBias is a factor for multiplicative mode (1.25 = 25% over the
	// limit) or a km/h offset for additive mode.
	TargetBias   float64 `json:"target_bias"`
	ThrottleGain float64 `json:"throttle_gain"`
	BrakeGain    float64 `json:"brake_gain"`

	Strategy ControlStrategy `json:"strategy"`
	// ControlGain is the proportional gain used by the inverse-dynamics
	// strategy to turn a speed error into a desired acceleration.
	ControlGain float64 `json:"control_gain"`
	// ComfortAccelMPS2 caps desired acceleration; HarshBrakeMPS2 caps
	// desired deceleration magnitude.
	ComfortAccelMPS2 float64 `json:"comfort_accel"`
	HarshBrakeMPS2   float64 `json:"harsh_brake"`

	// JitterProbability is the per-tick chance of perturbing the commanded
	// pedals; JitterMagnitude bounds the uniform delta.
	JitterProbability float64 `json:"jitter_probability"`
	JitterMagnitude   float64 `json:"jitter_magnitude"`

	// RiskLabel is the ground-truth label attached to trips simulated with
	// this profile.
	RiskLabel float64 `json:"risk_label"`
}

// Validate checks profile parameters for degenerate values.
func (p DriverProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile has no name: %w", trip.ErrConfiguration)
	}
	switch p.BiasMode {
	case BiasMultiplicative, BiasAdditive:
	default:
		return fmt.Errorf("profile %q has unknown bias mode %q: %w", p.Name, p.BiasMode, trip.ErrConfiguration)
	}
	switch p.Strategy {
	case ControlDirect, ControlInverseDynamics:
	default:
		return fmt.Errorf("profile %q has unknown control strategy %q: %w", p.Name, p.Strategy, trip.ErrConfiguration)
	}
	if p.BiasMode == BiasMultiplicative && p.TargetBias <= 0 {
		return fmt.Errorf("profile %q has non-positive target factor %v: %w", p.Name, p.TargetBias, trip.ErrConfiguration)
	}
	if p.JitterProbability < 0 || p.JitterProbability > 1 {
		return fmt.Errorf("profile %q jitter probability %v outside [0,1]: %w", p.Name, p.JitterProbability, trip.ErrConfiguration)
	}
	if p.JitterMagnitude < 0 {
		return fmt.Errorf("profile %q has negative jitter magnitude: %w", p.Name, trip.ErrConfiguration)
	}
	return nil
}

// TargetSpeedKMH applies the profile bias to a posted limit.
func (p DriverProfile) TargetSpeedKMH(limitKMH float64) float64 {
	if p.BiasMode == BiasAdditive {
		return limitKMH + p.TargetBias
	}
	return limitKMH * p.TargetBias
}

// BuiltinProfiles returns the two styles the corpus generator ships with.
func BuiltinProfiles() []DriverProfile {
	return []DriverProfile{
		{
			Name:              "cautious",
			BiasMode:          BiasMultiplicative,
			TargetBias:        0.95,
			ThrottleGain:      0.4,
			BrakeGain:         0.3,
			Strategy:          ControlDirect,
			ControlGain:       0.5,
			ComfortAccelMPS2:  1.5,
			HarshBrakeMPS2:    3.0,
			JitterProbability: 0.02,
			JitterMagnitude:   0.05,
			RiskLabel:         0.1,
		},
		{
			Name:              "aggressive",
			BiasMode:          BiasMultiplicative,
			TargetBias:        1.25,
			ThrottleGain:      1.0,
			BrakeGain:         0.8,
			Strategy:          ControlDirect,
			ControlGain:       1.2,
			ComfortAccelMPS2:  3.5,
			HarshBrakeMPS2:    5.0,
			JitterProbability: 0.08,
			JitterMagnitude:   0.15,
			RiskLabel:         0.9,
		},
	}
}

// ProfileRegistry looks up driver profiles by style key.
type ProfileRegistry struct {
	profiles map[string]DriverProfile
}

// NewProfileRegistry returns a registry pre-loaded with the builtin styles.
func NewProfileRegistry() *ProfileRegistry {
	r := &ProfileRegistry{profiles: make(map[string]DriverProfile)}
	for _, p := range BuiltinProfiles() {
		r.profiles[p.Name] = p
	}
	return r
}

// Register adds or replaces a profile after validating it.
func (r *ProfileRegistry) Register(p DriverProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.profiles[p.Name] = p
	return nil
}

// Get returns the profile for a style key.
func (r *ProfileRegistry) Get(style string) (DriverProfile, error) {
	p, ok := r.profiles[style]
	if !ok {
		return DriverProfile{}, fmt.Errorf("unknown driver profile %q: %w", style, trip.ErrInvalidInput)
	}
	return p, nil
}

// Styles returns the registered style keys in sorted order.
func (r *ProfileRegistry) Styles() []string {
	styles := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		styles = append(styles, name)
	}
	sort.Strings(styles)
	return styles
}

// LoadFile merges profiles from a JSON array file into the registry.
// Fields omitted from the JSON keep their zero value, so files should
// specify profiles completely.
func (r *ProfileRegistry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read profile file: %w", err)
	}
	var profiles []DriverProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return fmt.Errorf("failed to parse profile file: %w", err)
	}
	for _, p := range profiles {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}
