package analysis

import (
	"fmt"

	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

// EventType identifies a discrete risk event. The string values are the
// labels the dashboard and event log were built around.
type EventType string

const (
	EventSpeeding   EventType = "Speeding"
	EventHardBrake  EventType = "Hard Brake"
	EventRapidAccel EventType = "Rapid Accel"
)

// Severity grades a risk event's impact on the premium recommendation.
type Severity string

const (
	SeverityHigh     Severity = "High"
	SeverityModerate Severity = "Moderate"
)

// RiskEvent is one detected violation. Events are derived fresh on every
// explainer pass and are never persisted with the trip.
type RiskEvent struct {
	Time     float64   `json:"time"`
	Type     EventType `json:"type"`
	Measured float64   `json:"measured"` // km/h for speeding, m/s² otherwise
	Value    string    `json:"value"`    // human-readable rendering
	Severity Severity  `json:"severity"`
}

// ExplainerConfig holds the detection thresholds. Zero values are never
// meaningful; construct with DefaultExplainerConfig and override.
type ExplainerConfig struct {
	HardBrakeThresholdMPS2  float64 `json:"hard_brake_threshold"`
	RapidAccelThresholdMPS2 float64 `json:"rapid_accel_threshold"`
	SpeedingBufferKMH       float64 `json:"speeding_buffer"`
	HighSeverityDeltaKMH    float64 `json:"high_severity_delta"`

	// GraceDurationSec is the window after a limit decrease during which
	// speeding is forgiven while the driver is actively decelerating
	// (acceleration below BrakingThresholdMPS2).
	GraceDurationSec     float64 `json:"grace_duration"`
	BrakingThresholdMPS2 float64 `json:"braking_threshold"`

	// DecimationFactor emits only every Nth flagged tick. This bounds the
	// event-log volume but is a lossy sampling filter, not true
	// minimum-interval debouncing: violations falling between sampled tick
	// indices are silently dropped. Kept for compatibility with the
	// historical event logs.
	DecimationFactor int `json:"decimation_factor"`
}

// DefaultExplainerConfig returns the production thresholds.
func DefaultExplainerConfig() ExplainerConfig {
	return ExplainerConfig{
		HardBrakeThresholdMPS2:  -3.0,
		RapidAccelThresholdMPS2: 3.5,
		SpeedingBufferKMH:       5.0,
		HighSeverityDeltaKMH:    15.0,
		GraceDurationSec:        5.0,
		BrakingThresholdMPS2:    -0.5,
		DecimationFactor:        10,
	}
}

// Validate rejects degenerate threshold combinations.
func (c ExplainerConfig) Validate() error {
	if c.DecimationFactor < 1 {
		return fmt.Errorf("decimation factor %d must be at least 1: %w", c.DecimationFactor, trip.ErrConfiguration)
	}
	if c.GraceDurationSec < 0 {
		return fmt.Errorf("grace duration %v must not be negative: %w", c.GraceDurationSec, trip.ErrConfiguration)
	}
	if c.HighSeverityDeltaKMH < c.SpeedingBufferKMH {
		return fmt.Errorf("high severity delta %v below speeding buffer %v: %w",
			c.HighSeverityDeltaKMH, c.SpeedingBufferKMH, trip.ErrConfiguration)
	}
	return nil
}

// EventExplainer scans telemetry for discrete risk events. It is safe to
// share one explainer across goroutines: the pass state lives on the
// stack of each Explain call.
type EventExplainer struct {
	cfg ExplainerConfig
}

// NewEventExplainer builds an explainer with the given thresholds.
func NewEventExplainer(cfg ExplainerConfig) (*EventExplainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &EventExplainer{cfg: cfg}, nil
}

// Explain runs a single stateful left-to-right pass over the trip's
// telemetry and returns the detected risk events. Two passes over the same
// trip return identical results.
//
// Per tick, checks run in priority order Speeding > Hard Brake > Rapid
// Accel and the first match consumes the tick: a speeding candidate
// forgiven inside the grace window still suppresses the braking checks for
// that tick, matching the historical report semantics.
func (e *EventExplainer) Explain(tr *trip.Trip) []RiskEvent {
	var events []RiskEvent
	if len(tr.Sequence) == 0 {
		return events
	}

	graceEnd := -1.0
	prevLimit := tr.Sequence[0].SpeedLimit

	for i, p := range tr.Sequence {
		// A limit decrease opens a grace window. The tracked previous
		// limit updates every tick regardless of what follows.
		if p.SpeedLimit < prevLimit {
			graceEnd = p.Time + e.cfg.GraceDurationSec
		}
		prevLimit = p.SpeedLimit

		sampled := i%e.cfg.DecimationFactor == 0

		switch {
		case p.Speed > p.SpeedLimit+e.cfg.SpeedingBufferKMH:
			flag := true
			if p.Time < graceEnd && p.Acceleration < e.cfg.BrakingThresholdMPS2 {
				// Actively decelerating into the new limit: forgiven.
				flag = false
			}
			if flag && sampled {
				severity := SeverityModerate
				if p.Speed > p.SpeedLimit+e.cfg.HighSeverityDeltaKMH {
					severity = SeverityHigh
				}
				events = append(events, RiskEvent{
					Time:     p.Time,
					Type:     EventSpeeding,
					Measured: p.Speed,
					Value:    fmt.Sprintf("%d km/h (Limit: %d)", int(p.Speed), int(p.SpeedLimit)),
					Severity: severity,
				})
			}

		case p.Acceleration < e.cfg.HardBrakeThresholdMPS2:
			if sampled {
				events = append(events, RiskEvent{
					Time:     p.Time,
					Type:     EventHardBrake,
					Measured: p.Acceleration,
					Value:    fmt.Sprintf("%.2f m/s²", p.Acceleration),
					Severity: SeverityHigh,
				})
			}

		case p.Acceleration > e.cfg.RapidAccelThresholdMPS2:
			if sampled {
				events = append(events, RiskEvent{
					Time:     p.Time,
					Type:     EventRapidAccel,
					Measured: p.Acceleration,
					Value:    fmt.Sprintf("%.2f m/s²", p.Acceleration),
					Severity: SeverityModerate,
				})
			}
		}
	}
	return events
}

// Summary counts events by type, for report headers.
func Summary(events []RiskEvent) map[EventType]int {
	counts := make(map[EventType]int)
	for _, ev := range events {
		counts[ev.Type]++
	}
	return counts
}
