package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/NiranjanKaithota/InsurTech/internal/trip"
	"github.com/NiranjanKaithota/InsurTech/internal/units"
)

// SpeedingMarginKMH is the tolerance above the posted limit before a tick
// is flagged is_speeding in telemetry. This is a model input feature and is
// deliberately tighter than the explainability buffer.
const SpeedingMarginKMH = 2.0

// DefaultTickSeconds is the corpus-generation tick interval.
const DefaultTickSeconds = 1.0

// TripSimulator drives the zone planner, the driver agent and the vehicle
// dynamics model tick by tick to produce complete trips. One simulator may
// serve many trips; each Simulate call is independent given its own seeded
// random source.
type TripSimulator struct {
	vehicle Vehicle
	planner *ZonePlanner
}

// NewTripSimulator wires a vehicle model and a zone planner.
func NewTripSimulator(vehicle Vehicle, planner *ZonePlanner) *TripSimulator {
	return &TripSimulator{vehicle: vehicle, planner: planner}
}

// Simulate runs duration/tick ticks and returns the complete trip. The
// trip always terminates after the fixed tick count. Passing an empty id
// assigns a random UUID. The profile's ground-truth risk label is attached
// to the trip.
func (s *TripSimulator) Simulate(id string, profile DriverProfile, duration, tick float64, rng *rand.Rand) (*trip.Trip, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("trip duration %v must be positive: %w", duration, trip.ErrInvalidInput)
	}
	if tick <= 0 {
		return nil, fmt.Errorf("tick interval %v must be positive: %w", tick, trip.ErrInvalidInput)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if id == "" {
		id = uuid.NewString()
	}

	plan, err := s.planner.Plan(duration, rng)
	if err != nil {
		return nil, err
	}

	label := profile.RiskLabel
	tr := &trip.Trip{
		ID:        id,
		Style:     profile.Name,
		RiskLabel: &label,
		Plan:      plan,
	}

	agent := NewDriverAgent(profile, s.vehicle, rng)
	ticks := int(duration / tick)
	tr.Sequence = make([]trip.TelemetryPoint, 0, ticks)

	speedMPS := 0.0
	for i := 0; i < ticks; i++ {
		t := float64(i) * tick
		limitKMH := tr.LimitAt(t)

		throttle, brake := agent.Command(speedMPS, limitKMH)
		var accel float64
		speedMPS, accel = s.vehicle.Step(speedMPS, throttle, brake, tick)

		speedKMH := units.MPSToKMH(speedMPS)
		isSpeeding := 0
		if speedKMH > limitKMH+SpeedingMarginKMH {
			isSpeeding = 1
		}

		tr.Sequence = append(tr.Sequence, trip.TelemetryPoint{
			Time:         t,
			Speed:        round2(speedKMH),
			Acceleration: round2(accel),
			SpeedLimit:   limitKMH,
			IsSpeeding:   isSpeeding,
			Throttle:     round2(throttle),
			Brake:        round2(brake),
		})
	}
	return tr, nil
}

// round2 matches the two-decimal storage precision of the training corpus.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
