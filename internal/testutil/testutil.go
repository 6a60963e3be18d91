// Package testutil provides shared trip fixtures for tests.
//
// This package centralises common fixtures to reduce duplication across
// test files; production code must not import it.
package testutil

import (
	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

// speedingMargin mirrors the simulator's telemetry flagging tolerance.
const speedingMargin = 2.0

// RampTrip builds a trip whose speed climbs 1 km/h per tick from rest,
// capped at limit+10. The tail of the trip is therefore speeding, which
// makes the fixture useful for both clean and violating scenarios.
func RampTrip(id string, ticks int, limit float64) *trip.Trip {
	tr := &trip.Trip{
		ID:    id,
		Style: "human",
		Plan:  []trip.ZoneSegment{{Start: 0, End: float64(ticks), Limit: limit}},
	}
	prev := 0.0
	for i := 0; i < ticks; i++ {
		speed := float64(i)
		if speed > limit+10 {
			speed = limit + 10
		}
		speeding := 0
		if speed > limit+speedingMargin {
			speeding = 1
		}
		tr.Sequence = append(tr.Sequence, trip.TelemetryPoint{
			Time:         float64(i),
			Speed:        speed,
			Acceleration: (speed - prev) / 3.6,
			SpeedLimit:   limit,
			IsSpeeding:   speeding,
			Throttle:     0.5,
		})
		prev = speed
	}
	return tr
}

// HarshTrip builds a trip alternating hard braking with throttle surges
// over the limit, the telemetry of a tailgater in stop-and-go traffic.
func HarshTrip(id string, ticks int, limit float64) *trip.Trip {
	tr := &trip.Trip{
		ID:    id,
		Style: "human",
		Plan:  []trip.ZoneSegment{{Start: 0, End: float64(ticks), Limit: limit}},
	}
	for i := 0; i < ticks; i++ {
		p := trip.TelemetryPoint{Time: float64(i), SpeedLimit: limit}
		if i%2 == 0 {
			p.Speed = limit + 10
			p.Acceleration = -6
			p.IsSpeeding = 1
			p.Brake = 1
		} else {
			p.Speed = limit - 10
			p.Acceleration = 2
			p.Throttle = 0.8
		}
		tr.Sequence = append(tr.Sequence, p)
	}
	return tr
}

// ConstantTrip builds a trip cruising at a fixed speed under a fixed limit.
func ConstantTrip(id string, ticks int, speed, limit float64) *trip.Trip {
	tr := &trip.Trip{
		ID:    id,
		Style: "human",
		Plan:  []trip.ZoneSegment{{Start: 0, End: float64(ticks), Limit: limit}},
	}
	speeding := 0
	if speed > limit+speedingMargin {
		speeding = 1
	}
	for i := 0; i < ticks; i++ {
		tr.Sequence = append(tr.Sequence, trip.TelemetryPoint{
			Time:       float64(i),
			Speed:      speed,
			SpeedLimit: limit,
			IsSpeeding: speeding,
			Throttle:   0.3,
		})
	}
	return tr
}
