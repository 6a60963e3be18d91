package sim

import (
	"math/rand"

	"github.com/NiranjanKaithota/InsurTech/internal/units"
)

// speedErrorDeadbandMPS is the band around the target speed inside which
// the direct strategy commands neither pedal.
const speedErrorDeadbandMPS = 1.0

// DriverAgent converts vehicle state and the active zone limit into
// throttle/brake commands according to a DriverProfile. All randomness
// comes from the injected source, so a seeded agent replays exactly.
type DriverAgent struct {
	profile DriverProfile
	vehicle Vehicle
	rng     *rand.Rand
}

// NewDriverAgent builds an agent for one trip. The agent draws from rng on
// every tick, so sharing a source between agents breaks replayability.
func NewDriverAgent(profile DriverProfile, vehicle Vehicle, rng *rand.Rand) *DriverAgent {
	return &DriverAgent{profile: profile, vehicle: vehicle, rng: rng}
}

// Command returns the pedal inputs for the current tick, each in [0,1].
// At most one pedal is commanded by the controller; the jitter pass may
// leave both slightly non-zero.
func (a *DriverAgent) Command(speedMPS, limitKMH float64) (throttle, brake float64) {
	targetMPS := units.KMHToMPS(a.profile.TargetSpeedKMH(limitKMH))
	errMPS := targetMPS - speedMPS

	switch a.profile.Strategy {
	case ControlInverseDynamics:
		throttle, brake = a.inverseDynamics(errMPS)
	default:
		throttle, brake = a.direct(errMPS)
	}

	return a.jitter(throttle, brake)
}

// direct maps the speed error straight to a pedal through the profile
// gains, with a deadband so the agent coasts when close to target.
func (a *DriverAgent) direct(errMPS float64) (throttle, brake float64) {
	if errMPS > speedErrorDeadbandMPS {
		throttle = clamp01(errMPS * a.profile.ThrottleGain)
	} else if errMPS < -speedErrorDeadbandMPS {
		brake = clamp01(-errMPS * a.profile.BrakeGain)
	}
	return throttle, brake
}

// inverseDynamics picks a desired acceleration proportional to the error,
// clamps it to the profile's comfort bounds, and inverts the vehicle force
// equations (drag ignored) to recover the pedal position producing it.
func (a *DriverAgent) inverseDynamics(errMPS float64) (throttle, brake float64) {
	desired := a.profile.ControlGain * errMPS
	if desired > a.profile.ComfortAccelMPS2 {
		desired = a.profile.ComfortAccelMPS2
	}
	if desired < -a.profile.HarshBrakeMPS2 {
		desired = -a.profile.HarshBrakeMPS2
	}

	force := desired * a.vehicle.MassKg
	if force >= 0 {
		throttle = clamp01(force / a.vehicle.MaxEngineForceN)
	} else {
		brake = clamp01(-force / a.vehicle.MaxBrakeForceN)
	}
	return throttle, brake
}

// jitter emulates discrete human input noise: with the profile probability
// it perturbs both commanded pedals by a bounded uniform delta and
// re-clamps. The probability draw happens every tick so the stream of
// random numbers consumed per tick is stable for a given trigger pattern.
func (a *DriverAgent) jitter(throttle, brake float64) (float64, float64) {
	if a.profile.JitterProbability <= 0 {
		return throttle, brake
	}
	if a.rng.Float64() >= a.profile.JitterProbability {
		return throttle, brake
	}
	mag := a.profile.JitterMagnitude
	throttle = clamp01(throttle + (a.rng.Float64()*2-1)*mag)
	brake = clamp01(brake + (a.rng.Float64()*2-1)*mag)
	return throttle, brake
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
