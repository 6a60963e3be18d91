package sim

// AirDensityKgM3 is the standard sea-level air density used by the drag term.
const AirDensityKgM3 = 1.225

// Vehicle holds the physical constants of the simulated car. The default
// values describe the mid-size sedan the risk model was trained against;
// changing them invalidates previously generated corpora.
type Vehicle struct {
	MassKg             float64 // curb mass
	MaxEngineForceN    float64 // force at full throttle
	MaxBrakeForceN     float64 // force at full brake (brakes are stronger)
	DragCoefficient    float64 // aerodynamic drag coefficient
	FrontalAreaM2      float64 // frontal cross-section
	RollingResistanceN float64 // constant resistance while moving
	SpeedCapMPS        float64 // hard cap on integrated speed (~200 km/h)
}

// DefaultVehicle returns the canonical vehicle used for corpus generation.
func DefaultVehicle() Vehicle {
	return Vehicle{
		MassKg:             1500.0,
		MaxEngineForceN:    3000.0,
		MaxBrakeForceN:     8000.0,
		DragCoefficient:    0.3,
		FrontalAreaM2:      2.2,
		RollingResistanceN: 0,
		SpeedCapMPS:        55.0,
	}
}

// Step advances the vehicle by one tick of dt seconds using an explicit
// forward-Euler integration. It returns the clamped next speed in m/s and
// the raw acceleration in m/s² that produced it. The acceleration is
// reported unclamped: telemetry records the force balance even on ticks
// where the speed clamp engages.
//
// The clamp order (integrate, then clamp to [0, SpeedCapMPS]) is part of
// the determinism contract with the training corpus.
func (v Vehicle) Step(speedMPS, throttle, brake, dt float64) (nextMPS, accelMPS2 float64) {
	engineForce := throttle * v.MaxEngineForceN
	brakeForce := brake * v.MaxBrakeForceN

	// F_drag = 0.5 * rho * C_d * A * v², opposing motion.
	dragForce := 0.5 * AirDensityKgM3 * v.DragCoefficient * v.FrontalAreaM2 * speedMPS * speedMPS

	rolling := 0.0
	if speedMPS > 0 {
		rolling = v.RollingResistanceN
	}

	netForce := engineForce - brakeForce - dragForce - rolling
	accelMPS2 = netForce / v.MassKg

	nextMPS = speedMPS + accelMPS2*dt
	if nextMPS < 0 {
		nextMPS = 0
	}
	if nextMPS > v.SpeedCapMPS {
		nextMPS = v.SpeedCapMPS
	}
	return nextMPS, accelMPS2
}
