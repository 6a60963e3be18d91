// Package units provides speed conversions shared by the physics model
// and telemetry. Telemetry stores speeds in km/h; the physics model works
// in m/s.
package units

// KMHPerMPS is the factor converting meters per second to kilometres per hour.
const KMHPerMPS = 3.6

// MPSToKMH converts a speed in meters per second to kilometres per hour.
func MPSToKMH(speedMPS float64) float64 {
	return speedMPS * KMHPerMPS
}

// KMHToMPS converts a speed in kilometres per hour to meters per second.
func KMHToMPS(speedKMH float64) float64 {
	return speedKMH / KMHPerMPS
}
