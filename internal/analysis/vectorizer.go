// Package analysis turns trip telemetry into scorer input and
// human-readable risk reports. Every pass here is a pure function of the
// trip it is given; nothing mutates the trip or keeps state between calls.
package analysis

import (
	"fmt"

	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

// FeatureCount is the width of every feature row.
const FeatureCount = 6

// DefaultTimesteps is the sequence length the shipped risk model was
// trained with (a 360-tick trip at 1 Hz).
const DefaultTimesteps = 360

// FeatureRow extracts the fixed ordered feature tuple from one telemetry
// point. The column order is a contract with the external scorer and must
// not be reordered.
func FeatureRow(p trip.TelemetryPoint) []float64 {
	return []float64{
		p.Speed,
		p.Acceleration,
		p.SpeedLimit,
		float64(p.IsSpeeding),
		p.Throttle,
		p.Brake,
	}
}

// Vectorize normalizes a telemetry sequence into a targetLen×FeatureCount
// matrix. Sequences longer than targetLen are truncated; shorter ones are
// extended by repeating the last point's feature vector. Padding by
// repetition rather than zeros preserves the input semantics the scorer
// was calibrated against.
func Vectorize(seq []trip.TelemetryPoint, targetLen int) ([][]float64, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("telemetry sequence is empty: %w", trip.ErrInvalidInput)
	}
	if targetLen <= 0 {
		return nil, fmt.Errorf("target length %d must be positive: %w", targetLen, trip.ErrInvalidInput)
	}

	matrix := make([][]float64, 0, targetLen)
	for i := 0; i < len(seq) && i < targetLen; i++ {
		matrix = append(matrix, FeatureRow(seq[i]))
	}
	last := FeatureRow(seq[len(seq)-1])
	for len(matrix) < targetLen {
		row := make([]float64, FeatureCount)
		copy(row, last)
		matrix = append(matrix, row)
	}

	if len(matrix) != targetLen {
		return nil, fmt.Errorf("feature matrix has %d rows, want %d: %w", len(matrix), targetLen, trip.ErrContractViolation)
	}
	return matrix, nil
}
