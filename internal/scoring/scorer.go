// Package scoring wraps the external risk-scoring function. The trained
// model is an opaque numeric transform from this core's perspective: it
// receives a fixed-length feature matrix and returns a scalar in [0,1].
package scoring

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/NiranjanKaithota/InsurTech/internal/analysis"
	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

// Scorer is the scoring boundary. Implementations must be deterministic
// given identical input and free of side effects visible to this core.
type Scorer interface {
	Score(matrix [][]float64) (float64, error)
}

// validateMatrix rejects input the scoring contract does not cover.
func validateMatrix(matrix [][]float64) error {
	if len(matrix) == 0 {
		return fmt.Errorf("feature matrix is empty: %w", trip.ErrInvalidInput)
	}
	for i, row := range matrix {
		if len(row) != analysis.FeatureCount {
			return fmt.Errorf("feature matrix row %d has %d columns, want %d: %w",
				i, len(row), analysis.FeatureCount, trip.ErrContractViolation)
		}
	}
	return nil
}

// HeuristicScorer is a deterministic local baseline used when no trained
// model server is configured. It weighs the violation-rate columns of the
// raw (unscaled) feature matrix. It is not the trained model and its
// scores are only comparable to themselves.
type HeuristicScorer struct {
	HardBrakeThresholdMPS2  float64
	RapidAccelThresholdMPS2 float64
}

// NewHeuristicScorer returns a baseline scorer using the default
// explainability thresholds.
func NewHeuristicScorer() *HeuristicScorer {
	cfg := analysis.DefaultExplainerConfig()
	return &HeuristicScorer{
		HardBrakeThresholdMPS2:  cfg.HardBrakeThresholdMPS2,
		RapidAccelThresholdMPS2: cfg.RapidAccelThresholdMPS2,
	}
}

// Score combines the speeding fraction, harsh-input rates and acceleration
// dispersion into a score in [0,1].
func (h *HeuristicScorer) Score(matrix [][]float64) (float64, error) {
	if err := validateMatrix(matrix); err != nil {
		return 0, err
	}

	accels := make([]float64, len(matrix))
	speedingFlags := make([]float64, len(matrix))
	hardBrakes := 0
	rapidAccels := 0
	for i, row := range matrix {
		accels[i] = row[1]
		speedingFlags[i] = row[3]
		if row[1] < h.HardBrakeThresholdMPS2 {
			hardBrakes++
		}
		if row[1] > h.RapidAccelThresholdMPS2 {
			rapidAccels++
		}
	}

	n := float64(len(matrix))
	speedingFrac := stat.Mean(speedingFlags, nil)
	hardBrakeRate := float64(hardBrakes) / n
	rapidAccelRate := float64(rapidAccels) / n
	accelSpread := 0.0
	if len(accels) > 1 {
		accelSpread = stat.StdDev(accels, nil) / 5.0 // normalized against harsh driving
	}
	if accelSpread > 1 {
		accelSpread = 1
	}

	score := 0.5*speedingFrac + 1.5*hardBrakeRate + 1.0*rapidAccelRate + 0.35*accelSpread
	if score > 1 {
		score = 1
	}
	return score, nil
}
