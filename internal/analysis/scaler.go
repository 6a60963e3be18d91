package analysis

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

// MinMaxScaler rescales each feature column to [0,1] using extrema learned
// from a training corpus. It is the Go counterpart of the pickled scaler
// the model-training pipeline exports: both sides must apply the same
// normalization or scores are meaningless.
type MinMaxScaler struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

// FitScaler learns per-column extrema across a set of feature matrices.
func FitScaler(matrices [][][]float64) (*MinMaxScaler, error) {
	if len(matrices) == 0 {
		return nil, fmt.Errorf("no matrices to fit scaler on: %w", trip.ErrInvalidInput)
	}

	s := &MinMaxScaler{
		Min: make([]float64, FeatureCount),
		Max: make([]float64, FeatureCount),
	}
	first := true
	for _, m := range matrices {
		for _, row := range m {
			if len(row) != FeatureCount {
				return nil, fmt.Errorf("row has %d features, want %d: %w", len(row), FeatureCount, trip.ErrContractViolation)
			}
			for c, v := range row {
				if first || v < s.Min[c] {
					s.Min[c] = v
				}
				if first || v > s.Max[c] {
					s.Max[c] = v
				}
			}
			first = false
		}
	}
	if first {
		return nil, fmt.Errorf("matrices contain no rows: %w", trip.ErrInvalidInput)
	}
	return s, nil
}

// Transform returns a scaled copy of the matrix. Columns that were
// constant during fitting map to 0. Values outside the fitted range are
// not clipped, matching the training pipeline's behaviour on unseen data.
func (s *MinMaxScaler) Transform(matrix [][]float64) ([][]float64, error) {
	out := make([][]float64, len(matrix))
	for r, row := range matrix {
		if len(row) != FeatureCount {
			return nil, fmt.Errorf("row %d has %d features, want %d: %w", r, len(row), FeatureCount, trip.ErrContractViolation)
		}
		scaled := make([]float64, FeatureCount)
		for c, v := range row {
			span := s.Max[c] - s.Min[c]
			if span > 0 {
				scaled[c] = (v - s.Min[c]) / span
			}
		}
		out[r] = scaled
	}
	return out, nil
}

// SaveFile writes the fitted extrema as JSON.
func (s *MinMaxScaler) SaveFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scaler: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scaler file: %w", err)
	}
	return nil
}

// LoadScaler reads a fitted scaler from a JSON file.
func LoadScaler(path string) (*MinMaxScaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scaler file: %w", err)
	}
	var s MinMaxScaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scaler file: %w", err)
	}
	if len(s.Min) != FeatureCount || len(s.Max) != FeatureCount {
		return nil, fmt.Errorf("scaler has %d/%d columns, want %d: %w", len(s.Min), len(s.Max), FeatureCount, trip.ErrContractViolation)
	}
	return &s, nil
}
