package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiranjanKaithota/InsurTech/internal/analysis"
	"github.com/NiranjanKaithota/InsurTech/internal/httputil"
	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

// row builds a feature row [speed, accel, limit, is_speeding, throttle, brake].
func row(speed, accel, limit, speeding, throttle, brake float64) []float64 {
	return []float64{speed, accel, limit, speeding, throttle, brake}
}

func smoothMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = row(55, 0.1, 60, 0, 0.3, 0)
	}
	return m
}

func riskyMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		switch i % 3 {
		case 0:
			m[i] = row(80, 3.8, 60, 1, 1, 0)
		case 1:
			m[i] = row(75, -4.2, 60, 1, 0, 1)
		default:
			m[i] = row(70, 0.5, 60, 1, 0.6, 0)
		}
	}
	return m
}

// brakingMatrix alternates hard braking with recovery surges, the pattern
// of a tailgater in stop-and-go traffic.
func brakingMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		if i%2 == 0 {
			m[i] = row(70, -6, 60, 1, 0, 1)
		} else {
			m[i] = row(50, 2, 60, 0, 0.8, 0)
		}
	}
	return m
}

func TestHeuristicScorerOrdersStyles(t *testing.T) {
	t.Parallel()

	s := NewHeuristicScorer()

	smooth, err := s.Score(smoothMatrix(360))
	require.NoError(t, err)
	risky, err := s.Score(riskyMatrix(360))
	require.NoError(t, err)

	assert.Less(t, smooth, 0.3, "compliant telemetry must score in the safe band")
	assert.Greater(t, risky, smooth, "risky telemetry must outscore smooth telemetry")
	assert.LessOrEqual(t, risky, 1.0)
}

// The brake/accel thresholds are in m/s², so the scorer only works on raw
// physical values. Min-max scaling squashes every acceleration into [0,1],
// which silently erases each violation; guard both sides of that contract.
func TestHeuristicScorerThresholdsRawUnits(t *testing.T) {
	t.Parallel()

	s := NewHeuristicScorer()
	raw := brakingMatrix(120)

	score, err := s.Score(raw)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 0.7, "a braking-heavy trip must land in the high-risk band")

	scaler, err := analysis.FitScaler([][][]float64{raw})
	require.NoError(t, err)
	scaled, err := scaler.Transform(raw)
	require.NoError(t, err)

	scaledScore, err := s.Score(scaled)
	require.NoError(t, err)
	assert.Less(t, scaledScore, score, "normalized input hides every braking violation from the thresholds")
}

func TestHeuristicScorerDeterministic(t *testing.T) {
	t.Parallel()

	s := NewHeuristicScorer()
	m := riskyMatrix(360)

	a, err := s.Score(m)
	require.NoError(t, err)
	b, err := s.Score(m)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHeuristicScorerBounds(t *testing.T) {
	t.Parallel()

	// Saturated violations still clamp at 1.
	s := NewHeuristicScorer()
	m := make([][]float64, 100)
	for i := range m {
		m[i] = row(120, -8, 30, 1, 0, 1)
	}
	score, err := s.Score(m)
	require.NoError(t, err)
	assert.LessOrEqual(t, score, 1.0)
	assert.GreaterOrEqual(t, score, 0.0)
}

func TestScorerInputValidation(t *testing.T) {
	t.Parallel()

	s := NewHeuristicScorer()

	t.Run("empty matrix", func(t *testing.T) {
		_, err := s.Score(nil)
		assert.True(t, errors.Is(err, trip.ErrInvalidInput))
	})

	t.Run("ragged row", func(t *testing.T) {
		_, err := s.Score([][]float64{{1, 2, 3}})
		assert.True(t, errors.Is(err, trip.ErrContractViolation))
	})
}

func TestRemoteScorer(t *testing.T) {
	t.Parallel()

	t.Run("posts features and returns score", func(t *testing.T) {
		mock := httputil.NewMockHTTPClient()
		mock.AddResponse(200, `{"score": 0.42}`)

		s := NewRemoteScorer("http://model-server/api/score", mock, nil)
		score, err := s.Score(smoothMatrix(10))
		require.NoError(t, err)
		assert.Equal(t, 0.42, score)

		require.Equal(t, 1, mock.RequestCount())
		req := mock.GetRequest(0)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	})

	t.Run("applies the fitted scaler before posting", func(t *testing.T) {
		mock := httputil.NewMockHTTPClient()
		mock.AddResponse(200, `{"score": 0.9}`)

		matrix := brakingMatrix(20)
		scaler, err := analysis.FitScaler([][][]float64{matrix})
		require.NoError(t, err)

		s := NewRemoteScorer("http://model-server/api/score", mock, scaler)
		score, err := s.Score(matrix)
		require.NoError(t, err)
		assert.Equal(t, 0.9, score)

		var posted struct {
			Features [][]float64 `json:"features"`
		}
		require.NoError(t, json.Unmarshal(mock.RequestBody(0), &posted))
		require.Len(t, posted.Features, len(matrix))
		for _, r := range posted.Features {
			for _, v := range r {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		}
	})

	t.Run("nil scaler posts raw features", func(t *testing.T) {
		mock := httputil.NewMockHTTPClient()
		mock.AddResponse(200, `{"score": 0.5}`)

		matrix := brakingMatrix(4)
		s := NewRemoteScorer("http://model-server/api/score", mock, nil)
		_, err := s.Score(matrix)
		require.NoError(t, err)

		var posted struct {
			Features [][]float64 `json:"features"`
		}
		require.NoError(t, json.Unmarshal(mock.RequestBody(0), &posted))
		assert.Equal(t, matrix, posted.Features)
	})

	t.Run("transport error surfaces", func(t *testing.T) {
		mock := httputil.NewMockHTTPClient()
		mock.AddErrorResponse(fmt.Errorf("connection refused"))

		s := NewRemoteScorer("http://model-server/api/score", mock, nil)
		_, err := s.Score(smoothMatrix(10))
		assert.Error(t, err)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		mock := httputil.NewMockHTTPClient()
		mock.AddResponse(500, "model not loaded")

		s := NewRemoteScorer("http://model-server/api/score", mock, nil)
		_, err := s.Score(smoothMatrix(10))
		assert.Error(t, err)
	})

	t.Run("out-of-range score is a contract violation", func(t *testing.T) {
		mock := httputil.NewMockHTTPClient()
		mock.AddResponse(200, `{"score": 1.7}`)

		s := NewRemoteScorer("http://model-server/api/score", mock, nil)
		_, err := s.Score(smoothMatrix(10))
		require.Error(t, err)
		assert.True(t, errors.Is(err, trip.ErrContractViolation))
	})

	t.Run("malformed body", func(t *testing.T) {
		mock := httputil.NewMockHTTPClient()
		mock.AddResponse(200, `not json`)

		s := NewRemoteScorer("http://model-server/api/score", mock, nil)
		_, err := s.Score(smoothMatrix(10))
		assert.Error(t, err)
	})
}
