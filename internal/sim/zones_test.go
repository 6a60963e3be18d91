package sim

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

func TestZonePlannerCoversDuration(t *testing.T) {
	t.Parallel()

	planner, err := NewZonePlanner(DefaultZoneCatalog(), 20, 40)
	require.NoError(t, err)

	durations := []float64{1, 19, 20, 37, 120, 360, 3600}
	for _, d := range durations {
		for seed := int64(0); seed < 20; seed++ {
			rng := rand.New(rand.NewSource(seed))
			plan, err := planner.Plan(d, rng)
			require.NoError(t, err)
			require.NotEmpty(t, plan)

			assert.Equal(t, 0.0, plan[0].Start, "first segment must start at 0")
			assert.Equal(t, d, plan[len(plan)-1].End, "last segment must end at duration")
			for i := 1; i < len(plan); i++ {
				assert.Equal(t, plan[i-1].End, plan[i].Start,
					"segments must be contiguous at index %d (duration %v seed %d)", i, d, seed)
			}
			for _, z := range plan {
				assert.Greater(t, z.End, z.Start, "segment must have positive length")
			}
		}
	}
}

func TestZonePlannerSegmentLengths(t *testing.T) {
	t.Parallel()

	planner, err := NewZonePlanner(DefaultZoneCatalog(), 20, 40)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	plan, err := planner.Plan(360, rng)
	require.NoError(t, err)

	// Every segment except the clipped final one stays within the range.
	for _, z := range plan[:len(plan)-1] {
		length := z.Duration()
		assert.GreaterOrEqual(t, length, 20.0)
		assert.LessOrEqual(t, length, 40.0)
	}
	assert.LessOrEqual(t, plan[len(plan)-1].Duration(), 40.0)
}

func TestZonePlannerDeterministic(t *testing.T) {
	t.Parallel()

	planner, err := NewZonePlanner(DefaultZoneCatalog(), 20, 40)
	require.NoError(t, err)

	a, err := planner.Plan(360, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := planner.Plan(360, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, a, b, "same seed must replay the same plan")
}

func TestZonePlannerLimitsComeFromCatalog(t *testing.T) {
	t.Parallel()

	catalog := DefaultZoneCatalog()
	planner, err := NewZonePlanner(catalog, 20, 40)
	require.NoError(t, err)

	valid := map[float64]bool{}
	for _, limit := range catalog {
		valid[limit] = true
	}

	plan, err := planner.Plan(600, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	for _, z := range plan {
		assert.True(t, valid[z.Limit], "limit %v not in catalog", z.Limit)
	}
}

func TestZonePlannerErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty catalog", func(t *testing.T) {
		_, err := NewZonePlanner(nil, 20, 40)
		require.Error(t, err)
		assert.True(t, errors.Is(err, trip.ErrInvalidInput))
	})

	t.Run("min greater than max", func(t *testing.T) {
		_, err := NewZonePlanner(DefaultZoneCatalog(), 40, 20)
		require.Error(t, err)
		assert.True(t, errors.Is(err, trip.ErrConfiguration))
	})

	t.Run("non-positive min", func(t *testing.T) {
		_, err := NewZonePlanner(DefaultZoneCatalog(), 0, 40)
		require.Error(t, err)
		assert.True(t, errors.Is(err, trip.ErrConfiguration))
	})

	t.Run("non-positive duration", func(t *testing.T) {
		planner, err := NewZonePlanner(DefaultZoneCatalog(), 20, 40)
		require.NoError(t, err)
		_, err = planner.Plan(0, rand.New(rand.NewSource(1)))
		require.Error(t, err)
		assert.True(t, errors.Is(err, trip.ErrInvalidInput))
	})
}
