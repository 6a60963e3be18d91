package sim

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

func newTestSimulator(t *testing.T) *TripSimulator {
	t.Helper()
	planner, err := NewZonePlanner(DefaultZoneCatalog(), 20, 40)
	require.NoError(t, err)
	return NewTripSimulator(DefaultVehicle(), planner)
}

func TestSimulateProducesFixedTickCount(t *testing.T) {
	t.Parallel()

	s := newTestSimulator(t)
	profile := mustProfile(t, "cautious")

	tr, err := s.Simulate("safe_0", profile, 360, 1.0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Len(t, tr.Sequence, 360)
	assert.Equal(t, "safe_0", tr.ID)
	assert.Equal(t, "cautious", tr.Style)
	require.NotNil(t, tr.RiskLabel)
	assert.Equal(t, 0.1, *tr.RiskLabel)
}

func TestSimulateTickTimesStrictlyIncreasing(t *testing.T) {
	t.Parallel()

	s := newTestSimulator(t)
	tr, err := s.Simulate("", mustProfile(t, "aggressive"), 120, 1.0, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	assert.NotEmpty(t, tr.ID, "empty id gets a generated UUID")

	for i := 1; i < len(tr.Sequence); i++ {
		assert.Equal(t, tr.Sequence[i-1].Time+1.0, tr.Sequence[i].Time,
			"tick times must advance by the fixed interval at index %d", i)
	}
}

func TestSimulateDeterministicForSeed(t *testing.T) {
	t.Parallel()

	s := newTestSimulator(t)
	profile := mustProfile(t, "aggressive")

	a, err := s.Simulate("x", profile, 360, 1.0, rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	b, err := s.Simulate("x", profile, 360, 1.0, rand.New(rand.NewSource(99)))
	require.NoError(t, err)

	assert.Equal(t, a.Plan, b.Plan)
	assert.Equal(t, a.Sequence, b.Sequence)
}

func TestSimulateTelemetryInvariants(t *testing.T) {
	t.Parallel()

	s := newTestSimulator(t)
	tr, err := s.Simulate("", mustProfile(t, "aggressive"), 360, 1.0, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	for i, p := range tr.Sequence {
		assert.GreaterOrEqual(t, p.Speed, 0.0, "tick %d", i)
		assert.GreaterOrEqual(t, p.Throttle, 0.0, "tick %d", i)
		assert.LessOrEqual(t, p.Throttle, 1.0, "tick %d", i)
		assert.GreaterOrEqual(t, p.Brake, 0.0, "tick %d", i)
		assert.LessOrEqual(t, p.Brake, 1.0, "tick %d", i)
		assert.Equal(t, tr.LimitAt(p.Time), p.SpeedLimit, "tick %d", i)

		wantSpeeding := 0
		if p.Speed > p.SpeedLimit+SpeedingMarginKMH {
			wantSpeeding = 1
		}
		assert.Equal(t, wantSpeeding, p.IsSpeeding, "tick %d", i)
	}
}

func TestSimulateCautiousRarelySpeeds(t *testing.T) {
	t.Parallel()

	// Statistical property across many seeds: a cautious driver targeting
	// 95% of the limit should almost never trip the speeding margin.
	s := newTestSimulator(t)
	profile := mustProfile(t, "cautious")

	totalTicks := 0
	speedingTicks := 0
	for seed := int64(0); seed < 30; seed++ {
		tr, err := s.Simulate("", profile, 360, 1.0, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		for _, p := range tr.Sequence {
			totalTicks++
			if p.IsSpeeding == 1 {
				speedingTicks++
			}
		}
	}

	fraction := float64(speedingTicks) / float64(totalTicks)
	assert.Less(t, fraction, 0.05, "cautious speeding fraction %v too high", fraction)
}

func TestSimulateAggressiveSpeedsSometimes(t *testing.T) {
	t.Parallel()

	s := newTestSimulator(t)
	profile := mustProfile(t, "aggressive")

	speedingTicks := 0
	for seed := int64(0); seed < 10; seed++ {
		tr, err := s.Simulate("", profile, 360, 1.0, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		for _, p := range tr.Sequence {
			speedingTicks += p.IsSpeeding
		}
	}
	assert.Greater(t, speedingTicks, 0, "aggressive profile targeting 125%% of the limit must speed")
}

func TestSimulateInputErrors(t *testing.T) {
	t.Parallel()

	s := newTestSimulator(t)
	profile := mustProfile(t, "cautious")
	rng := rand.New(rand.NewSource(1))

	t.Run("non-positive duration", func(t *testing.T) {
		_, err := s.Simulate("", profile, 0, 1.0, rng)
		assert.True(t, errors.Is(err, trip.ErrInvalidInput))
	})

	t.Run("non-positive tick", func(t *testing.T) {
		_, err := s.Simulate("", profile, 360, 0, rng)
		assert.True(t, errors.Is(err, trip.ErrInvalidInput))
	})

	t.Run("invalid profile", func(t *testing.T) {
		_, err := s.Simulate("", DriverProfile{Name: "bad"}, 360, 1.0, rng)
		assert.Error(t, err)
	})
}

func TestProfileLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profiles.json")
	payload := `[{
		"name": "night_shift",
		"bias_mode": "additive",
		"target_bias": -5,
		"throttle_gain": 0.5,
		"brake_gain": 0.4,
		"strategy": "direct",
		"jitter_probability": 0.01,
		"jitter_magnitude": 0.02,
		"risk_label": 0.2
	}]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	r := NewProfileRegistry()
	require.NoError(t, r.LoadFile(path))

	p, err := r.Get("night_shift")
	require.NoError(t, err)
	assert.Equal(t, BiasAdditive, p.BiasMode)
	assert.Equal(t, -5.0, p.TargetBias)

	// The loaded style is immediately simulatable.
	s := newTestSimulator(t)
	tr, err := s.Simulate("", p, 60, 1.0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Len(t, tr.Sequence, 60)
}
