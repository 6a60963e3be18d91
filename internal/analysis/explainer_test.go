package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

func newExplainer(t *testing.T) *EventExplainer {
	t.Helper()
	e, err := NewEventExplainer(DefaultExplainerConfig())
	require.NoError(t, err)
	return e
}

// flatTrip builds a trip with one constant-limit zone and a point per tick.
func flatTrip(limit float64, n int) *trip.Trip {
	tr := &trip.Trip{
		ID:   "t",
		Plan: []trip.ZoneSegment{{Start: 0, End: float64(n), Limit: limit}},
	}
	for i := 0; i < n; i++ {
		tr.Sequence = append(tr.Sequence, trip.TelemetryPoint{
			Time:       float64(i),
			Speed:      limit,
			SpeedLimit: limit,
		})
	}
	return tr
}

func TestExplainCleanTripHasNoEvents(t *testing.T) {
	t.Parallel()

	events := newExplainer(t).Explain(flatTrip(60, 120))
	assert.Empty(t, events)
}

func TestExplainSpeedingDetected(t *testing.T) {
	t.Parallel()

	tr := flatTrip(30, 40)
	// Above limit+buffer from tick 0; decimation keeps ticks 0, 10, 20, 30.
	for i := range tr.Sequence {
		tr.Sequence[i].Speed = 38 // delta 8 > buffer 5
	}

	events := newExplainer(t).Explain(tr)
	require.Len(t, events, 4)
	for _, ev := range events {
		assert.Equal(t, EventSpeeding, ev.Type)
		assert.Equal(t, SeverityModerate, ev.Severity)
		assert.Equal(t, "38 km/h (Limit: 30)", ev.Value)
	}
	assert.Equal(t, []float64{0, 10, 20, 30}, []float64{events[0].Time, events[1].Time, events[2].Time, events[3].Time})
}

func TestExplainSeverityThreshold(t *testing.T) {
	t.Parallel()

	t.Run("delta 20 is high", func(t *testing.T) {
		tr := flatTrip(30, 1)
		tr.Sequence[0].Speed = 50
		events := newExplainer(t).Explain(tr)
		require.Len(t, events, 1)
		assert.Equal(t, SeverityHigh, events[0].Severity)
	})

	t.Run("delta 8 is moderate", func(t *testing.T) {
		tr := flatTrip(30, 1)
		tr.Sequence[0].Speed = 38
		events := newExplainer(t).Explain(tr)
		require.Len(t, events, 1)
		assert.Equal(t, SeverityModerate, events[0].Severity)
	})
}

func TestExplainGracePeriod(t *testing.T) {
	t.Parallel()

	// Limit drops 60 -> 30 at t=100. Inside the 5s grace window an actively
	// braking driver is forgiven; once the window expires the same state is
	// flagged.
	const drop = 100.0
	build := func(speedAt, accelAt float64, at float64) *trip.Trip {
		tr := &trip.Trip{
			ID: "grace",
			Plan: []trip.ZoneSegment{
				{Start: 0, End: drop, Limit: 60},
				{Start: drop, End: 120, Limit: 30},
			},
		}
		for i := 0; i < 120; i++ {
			ts := float64(i)
			p := trip.TelemetryPoint{Time: ts, Speed: 55, SpeedLimit: tr.LimitAt(ts)}
			if ts == at {
				p.Speed = speedAt
				p.Acceleration = accelAt
			} else if ts >= drop {
				// keep the rest of the slow zone legal so the probe tick is
				// the only candidate
				p.Speed = 30
			}
			tr.Sequence = append(tr.Sequence, p)
		}
		return tr
	}

	t.Run("braking inside grace window is forgiven", func(t *testing.T) {
		tr := build(65, -1.0, 101)
		for _, ev := range newExplainer(t).Explain(tr) {
			assert.NotEqual(t, 101.0, ev.Time, "tick inside grace window must not flag")
		}
	})

	t.Run("coasting inside grace window is flagged", func(t *testing.T) {
		// t=100 is a sampled tick index (decimation 10).
		tr := build(65, 0.0, 100)
		events := newExplainer(t).Explain(tr)
		require.NotEmpty(t, events)
		found := false
		for _, ev := range events {
			if ev.Time == 100.0 && ev.Type == EventSpeeding {
				found = true
			}
		}
		assert.True(t, found, "non-decelerating speeder inside grace window must flag")
	})

	t.Run("after grace expiry braking no longer forgives", func(t *testing.T) {
		// Same speed and deceleration at t=106, outside the window ending
		// at 105. t=106 is not a sampled index, so confirm via a config
		// with decimation 1 to separate the grace rule from sampling.
		cfg := DefaultExplainerConfig()
		cfg.DecimationFactor = 1
		e, err := NewEventExplainer(cfg)
		require.NoError(t, err)

		tr := build(65, -1.0, 106)
		events := e.Explain(tr)
		found := false
		for _, ev := range events {
			if ev.Time == 106.0 && ev.Type == EventSpeeding {
				found = true
			}
		}
		assert.True(t, found, "grace expired: candidate must flag")
	})

	t.Run("default sampling drops the off-index tick", func(t *testing.T) {
		tr := build(65, -1.0, 106)
		for _, ev := range newExplainer(t).Explain(tr) {
			assert.NotEqual(t, 106.0, ev.Time,
				"tick 106 is not a multiple of the decimation factor")
		}
	})
}

func TestExplainHardBrake(t *testing.T) {
	t.Parallel()

	tr := flatTrip(60, 30)
	tr.Sequence[10].Acceleration = -4.5 // below -3.0, on a sampled index

	events := newExplainer(t).Explain(tr)
	require.Len(t, events, 1)
	assert.Equal(t, EventHardBrake, events[0].Type)
	assert.Equal(t, SeverityHigh, events[0].Severity)
	assert.Equal(t, "-4.50 m/s²", events[0].Value)
}

func TestExplainRapidAccel(t *testing.T) {
	t.Parallel()

	tr := flatTrip(60, 30)
	tr.Sequence[20].Acceleration = 4.0 // above 3.5, on a sampled index

	events := newExplainer(t).Explain(tr)
	require.Len(t, events, 1)
	assert.Equal(t, EventRapidAccel, events[0].Type)
	assert.Equal(t, SeverityModerate, events[0].Severity)
}

func TestExplainPriorityOrder(t *testing.T) {
	t.Parallel()

	// A tick that is simultaneously speeding and hard braking reports only
	// the speeding event: first match wins.
	tr := flatTrip(30, 1)
	tr.Sequence[0].Speed = 50
	tr.Sequence[0].Acceleration = -6.0

	events := newExplainer(t).Explain(tr)
	require.Len(t, events, 1)
	assert.Equal(t, EventSpeeding, events[0].Type)
}

func TestExplainForgivenSpeedingConsumesTick(t *testing.T) {
	t.Parallel()

	// Inside the grace window a forgiven speeding candidate still occupies
	// the priority slot: the simultaneous hard brake is not reported.
	tr := &trip.Trip{
		ID: "consume",
		Plan: []trip.ZoneSegment{
			{Start: 0, End: 10, Limit: 60},
			{Start: 10, End: 30, Limit: 30},
		},
	}
	for i := 0; i < 30; i++ {
		ts := float64(i)
		p := trip.TelemetryPoint{Time: ts, Speed: 25, SpeedLimit: tr.LimitAt(ts)}
		if i == 10 {
			// Above 30+5 inside the grace window, and simultaneously a
			// hard brake.
			p.Speed = 55
			p.Acceleration = -4.0
		}
		tr.Sequence = append(tr.Sequence, p)
	}

	events := newExplainer(t).Explain(tr)
	assert.Empty(t, events, "forgiven candidate must consume the tick entirely")
}

func TestExplainDecimationBoundsVolume(t *testing.T) {
	t.Parallel()

	tr := flatTrip(30, 200)
	for i := range tr.Sequence {
		tr.Sequence[i].Speed = 60
	}

	events := newExplainer(t).Explain(tr)
	assert.Len(t, events, 20, "200 violating ticks decimated by 10")
}

func TestExplainIdempotent(t *testing.T) {
	t.Parallel()

	tr := flatTrip(30, 100)
	for i := range tr.Sequence {
		tr.Sequence[i].Speed = 48
		if i%7 == 0 {
			tr.Sequence[i].Acceleration = -5
		}
	}

	e := newExplainer(t)
	first := e.Explain(tr)
	second := e.Explain(tr)
	assert.Equal(t, first, second, "no state may survive between passes")
}

func TestExplainEmptySequence(t *testing.T) {
	t.Parallel()

	events := newExplainer(t).Explain(&trip.Trip{ID: "empty"})
	assert.Empty(t, events)
}

func TestExplainerConfigValidation(t *testing.T) {
	t.Parallel()

	t.Run("zero decimation", func(t *testing.T) {
		cfg := DefaultExplainerConfig()
		cfg.DecimationFactor = 0
		_, err := NewEventExplainer(cfg)
		assert.True(t, errors.Is(err, trip.ErrConfiguration))
	})

	t.Run("negative grace", func(t *testing.T) {
		cfg := DefaultExplainerConfig()
		cfg.GraceDurationSec = -1
		_, err := NewEventExplainer(cfg)
		assert.True(t, errors.Is(err, trip.ErrConfiguration))
	})
}

func TestSummary(t *testing.T) {
	t.Parallel()

	events := []RiskEvent{
		{Type: EventSpeeding},
		{Type: EventSpeeding},
		{Type: EventHardBrake},
	}
	counts := Summary(events)
	assert.Equal(t, 2, counts[EventSpeeding])
	assert.Equal(t, 1, counts[EventHardBrake])
	assert.Equal(t, 0, counts[EventRapidAccel])
}
