package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

// DefaultZoneCatalog maps zone names to posted limits in km/h.
func DefaultZoneCatalog() map[string]float64 {
	return map[string]float64{
		"residential": 30,
		"main_road":   60,
		"highway":     80,
	}
}

// ZonePlanner builds randomized sequences of speed-limit zones covering a
// trip's duration. It is pure given its random source, so plans are
// replayable from a seed.
type ZonePlanner struct {
	names  []string // sorted for deterministic selection
	limits map[string]float64

	// Per-segment duration range in whole seconds, inclusive.
	minSegmentSec int
	maxSegmentSec int
}

// NewZonePlanner validates the catalog and segment range and returns a
// planner. An empty catalog is an invalid input; a range with min > max or
// min < 1 is a configuration error.
func NewZonePlanner(catalog map[string]float64, minSegmentSec, maxSegmentSec int) (*ZonePlanner, error) {
	if len(catalog) == 0 {
		return nil, fmt.Errorf("zone catalog is empty: %w", trip.ErrInvalidInput)
	}
	if minSegmentSec < 1 {
		return nil, fmt.Errorf("segment duration min %d must be at least 1s: %w", minSegmentSec, trip.ErrConfiguration)
	}
	if minSegmentSec > maxSegmentSec {
		return nil, fmt.Errorf("segment duration range [%d,%d] has min > max: %w", minSegmentSec, maxSegmentSec, trip.ErrConfiguration)
	}

	names := make([]string, 0, len(catalog))
	limits := make(map[string]float64, len(catalog))
	for name, limit := range catalog {
		names = append(names, name)
		limits[name] = limit
	}
	sort.Strings(names)

	return &ZonePlanner{
		names:         names,
		limits:        limits,
		minSegmentSec: minSegmentSec,
		maxSegmentSec: maxSegmentSec,
	}, nil
}

// Plan returns ordered zone segments exactly covering [0, duration).
// Each segment's length is drawn uniformly from the configured range; the
// final segment is clipped to the remaining duration. Adjacent segments may
// carry the same limit.
func (p *ZonePlanner) Plan(duration float64, rng *rand.Rand) ([]trip.ZoneSegment, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("trip duration %v must be positive: %w", duration, trip.ErrInvalidInput)
	}

	var plan []trip.ZoneSegment
	current := 0.0
	for current < duration {
		name := p.names[rng.Intn(len(p.names))]
		segment := float64(p.minSegmentSec + rng.Intn(p.maxSegmentSec-p.minSegmentSec+1))

		end := current + segment
		if end > duration {
			end = duration
		}
		plan = append(plan, trip.ZoneSegment{
			Start: current,
			End:   end,
			Limit: p.limits[name],
		})
		current = end
	}
	return plan, nil
}
