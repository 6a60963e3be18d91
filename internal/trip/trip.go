// Package trip defines the telemetry data model shared by the simulator,
// the analysis pipeline, and the persistence layer.
//
// The JSON field names below are the interchange contract with the trip
// capture tooling and the model-training pipeline. They must not change.
package trip

// ZoneSegment is one contiguous stretch of a trip carrying a constant
// posted speed limit. Segments are ordered, non-overlapping and together
// cover [0, duration) exactly.
type ZoneSegment struct {
	Start float64 `json:"start"` // seconds from trip start, inclusive
	End   float64 `json:"end"`   // seconds from trip start, exclusive
	Limit float64 `json:"limit"` // posted limit in km/h
}

// Contains reports whether t falls inside the segment.
func (z ZoneSegment) Contains(t float64) bool {
	return z.Start <= t && t < z.End
}

// Duration returns the segment length in seconds.
func (z ZoneSegment) Duration() float64 {
	return z.End - z.Start
}

// TelemetryPoint is one simulated or captured tick of vehicle state.
// Speed and SpeedLimit are km/h; Acceleration is m/s².
type TelemetryPoint struct {
	Time         float64 `json:"time"`
	Speed        float64 `json:"speed"`
	Acceleration float64 `json:"acceleration"`
	SpeedLimit   float64 `json:"speed_limit"`
	IsSpeeding   int     `json:"is_speeding"` // 0 or 1, a model input feature
	Throttle     float64 `json:"throttle"`    // [0,1]
	Brake        float64 `json:"brake"`       // [0,1]
}

// Trip is a complete telemetry recording. RiskLabel is the ground-truth
// label for synthetic trips and nil for captured trips pending scoring.
// A Trip is immutable once produced; analysis passes never modify it.
type Trip struct {
	ID        string           `json:"trip_id"`
	Style     string           `json:"style"`
	RiskLabel *float64         `json:"risk_label"`
	Plan      []ZoneSegment    `json:"trip_plan"`
	Sequence  []TelemetryPoint `json:"sequence"`
}

// LimitAt returns the posted limit active at time t. Times beyond the last
// segment fall through to the final segment's limit, matching how captured
// trips can run a fraction of a tick past their plan.
func (tr *Trip) LimitAt(t float64) float64 {
	for _, z := range tr.Plan {
		if z.Contains(t) {
			return z.Limit
		}
	}
	if len(tr.Plan) == 0 {
		return 0
	}
	return tr.Plan[len(tr.Plan)-1].Limit
}

// Duration returns the planned trip duration in seconds.
func (tr *Trip) Duration() float64 {
	if len(tr.Plan) == 0 {
		return 0
	}
	return tr.Plan[len(tr.Plan)-1].End
}
