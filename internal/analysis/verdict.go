package analysis

import (
	"fmt"

	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

// Verdict categorizes a risk score.
type Verdict string

const (
	VerdictSafe     Verdict = "SAFE"
	VerdictModerate Verdict = "MODERATE"
	VerdictHighRisk Verdict = "HIGH RISK"
)

// Score thresholds separating the verdict bands.
const (
	safeScoreCeiling     = 0.3
	moderateScoreCeiling = 0.7
)

// RiskVerdict maps a score to its category and the recommended premium
// action.
type RiskVerdict struct {
	Score         float64 `json:"score"`
	Verdict       Verdict `json:"verdict"`
	PremiumAction string  `json:"premium_action"`
}

// Assess converts a scalar risk score into a verdict. Scores outside
// [0,1] indicate a bug upstream and are reported as contract violations
// rather than clamped.
func Assess(score float64) (RiskVerdict, error) {
	if score < 0 || score > 1 {
		return RiskVerdict{}, fmt.Errorf("risk score %v outside [0,1]: %w", score, trip.ErrContractViolation)
	}

	v := RiskVerdict{Score: score}
	switch {
	case score < safeScoreCeiling:
		v.Verdict = VerdictSafe
		v.PremiumAction = "Discount Applied: -15%"
	case score < moderateScoreCeiling:
		v.Verdict = VerdictModerate
		v.PremiumAction = "Standard Premium"
	default:
		v.Verdict = VerdictHighRisk
		v.PremiumAction = "Premium Hike: +20%"
	}
	return v, nil
}
