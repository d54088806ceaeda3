package inference

import (
	"github.com/shopspring/decimal"
)

// Risk tiers derived from the churn score.
const (
	RiskStable        = "Stable"
	RiskElevated      = "Elevated"
	RiskHighAlert     = "High Alert"
	RiskServerOffline = "Server Offline"
)

const (
	// ElevatedThreshold is exclusive: a score of exactly 0.4 is still Stable.
	ElevatedThreshold = 0.4
	// HighAlertThreshold is exclusive: a score of exactly 0.7 is still Elevated.
	HighAlertThreshold = 0.7
)

// PredictionResult is the normalized outcome of one inference call.
type PredictionResult struct {
	Score         float64 `json:"score"`
	RiskLevel     string  `json:"riskLevel"`
	RevenueImpact int64   `json:"revenueImpact"`

	// Degraded is set when the backend answered but without a numeric score,
	// so Score fell back to 0. It is never set on the offline sentinel.
	Degraded bool `json:"degraded,omitempty"`
}

// Offline is the sentinel returned when the backend cannot be reached or its reply cannot be parsed.
func Offline() PredictionResult {
	return PredictionResult{
		Score:         0,
		RiskLevel:     RiskServerOffline,
		RevenueImpact: 0,
	}
}

// IsOffline reports whether r is the offline sentinel.
func (r PredictionResult) IsOffline() bool {
	return r.RiskLevel == RiskServerOffline
}

// NewResult derives the risk tier and AUM exposure for score on a member holding balance.
func NewResult(score, balance float64) PredictionResult {
	return PredictionResult{
		Score:         score,
		RiskLevel:     RiskLevel(score),
		RevenueImpact: Exposure(balance, score),
	}
}

// RiskLevel maps a score to its tier.
func RiskLevel(score float64) string {
	switch {
	case score > HighAlertThreshold:
		return RiskHighAlert
	case score > ElevatedThreshold:
		return RiskElevated
	default:
		return RiskStable
	}
}

var half = decimal.NewFromFloat(0.5)

// Exposure is round(balance * score), rounding halves towards positive infinity.
func Exposure(balance, score float64) int64 {
	return RoundHalfUp(decimal.NewFromFloat(balance).Mul(decimal.NewFromFloat(score)))
}

// RoundHalfUp rounds d to an integer the way Math.round does (floor(d + 0.5)).
func RoundHalfUp(d decimal.Decimal) int64 {
	return d.Add(half).Floor().IntPart()
}
