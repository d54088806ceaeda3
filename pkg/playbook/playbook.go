// Package playbook turns a simulated prediction into a retention recommendation.
package playbook

import (
	"errors"

	"github.com/AccelByte/extend-churn-dashboard/pkg/explain"
	"github.com/AccelByte/extend-churn-dashboard/pkg/inference"
	"github.com/AccelByte/extend-churn-dashboard/pkg/profile"
	"github.com/shopspring/decimal"
)

const (
	TierPlatinum = "Platinum Asset"
	TierGrowth   = "Growth Tier"

	ActionPriorityContact = "Initiate 'Priority Contact' protocol. Assign to Senior Retention Lead for bespoke fee negotiation."
	ActionEngagementNudge = "Deploy 'Engagement Nudge' sequence. Trigger automated email with personalized insurance benefits."
)

// PlatinumBalance is the balance above which a member belongs to the platinum tier.
const PlatinumBalance = 100000

// RecoveryRate is the share of the exposure a successful intervention is expected to keep.
var RecoveryRate = decimal.NewFromFloat(0.4)

// ContextDrivers is how many leading drivers are quoted as technical context.
const ContextDrivers = 3

var ErrNoPrediction = errors.New("no prediction to build a playbook from")

// Playbook is the retention recommendation for one simulated member.
type Playbook struct {
	Tier             string           `json:"tier"`
	Action           string           `json:"action"`
	RiskLevel        string           `json:"riskLevel"`
	Score            float64          `json:"score"`
	Exposure         int64            `json:"exposure"`
	RecoverableAsset int64            `json:"recoverableAssets"`
	Context          []explain.Driver `json:"context"`
}

// Tier classifies a member by balance.
func Tier(p profile.MemberProfile) string {
	if p.Balance > PlatinumBalance {
		return TierPlatinum
	}
	return TierGrowth
}

// Build derives the playbook from the form profile, its prediction and ranked drivers.
func Build(p profile.MemberProfile, result *inference.PredictionResult, drivers []explain.Driver) (Playbook, error) {
	if result == nil {
		return Playbook{}, ErrNoPrediction
	}

	tier := Tier(p)
	action := ActionEngagementNudge
	if tier == TierPlatinum {
		action = ActionPriorityContact
	}

	return Playbook{
		Tier:             tier,
		Action:           action,
		RiskLevel:        result.RiskLevel,
		Score:            result.Score,
		Exposure:         result.RevenueImpact,
		RecoverableAsset: Recoverable(result.RevenueImpact),
		Context:          explain.TopContext(drivers, ContextDrivers),
	}, nil
}

// Recoverable is round(exposure * RecoveryRate), halves rounded up.
func Recoverable(exposure int64) int64 {
	return inference.RoundHalfUp(decimal.NewFromInt(exposure).Mul(RecoveryRate))
}
