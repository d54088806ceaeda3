package views

import (
	"context"

	"github.com/AccelByte/extend-churn-dashboard/pkg/backend"
	"github.com/shopspring/decimal"
)

// MembersPage backs the member overview and the KPI cards.
type MembersPage struct {
	Members []backend.Member         `json:"members"`
	Metrics backend.PortfolioMetrics `json:"metrics"`
	Offline bool                     `json:"offline"`
	Banner  string                   `json:"banner,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

// Members returns the member list. A failed fetch yields an empty page flagged offline,
// which stays until the view is reloaded.
func (d *Dashboard) Members(ctx context.Context) MembersPage {
	resp, err := d.members.Get(ctx)
	if err != nil || resp == nil {
		return MembersPage{
			Members: []backend.Member{},
			Offline: true,
			Banner:  d.fallback.OfflineBanner,
			Error:   errorText(err),
		}
	}

	page := MembersPage{Members: resp.Members}
	if page.Members == nil {
		page.Members = []backend.Member{}
	}
	if resp.Metrics != nil {
		page.Metrics = *resp.Metrics
	} else {
		page.Metrics = PortfolioKPIs(resp.Members)
	}
	return page
}

// PortfolioKPIs computes total AUM, value at risk and churn rate from member rows.
func PortfolioKPIs(members []backend.Member) backend.PortfolioMetrics {
	if len(members) == 0 {
		return backend.PortfolioMetrics{}
	}

	aum := decimal.Zero
	atRisk := decimal.Zero
	churned := decimal.Zero
	for _, m := range members {
		balance := decimal.NewFromFloat(m.Balance)
		churn := decimal.NewFromFloat(m.Churn)

		aum = aum.Add(balance)
		atRisk = atRisk.Add(balance.Mul(churn))
		churned = churned.Add(churn)
	}

	return backend.PortfolioMetrics{
		TotalAUM:  aum.InexactFloat64(),
		TotalVaR:  atRisk.InexactFloat64(),
		ChurnRate: churned.Div(decimal.NewFromInt(int64(len(members)))).InexactFloat64(),
	}
}
