package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/AccelByte/extend-churn-dashboard/pkg/backend"
)

// LedgerPage is one ledger search result.
type LedgerPage struct {
	Query   string           `json:"query"`
	Results []backend.Member `json:"results"`
	Matched int              `json:"matched"`
	Error   string           `json:"error,omitempty"`
}

// LedgerDetail is the selected member with its retention status and behavioral persona.
type LedgerDetail struct {
	Member  backend.Member `json:"member"`
	Persona string         `json:"persona"`
	LedgerNote
}

// Ledger searches members by case-insensitive name or ID substring.
// An empty query matches everyone. Results are capped at the configured limit.
func (d *Dashboard) Ledger(ctx context.Context, query string) LedgerPage {
	members, err := d.ledger.Get(ctx)

	matched := SearchMembers(members, query)
	page := LedgerPage{
		Query:   query,
		Matched: len(matched),
		Results: matched,
		Error:   errorText(err),
	}
	if len(page.Results) > d.cfg.LedgerLimit {
		page.Results = page.Results[:d.cfg.LedgerLimit]
	}
	return page
}

// LedgerDetail returns the member with the given ID.
func (d *Dashboard) LedgerDetail(ctx context.Context, id string) (LedgerDetail, error) {
	members, err := d.ledger.Get(ctx)
	if err != nil {
		return LedgerDetail{}, fmt.Errorf("%w: %s (%v)", ErrMemberNotFound, id, err)
	}

	for _, m := range members {
		if string(m.ID) == id {
			return LedgerDetail{
				Member:     m,
				Persona:    d.fallback.Persona(int(m.Cluster)),
				LedgerNote: d.noteFor(m),
			}, nil
		}
	}
	return LedgerDetail{}, fmt.Errorf("%w: %s", ErrMemberNotFound, id)
}

func (d *Dashboard) noteFor(m backend.Member) LedgerNote {
	if m.Churn == 1 {
		return d.fallback.Ledger.HighRisk
	}
	return d.fallback.Ledger.Stable
}

// SearchMembers filters members whose lowercased name contains the lowercased query,
// or whose ID contains the query as typed.
func SearchMembers(members []backend.Member, query string) []backend.Member {
	needle := strings.ToLower(query)

	out := make([]backend.Member, 0, len(members))
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Name), needle) || strings.Contains(string(m.ID), query) {
			out = append(out, m)
		}
	}
	return out
}
