package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/AccelByte/extend-churn-dashboard/pkg/backend"
	"github.com/AccelByte/extend-churn-dashboard/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// View names as exposed by the dashboard API.
const (
	NameMembers      = "members"
	NameLedger       = "ledger"
	NameSegmentation = "segmentation"
	NameAudit        = "audit"
	NameInsights     = "insights"
)

// DefaultLedgerLimit caps ledger search results.
const DefaultLedgerLimit = 100

var (
	ErrUnknownView    = errors.New("unknown view")
	ErrMemberNotFound = errors.New("member not found")
)

// Backend is the subset of the analytics backend the views read.
type Backend interface {
	Members(ctx context.Context) (*backend.MembersResponse, error)
	MemberLedger(ctx context.Context) ([]backend.Member, error)
	Audit(ctx context.Context) (*backend.AuditReport, error)
	ModelInsights(ctx context.Context) (*backend.ModelInsights, error)
	Segmentation(ctx context.Context) ([]backend.SegmentPoint, error)
}

type Config struct {
	// LedgerLimit caps ledger search results. Zero means DefaultLedgerLimit.
	LedgerLimit int
}

// Dashboard holds one independent view per backend resource. Views share no cache.
type Dashboard struct {
	fallback *Fallback
	cfg      Config

	members      *View[*backend.MembersResponse]
	ledger       *View[[]backend.Member]
	segmentation *View[[]backend.SegmentPoint]
	audit        *View[*backend.AuditReport]
	insights     *View[*backend.ModelInsights]
}

// NewDashboard creates the data-fetch views. Nothing is fetched until a view is first read.
func NewDashboard(src Backend, fallback *Fallback, cfg Config) *Dashboard {
	if cfg.LedgerLimit <= 0 {
		cfg.LedgerLimit = DefaultLedgerLimit
	}

	return &Dashboard{
		fallback:     fallback,
		cfg:          cfg,
		members:      NewView[*backend.MembersResponse](src.Members),
		ledger:       NewView[[]backend.Member](src.MemberLedger),
		segmentation: NewView[[]backend.SegmentPoint](src.Segmentation),
		audit:        NewView[*backend.AuditReport](src.Audit),
		insights:     NewView[*backend.ModelInsights](src.ModelInsights),
	}
}

// Fallback returns the static display data.
func (d *Dashboard) Fallback() *Fallback {
	return d.fallback
}

// Names lists every reloadable view.
func Names() []string {
	return []string{NameMembers, NameLedger, NameSegmentation, NameAudit, NameInsights}
}

// Reload re-fetches the named view. Fetch failures are held by the view, not returned.
func (d *Dashboard) Reload(ctx context.Context, name string) error {
	var err error
	switch name {
	case NameMembers:
		_, err = d.members.Reload(ctx)
	case NameLedger:
		_, err = d.ledger.Reload(ctx)
	case NameSegmentation:
		_, err = d.segmentation.Reload(ctx)
	case NameAudit:
		_, err = d.audit.Reload(ctx)
	case NameInsights:
		_, err = d.insights.Reload(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownView, name)
	}

	if err != nil {
		logrus.Warnf("reload of %s view failed: %v", name, err)
	} else {
		logrus.Infof("reloaded %s view", name)
	}
	return nil
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func recordFallback(resource string) {
	metrics.BackendFetchesTotal.WithLabelValues(resource, metrics.OutcomeFallback).Inc()
}
