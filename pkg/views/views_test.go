package views

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/AccelByte/extend-churn-dashboard/pkg/backend"
)

// fakeBackend serves canned data and counts fetches per resource.
type fakeBackend struct {
	members  *backend.MembersResponse
	ledger   []backend.Member
	audit    *backend.AuditReport
	insights *backend.ModelInsights
	points   []backend.SegmentPoint
	err      error
	calls    map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: map[string]int{}}
}

func (f *fakeBackend) Members(context.Context) (*backend.MembersResponse, error) {
	f.calls[NameMembers]++
	return f.members, f.err
}

func (f *fakeBackend) MemberLedger(context.Context) ([]backend.Member, error) {
	f.calls[NameLedger]++
	return f.ledger, f.err
}

func (f *fakeBackend) Audit(context.Context) (*backend.AuditReport, error) {
	f.calls[NameAudit]++
	return f.audit, f.err
}

func (f *fakeBackend) ModelInsights(context.Context) (*backend.ModelInsights, error) {
	f.calls[NameInsights]++
	return f.insights, f.err
}

func (f *fakeBackend) Segmentation(context.Context) ([]backend.SegmentPoint, error) {
	f.calls[NameSegmentation]++
	return f.points, f.err
}

func mustFallback(t *testing.T) *Fallback {
	t.Helper()

	fb, err := LoadFallback("")
	if err != nil {
		t.Fatalf("LoadFallback() error = %v", err)
	}
	return fb
}

func TestMembers_FetchOnceAndReconnect(t *testing.T) {
	src := newFakeBackend()
	src.err = backend.ErrUnavailable
	d := NewDashboard(src, mustFallback(t), Config{})
	ctx := context.Background()

	page := d.Members(ctx)
	if !page.Offline || page.Banner != "Inference server offline. Check Render deployment." {
		t.Errorf("offline page = %+v", page)
	}
	if len(page.Members) != 0 {
		t.Errorf("offline page has %d members", len(page.Members))
	}

	// the failure is held, not retried
	d.Members(ctx)
	if src.calls[NameMembers] != 1 {
		t.Errorf("backend fetched %d times, expected 1", src.calls[NameMembers])
	}

	src.err = nil
	src.members = &backend.MembersResponse{Members: []backend.Member{
		{ID: "1", Name: "Ana", Balance: 100000, Churn: 1},
		{ID: "2", Name: "Bo", Balance: 50000, Churn: 0},
	}}
	if err := d.Reload(ctx, NameMembers); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	page = d.Members(ctx)
	if page.Offline || page.Banner != "" {
		t.Errorf("page still offline after reconnect: %+v", page)
	}
	if page.Metrics.TotalAUM != 150000 || page.Metrics.TotalVaR != 100000 || page.Metrics.ChurnRate != 0.5 {
		t.Errorf("computed KPIs = %+v", page.Metrics)
	}
	if src.calls[NameMembers] != 2 {
		t.Errorf("backend fetched %d times, expected 2", src.calls[NameMembers])
	}
}

func TestMembers_PrefersBackendMetrics(t *testing.T) {
	src := newFakeBackend()
	src.members = &backend.MembersResponse{
		Members: []backend.Member{{ID: "1", Balance: 10, Churn: 1}},
		Metrics: &backend.PortfolioMetrics{TotalAUM: 1, TotalVaR: 2, ChurnRate: 0.3},
	}
	d := NewDashboard(src, mustFallback(t), Config{})

	if m := d.Members(context.Background()).Metrics; m.TotalAUM != 1 || m.ChurnRate != 0.3 {
		t.Errorf("Metrics = %+v, expected backend values", m)
	}
}

func TestPortfolioKPIs_Empty(t *testing.T) {
	if m := PortfolioKPIs(nil); m != (backend.PortfolioMetrics{}) {
		t.Errorf("PortfolioKPIs(nil) = %+v", m)
	}
}

func TestLedger_SearchAndLimit(t *testing.T) {
	src := newFakeBackend()
	for i := 0; i < 150; i++ {
		src.ledger = append(src.ledger, backend.Member{ID: backend.MemberID(fmt.Sprintf("%d", 1000+i)), Name: fmt.Sprintf("Member %d", i)})
	}
	src.ledger = append(src.ledger, backend.Member{ID: "77", Name: "McDonald", Churn: 1})
	d := NewDashboard(src, mustFallback(t), Config{})
	ctx := context.Background()

	all := d.Ledger(ctx, "")
	if len(all.Results) != DefaultLedgerLimit || all.Matched != 151 {
		t.Errorf("empty query: %d results of %d matched", len(all.Results), all.Matched)
	}

	byName := d.Ledger(ctx, "mcdon")
	if len(byName.Results) != 1 || byName.Results[0].ID != "77" {
		t.Errorf("name search = %+v", byName.Results)
	}

	byID := d.Ledger(ctx, "1149")
	if len(byID.Results) != 1 || byID.Results[0].Name != "Member 149" {
		t.Errorf("id search = %+v", byID.Results)
	}

	if src.calls[NameLedger] != 1 {
		t.Errorf("ledger fetched %d times, expected 1", src.calls[NameLedger])
	}

	limited := NewDashboard(src, mustFallback(t), Config{LedgerLimit: 5}).Ledger(ctx, "member")
	if len(limited.Results) != 5 {
		t.Errorf("limited search returned %d results, expected 5", len(limited.Results))
	}
}

func TestLedgerDetail(t *testing.T) {
	src := newFakeBackend()
	src.ledger = []backend.Member{{ID: "1", Name: "Ana", Churn: 1, Cluster: 2}, {ID: "2", Name: "Bo", Churn: 0, Cluster: 7}}
	d := NewDashboard(src, mustFallback(t), Config{})
	ctx := context.Background()

	risky, err := d.LedgerDetail(ctx, "1")
	if err != nil {
		t.Fatalf("LedgerDetail() error = %v", err)
	}
	if risky.Status != "High Risk" || risky.Strategy == "" {
		t.Errorf("churned member note = %+v", risky.LedgerNote)
	}
	if risky.Persona != "High Value At Risk" {
		t.Errorf("cluster 2 persona = %q, expected High Value At Risk", risky.Persona)
	}

	stable, err := d.LedgerDetail(ctx, "2")
	if err != nil {
		t.Fatalf("LedgerDetail() error = %v", err)
	}
	if stable.Status != "Stable" {
		t.Errorf("stable member status = %q", stable.Status)
	}
	if stable.Persona != "General Portfolio" {
		t.Errorf("unknown cluster persona = %q, expected General Portfolio", stable.Persona)
	}

	if _, err := d.LedgerDetail(ctx, "3"); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("LedgerDetail(missing) error = %v, expected ErrMemberNotFound", err)
	}
}

func TestSegmentation(t *testing.T) {
	src := newFakeBackend()
	src.points = []backend.SegmentPoint{
		{Segment: "Pre-Retirees", SuperBalance: 100000, Age: 60, AppSessionsPerMonth: 1, ChurnProbability: 1},
		{Segment: "Pre-Retirees", SuperBalance: 50001, Age: 65, AppSessionsPerMonth: 2, ChurnProbability: 0},
		{Segment: "Stable Savers", SuperBalance: 20000, Age: 40, AppSessionsPerMonth: 2, ChurnProbability: 0},
	}
	d := NewDashboard(src, mustFallback(t), Config{})
	ctx := context.Background()

	page := d.Segmentation(ctx, "Pre-Retirees")
	if len(page.Points) != 2 {
		t.Fatalf("got %d points, expected 2", len(page.Points))
	}
	s := page.Summary
	if s.AvgBalance != 75000.5 || s.AvgAge != 62.5 || s.AvgEngagement != 1.5 || s.AvgChurn != 0.5 {
		t.Errorf("summary = %+v", s)
	}
	if s.Status != SegmentStatusElevated {
		t.Errorf("Status = %q, expected %q", s.Status, SegmentStatusElevated)
	}
	if s.Strategy != "Capital Preservation: High age, mid balance. Promote retirement calculators and safety-first portfolios." {
		t.Errorf("Strategy = %q", s.Strategy)
	}

	all := d.Segmentation(ctx, "")
	if all.Segment != SegmentAll || len(all.Points) != 3 {
		t.Errorf("all segments = %s with %d points", all.Segment, len(all.Points))
	}
	if all.Summary.Strategy != mustFallback(t).DefaultStrategy {
		t.Errorf("All strategy = %q", all.Summary.Strategy)
	}

	savers := d.Segmentation(ctx, "Stable Savers")
	if savers.Summary.Status != SegmentStatusStable {
		t.Errorf("Stable Savers status = %q", savers.Summary.Status)
	}

	empty := d.Segmentation(ctx, "Disengaged Youth")
	if empty.Summary.Count != 0 || empty.Summary.AvgBalance != 0 || empty.Summary.Status != SegmentStatusStable {
		t.Errorf("empty segment summary = %+v", empty.Summary)
	}

	expected := []string{"Stable Savers", "Wealth Builders", "High Value At Risk", "Disengaged Youth", "Pre-Retirees"}
	for i, name := range expected {
		if all.Segments[i] != name {
			t.Errorf("Segments[%d] = %q, expected %q", i, all.Segments[i], name)
		}
	}
}

func TestAudit_Fallback(t *testing.T) {
	src := newFakeBackend()
	src.err = backend.ErrUnavailable
	d := NewDashboard(src, mustFallback(t), Config{})

	page := d.Audit(context.Background())
	if !page.Fallback || page.Report.HealthScore != 98.4 || page.Report.TotalRecords != 10000 {
		t.Errorf("fallback audit = %+v", page)
	}
	if len(page.Report.Features) != 4 || page.Report.Features[2].Treatment != "Log-Scaled" {
		t.Errorf("fallback features = %+v", page.Report.Features)
	}
}

func TestAudit_Backend(t *testing.T) {
	src := newFakeBackend()
	src.audit = &backend.AuditReport{TotalRecords: 3, Features: []backend.FeatureAudit{{Field: "Age"}}}
	d := NewDashboard(src, mustFallback(t), Config{})

	page := d.Audit(context.Background())
	if page.Fallback || page.Report.TotalRecords != 3 {
		t.Errorf("audit = %+v", page)
	}
	if page.Report.HealthScore != 98.4 {
		t.Errorf("missing health score should show the default, got %v", page.Report.HealthScore)
	}
}

func TestInsights(t *testing.T) {
	src := newFakeBackend()
	src.insights = &backend.ModelInsights{
		ConfusionMatrix: backend.ConfusionMatrix{TN: 1404, FP: 174, FN: 149, TP: 253},
		ROCCurve:        []backend.ROCPoint{{FPR: 0, TPR: 0}, {FPR: 1, TPR: 1}},
	}
	d := NewDashboard(src, mustFallback(t), Config{})

	page := d.Insights(context.Background())
	if page.Fallback {
		t.Error("Fallback = true with backend data")
	}
	want := EvaluationMetrics{Accuracy: 0.8369, Precision: 0.5925, Recall: 0.6294, F1: 0.6104}
	if page.Metrics != want {
		t.Errorf("Metrics = %+v, expected %+v", page.Metrics, want)
	}

	src.err = backend.ErrUnavailable
	d.Reload(context.Background(), NameInsights)
	page = d.Insights(context.Background())
	if !page.Fallback || page.Metrics.Accuracy != 0.84 || page.Metrics.F1 != 0.61 {
		t.Errorf("fallback insights = %+v", page)
	}
}

func TestEvaluate_ZeroSafe(t *testing.T) {
	if m := Evaluate(backend.ConfusionMatrix{}); m != (EvaluationMetrics{}) {
		t.Errorf("Evaluate(empty) = %+v", m)
	}
	if m := Evaluate(backend.ConfusionMatrix{TN: 10}); m.Accuracy != 1 || m.Precision != 0 || m.F1 != 0 {
		t.Errorf("Evaluate(all negatives) = %+v", m)
	}
}

func TestReload_UnknownView(t *testing.T) {
	d := NewDashboard(newFakeBackend(), mustFallback(t), Config{})
	if err := d.Reload(context.Background(), "charts"); !errors.Is(err, ErrUnknownView) {
		t.Errorf("Reload(charts) error = %v, expected ErrUnknownView", err)
	}
}

func TestLoadFallback_FileAndEnv(t *testing.T) {
	t.Setenv("BACKEND_HOST_LABEL", "staging")
	fb := mustFallback(t)
	if fb.OfflineBanner != "Inference server offline. Check staging deployment." {
		t.Errorf("OfflineBanner = %q", fb.OfflineBanner)
	}
	if fb.Persona(2) != "High Value At Risk" || fb.Persona(9) != "General Portfolio" {
		t.Errorf("personas = %v", fb.Personas)
	}

	path := filepath.Join(t.TempDir(), "fallback.yaml")
	if err := os.WriteFile(path, []byte("offline_banner: down\n"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := LoadFallback(path); err == nil {
		t.Error("LoadFallback() with incomplete file error = nil")
	}
	if _, err := LoadFallback(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFallback() with missing file error = nil")
	}
}
