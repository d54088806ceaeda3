package views

import (
	"context"

	"github.com/AccelByte/extend-churn-dashboard/pkg/backend"
	"github.com/shopspring/decimal"
)

// AuditPage backs the data-quality registry.
type AuditPage struct {
	Report   backend.AuditReport `json:"report"`
	Fallback bool                `json:"fallback"`
	Error    string              `json:"error,omitempty"`
}

// Audit returns the backend data-quality report, or the fallback report when the
// backend is unavailable or sends nothing.
func (d *Dashboard) Audit(ctx context.Context) AuditPage {
	report, err := d.audit.Get(ctx)
	if err != nil || report == nil || len(report.Features) == 0 {
		recordFallback(backend.ResourceAudit)
		fb := d.fallback.Audit
		if report != nil && report.HealthScore != 0 {
			fb.HealthScore = report.HealthScore
		}
		return AuditPage{Report: fb, Fallback: true, Error: errorText(err)}
	}

	page := AuditPage{Report: *report}
	if page.Report.HealthScore == 0 {
		page.Report.HealthScore = d.fallback.Audit.HealthScore
	}
	return page
}

// EvaluationMetrics summarize classifier quality.
type EvaluationMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// InsightsPage backs the model evaluation panel.
type InsightsPage struct {
	Insights backend.ModelInsights `json:"insights"`
	Metrics  EvaluationMetrics     `json:"metrics"`
	Fallback bool                  `json:"fallback"`
	Error    string                `json:"error,omitempty"`
}

// Insights returns the model evaluation, preferring the backend report over metrics
// derived from the confusion matrix.
func (d *Dashboard) Insights(ctx context.Context) InsightsPage {
	insights, err := d.insights.Get(ctx)

	page := InsightsPage{Error: errorText(err)}
	if err != nil || insights == nil || len(insights.ROCCurve) == 0 {
		recordFallback(backend.ResourceInsights)
		page.Insights = d.fallback.Insights
		page.Fallback = true
	} else {
		page.Insights = *insights
	}

	if page.Insights.Report != nil {
		r := page.Insights.Report
		page.Metrics = EvaluationMetrics{Accuracy: r.Accuracy, Precision: r.Precision, Recall: r.Recall, F1: r.F1}
	} else {
		page.Metrics = Evaluate(page.Insights.ConfusionMatrix)
	}
	return page
}

// Evaluate derives accuracy, precision, recall and F1 from cm, rounded to four decimals.
// Empty denominators yield 0.
func Evaluate(cm backend.ConfusionMatrix) EvaluationMetrics {
	tp := decimal.NewFromInt(int64(cm.TP))
	tn := decimal.NewFromInt(int64(cm.TN))
	fp := decimal.NewFromInt(int64(cm.FP))
	fn := decimal.NewFromInt(int64(cm.FN))

	ratio := func(num, den decimal.Decimal) decimal.Decimal {
		if den.IsZero() {
			return decimal.Zero
		}
		return num.DivRound(den, 8)
	}

	accuracy := ratio(tp.Add(tn), tp.Add(tn).Add(fp).Add(fn))
	precision := ratio(tp, tp.Add(fp))
	recall := ratio(tp, tp.Add(fn))
	f1 := ratio(decimal.NewFromInt(2).Mul(precision).Mul(recall), precision.Add(recall))

	return EvaluationMetrics{
		Accuracy:  accuracy.Round(4).InexactFloat64(),
		Precision: precision.Round(4).InexactFloat64(),
		Recall:    recall.Round(4).InexactFloat64(),
		F1:        f1.Round(4).InexactFloat64(),
	}
}
