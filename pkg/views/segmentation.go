package views

import (
	"context"
	"sort"

	"github.com/AccelByte/extend-churn-dashboard/pkg/backend"
	"github.com/shopspring/decimal"
)

// SegmentAll selects every segment.
const SegmentAll = "All"

// ElevatedChurnThreshold is the mean churn probability above which a segment is flagged.
const ElevatedChurnThreshold = 0.3

const (
	SegmentStatusElevated = "Elevated"
	SegmentStatusStable   = "Stable"
)

// SegmentSummary aggregates the selected segment. Averages are rounded to one decimal.
type SegmentSummary struct {
	Count         int     `json:"count"`
	AvgBalance    float64 `json:"avgBalance"`
	AvgAge        float64 `json:"avgAge"`
	AvgEngagement float64 `json:"avgEngagement"`
	AvgChurn      float64 `json:"avgChurn"`
	Status        string  `json:"status"`
	Strategy      string  `json:"strategy"`
}

// SegmentationPage backs the cluster scatter and its sidebar.
type SegmentationPage struct {
	Segment  string                 `json:"segment"`
	Segments []string               `json:"segments"`
	Points   []backend.SegmentPoint `json:"points"`
	Summary  SegmentSummary         `json:"summary"`
	Error    string                 `json:"error,omitempty"`
}

// Segmentation filters the projected points by segment; empty or "All" selects everything.
func (d *Dashboard) Segmentation(ctx context.Context, segment string) SegmentationPage {
	if segment == "" {
		segment = SegmentAll
	}

	points, err := d.segmentation.Get(ctx)
	filtered := FilterSegment(points, segment)

	return SegmentationPage{
		Segment:  segment,
		Segments: d.segmentNames(),
		Points:   filtered,
		Summary:  d.summarize(filtered, segment),
		Error:    errorText(err),
	}
}

// FilterSegment returns the points of segment, or all points for "All".
func FilterSegment(points []backend.SegmentPoint, segment string) []backend.SegmentPoint {
	out := make([]backend.SegmentPoint, 0, len(points))
	for _, p := range points {
		if segment == SegmentAll || p.Segment == segment {
			out = append(out, p)
		}
	}
	return out
}

func (d *Dashboard) summarize(points []backend.SegmentPoint, segment string) SegmentSummary {
	summary := SegmentSummary{
		Count:    len(points),
		Status:   SegmentStatusStable,
		Strategy: d.fallback.Strategy(segment),
	}
	if len(points) == 0 {
		return summary
	}

	var balance, age, engagement, churn decimal.Decimal
	for _, p := range points {
		balance = balance.Add(decimal.NewFromFloat(p.SuperBalance))
		age = age.Add(decimal.NewFromFloat(p.Age))
		engagement = engagement.Add(decimal.NewFromFloat(p.AppSessionsPerMonth))
		churn = churn.Add(decimal.NewFromFloat(p.ChurnProbability))
	}

	n := decimal.NewFromInt(int64(len(points)))
	meanChurn := churn.Div(n)

	summary.AvgBalance = balance.Div(n).Round(1).InexactFloat64()
	summary.AvgAge = age.Div(n).Round(1).InexactFloat64()
	summary.AvgEngagement = engagement.Div(n).Round(1).InexactFloat64()
	summary.AvgChurn = meanChurn.Round(1).InexactFloat64()
	if meanChurn.GreaterThan(decimal.NewFromFloat(ElevatedChurnThreshold)) {
		summary.Status = SegmentStatusElevated
	}

	return summary
}

// segmentNames lists the persona names ordered by cluster id.
func (d *Dashboard) segmentNames() []string {
	clusters := make([]int, 0, len(d.fallback.Personas))
	for c := range d.fallback.Personas {
		clusters = append(clusters, c)
	}
	sort.Ints(clusters)

	names := make([]string, 0, len(clusters))
	for _, c := range clusters {
		names = append(names, d.fallback.Personas[c])
	}
	return names
}
