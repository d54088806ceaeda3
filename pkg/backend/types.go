package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MemberID is a member identifier. The backend emits it as a string or a bare number
// depending on how the dataset was exported, so both are accepted.
type MemberID string

func (id *MemberID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = MemberID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("member id must be a string or number: %w", err)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*id = MemberID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = MemberID(n.String())
	return nil
}

// Member is one row of the member dataset. Only the declared fields are kept.
type Member struct {
	ID               MemberID `json:"id"`
	Name             string   `json:"name"`
	Region           string   `json:"region,omitempty"`
	Segment          string   `json:"segment,omitempty"`
	Churn            float64  `json:"churn"`
	ChurnProbability float64  `json:"churnProbability,omitempty"`
	CreditScore      float64  `json:"credit_score"`
	Age              float64  `json:"age"`
	Tenure           float64  `json:"tenure"`
	Balance          float64  `json:"balance"`
	ProductsNumber   float64  `json:"products_number"`
	ActiveMember     float64  `json:"active_member"`
	EstimatedSalary  float64  `json:"estimated_salary"`
	Cluster          float64  `json:"cluster"`
}

// PortfolioMetrics are the portfolio KPIs computed by the backend.
type PortfolioMetrics struct {
	TotalAUM  float64 `json:"total_aum"`
	TotalVaR  float64 `json:"total_var"`
	ChurnRate float64 `json:"churn_rate"`
}

// MembersResponse is the /api/members envelope.
type MembersResponse struct {
	Members []Member          `json:"members"`
	Metrics *PortfolioMetrics `json:"metrics,omitempty"`
}

// FeatureAudit is the data-quality record of one model input.
type FeatureAudit struct {
	Field     string `json:"field" yaml:"field"`
	Missing   string `json:"missing" yaml:"missing"`
	Outliers  int    `json:"outliers" yaml:"outliers"`
	Quality   string `json:"quality" yaml:"quality"`
	Treatment string `json:"treatment" yaml:"treatment"`
	Why       string `json:"why,omitempty" yaml:"why,omitempty"`
	Impact    string `json:"impact,omitempty" yaml:"impact,omitempty"`
}

// AuditReport is the /api/audit payload.
type AuditReport struct {
	HealthScore  float64        `json:"health_score" yaml:"health_score"`
	TotalRecords int            `json:"total_records" yaml:"total_records"`
	Features     []FeatureAudit `json:"features" yaml:"features"`
}

// ConfusionMatrix holds the held-out classification counts.
type ConfusionMatrix struct {
	TN int `json:"tn" yaml:"tn"`
	FP int `json:"fp" yaml:"fp"`
	FN int `json:"fn" yaml:"fn"`
	TP int `json:"tp" yaml:"tp"`
}

// ROCPoint is one point of the ROC curve.
type ROCPoint struct {
	FPR float64 `json:"fpr" yaml:"fpr"`
	TPR float64 `json:"tpr" yaml:"tpr"`
}

// ClassificationReport is the summary the backend may attach to model insights.
type ClassificationReport struct {
	Accuracy  float64 `json:"accuracy" yaml:"accuracy"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
}

// ModelInsights is the /api/model-insights payload.
type ModelInsights struct {
	ConfusionMatrix ConfusionMatrix       `json:"confusion_matrix" yaml:"confusion_matrix"`
	ROCCurve        []ROCPoint            `json:"roc_curve" yaml:"roc_curve"`
	Report          *ClassificationReport `json:"report,omitempty" yaml:"report,omitempty"`
}

// SegmentPoint is one member projected onto the segmentation plane.
type SegmentPoint struct {
	Segment             string  `json:"segment"`
	PCAX                float64 `json:"pcaX"`
	PCAY                float64 `json:"pcaY"`
	SuperBalance        float64 `json:"superBalance"`
	ChurnProbability    float64 `json:"churnProbability"`
	Age                 float64 `json:"age"`
	AppSessionsPerMonth float64 `json:"appSessionsPerMonth"`
}
