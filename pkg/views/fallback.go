package views

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/AccelByte/extend-churn-dashboard/pkg/backend"
	"github.com/AccelByte/extend-churn-dashboard/pkg/common"
	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var embeddedFallback []byte

// LedgerNote is the status and strategy shown for a ledger member.
type LedgerNote struct {
	Status   string `yaml:"status" json:"status"`
	Strategy string `yaml:"strategy" json:"strategy"`
}

// Fallback is the static display data of the dashboard.
type Fallback struct {
	OfflineBanner   string                `yaml:"offline_banner"`
	Audit           backend.AuditReport   `yaml:"audit"`
	Insights        backend.ModelInsights `yaml:"insights"`
	Personas        map[int]string        `yaml:"personas"`
	DefaultPersona  string                `yaml:"default_persona"`
	Strategies      map[string]string     `yaml:"strategies"`
	DefaultStrategy string                `yaml:"default_strategy"`
	Ledger          struct {
		HighRisk LedgerNote `yaml:"high_risk"`
		Stable   LedgerNote `yaml:"stable"`
	} `yaml:"ledger"`
}

// LoadFallback reads display data from path, or the embedded defaults when path is empty.
func LoadFallback(path string) (*Fallback, error) {
	data := embeddedFallback
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read fallback file: %w", err)
		}
	}

	return ParseFallback(data)
}

// ParseFallback decodes display data after expanding ${VAR:default} placeholders.
func ParseFallback(data []byte) (*Fallback, error) {
	expanded := common.ExpandEnv(string(data))

	var fb Fallback
	if err := yaml.Unmarshal([]byte(expanded), &fb); err != nil {
		return nil, fmt.Errorf("failed to parse fallback data: %w", err)
	}

	if err := fb.validate(); err != nil {
		return nil, err
	}
	return &fb, nil
}

func (f *Fallback) validate() error {
	if f.OfflineBanner == "" {
		return fmt.Errorf("fallback data: offline_banner is required")
	}
	if len(f.Audit.Features) == 0 {
		return fmt.Errorf("fallback data: audit.features is required")
	}
	if len(f.Insights.ROCCurve) == 0 {
		return fmt.Errorf("fallback data: insights.roc_curve is required")
	}
	if f.DefaultPersona == "" || f.DefaultStrategy == "" {
		return fmt.Errorf("fallback data: default_persona and default_strategy are required")
	}
	if f.Ledger.HighRisk.Status == "" || f.Ledger.Stable.Status == "" {
		return fmt.Errorf("fallback data: ledger notes are required")
	}
	return nil
}

// Persona names a behavioral cluster.
func (f *Fallback) Persona(cluster int) string {
	if name, ok := f.Personas[cluster]; ok {
		return name
	}
	return f.DefaultPersona
}

// Strategy returns the retention strategy for a segment name. "All" and unknown
// segments get the default prompt.
func (f *Fallback) Strategy(segment string) string {
	if s, ok := f.Strategies[segment]; ok {
		return s
	}
	return f.DefaultStrategy
}
