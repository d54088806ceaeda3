package explain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AccelByte/extend-churn-dashboard/pkg/profile"
	"gopkg.in/yaml.v3"
)

func TestNewThresholdRule_Validation(t *testing.T) {
	env, err := NewEnv()
	if err != nil {
		t.Fatalf("NewEnv() error = %v", err)
	}

	tests := []struct {
		name   string
		config RuleConfig
	}{
		{"missing id", RuleConfig{Name: "X", Condition: "age > 1.0"}},
		{"missing name", RuleConfig{ID: "x", Condition: "age > 1.0"}},
		{"syntax error", RuleConfig{ID: "x", Name: "X", Condition: "age >"}},
		{"unknown variable", RuleConfig{ID: "x", Name: "X", Condition: "pets > 1.0"}},
		{"non-boolean", RuleConfig{ID: "x", Name: "X", Condition: "age + 1.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewThresholdRule(env, tt.config); err == nil {
				t.Error("NewThresholdRule() error = nil, expected error")
			}
		})
	}
}

func TestRegistry_DuplicateAndOrder(t *testing.T) {
	env, err := NewEnv()
	if err != nil {
		t.Fatalf("NewEnv() error = %v", err)
	}

	registry, err := NewRegistryFromConfig(env, BuiltinConfig())
	if err != nil {
		t.Fatalf("NewRegistryFromConfig() error = %v", err)
	}

	if registry.Count() != 5 {
		t.Fatalf("Count() = %d, expected 5", registry.Count())
	}

	names := []string{"Portfolio Depth", "Member Activity", "Age Lifecycle", "Asset Magnitude", "Wealth Ratio"}
	for i, rule := range registry.GetAll() {
		if rule.Name() != names[i] {
			t.Errorf("rule %d = %s, expected %s", i, rule.Name(), names[i])
		}
	}

	if err := registry.Register(registry.GetAll()[2]); err == nil {
		t.Error("Register() duplicate error = nil, expected error")
	}
}

func TestParseConfig_Errors(t *testing.T) {
	if _, err := ParseConfig([]byte("rules: [")); err == nil {
		t.Error("ParseConfig() malformed YAML error = nil")
	}
	if _, err := ParseConfig([]byte("rules: []")); err == nil {
		t.Error("ParseConfig() empty rules error = nil")
	}
}

func marshalRules(t *testing.T, rules []RuleConfig) []byte {
	t.Helper()

	data, err := yaml.Marshal(Config{Rules: rules})
	if err != nil {
		t.Fatalf("failed to marshal rules: %v", err)
	}
	return data
}

func TestParseConfig_RequiresFiveDrivers(t *testing.T) {
	builtin := BuiltinConfig().Rules

	extra := append(append([]RuleConfig{}, builtin...), RuleConfig{
		ID: "credit", Name: "Credit Quality", Condition: "credit_score < 500.0", WhenTrue: 0.3, WhenFalse: -0.1,
	})
	duplicate := append([]RuleConfig{}, builtin...)
	duplicate[4].ID = "portfolio_depth"
	renamed := append([]RuleConfig{}, builtin...)
	renamed[2].ID = "age"

	tests := []struct {
		name  string
		rules []RuleConfig
	}{
		{"single rule", builtin[:1]},
		{"four rules", builtin[:4]},
		{"six rules", extra},
		{"duplicate id", duplicate},
		{"unknown id", renamed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig(marshalRules(t, tt.rules)); err == nil {
				t.Errorf("ParseConfig() with %d rules error = nil", len(tt.rules))
			}
			if _, err := NewEngineFromConfig(&Config{Rules: tt.rules}); err == nil {
				t.Error("NewEngineFromConfig() error = nil")
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	builtin, err := LoadConfig("")
	if err != nil || len(builtin.Rules) != 5 {
		t.Fatalf("LoadConfig(\"\") = %d rules, %v", len(builtin.Rules), err)
	}

	// a custom file may re-weight a driver
	rules := BuiltinConfig().Rules
	rules[0].WhenTrue = -0.5

	path := filepath.Join(t.TempDir(), "drivers.yaml")
	if err := os.WriteFile(path, marshalRules(t, rules), 0o600); err != nil {
		t.Fatalf("failed to write rules: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	engine, err := NewEngineFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewEngineFromConfig() error = %v", err)
	}

	drivers := engine.Explain(profile.NewPayload(profile.MemberProfile{ProductsNumber: 3, ActiveMember: 1}))
	if len(drivers) != 5 || drivers[0].Name != "Portfolio Depth" || drivers[0].Value != -0.5 {
		t.Errorf("Explain() = %+v", drivers)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig(missing file) error = nil")
	}
}
