package explain

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed drivers.yaml
var builtinRules []byte

// DriverIDs are the rules every rule set must define, exactly once each.
// A custom rule file may change thresholds, weights and notes, never the set of drivers.
var DriverIDs = []string{"portfolio_depth", "member_activity", "age_lifecycle", "asset_magnitude", "wealth_ratio"}

// Config is the on-disk rule set.
type Config struct {
	Rules []RuleConfig `yaml:"rules"`
}

// ParseConfig decodes a YAML rule set.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse driver rules: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("driver rules: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Rules) != len(DriverIDs) {
		return fmt.Errorf("expected %d rules, got %d", len(DriverIDs), len(c.Rules))
	}

	seen := make(map[string]bool, len(c.Rules))
	for _, rc := range c.Rules {
		if seen[rc.ID] {
			return fmt.Errorf("rule %s defined twice", rc.ID)
		}
		seen[rc.ID] = true
	}
	for _, id := range DriverIDs {
		if !seen[id] {
			return fmt.Errorf("missing rule %s", id)
		}
	}
	return nil
}

// LoadConfig reads a rule set from path, or the builtin rules when path is empty.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return BuiltinConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read driver rules: %w", err)
	}
	return ParseConfig(data)
}

// BuiltinConfig returns the five fixed driver rules.
func BuiltinConfig() *Config {
	cfg, err := ParseConfig(builtinRules)
	if err != nil {
		panic(err)
	}
	return cfg
}
