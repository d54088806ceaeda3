package explain

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Rule produces exactly one driver for every profile it is given.
type Rule interface {
	// ID returns unique rule identifier.
	ID() string

	// Name returns the driver name shown to the user.
	Name() string

	// Evaluate computes the driver for the flattened payload variables.
	// Returns error only when the condition cannot be evaluated.
	Evaluate(vars map[string]any) (Driver, error)
}

// RuleConfig declares a threshold rule: Condition selects WhenTrue or WhenFalse.
type RuleConfig struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Condition string  `yaml:"condition"`
	WhenTrue  float64 `yaml:"when_true"`
	WhenFalse float64 `yaml:"when_false"`
	Note      string  `yaml:"note"`
}

// ThresholdRule is a Rule whose condition is a compiled CEL expression over payload fields.
type ThresholdRule struct {
	config  RuleConfig
	program cel.Program
}

// NewThresholdRule compiles config.Condition against env.
// The expression must be boolean.
func NewThresholdRule(env *cel.Env, config RuleConfig) (*ThresholdRule, error) {
	if config.ID == "" {
		return nil, fmt.Errorf("rule id is required")
	}
	if config.Name == "" {
		return nil, fmt.Errorf("rule %s: name is required", config.ID)
	}

	ast, issues := env.Compile(config.Condition)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("rule %s: compile error: %w", config.ID, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("rule %s: condition must be boolean, got %s", config.ID, ast.OutputType())
	}

	prog, err := env.Program(ast, cel.CostLimit(10000))
	if err != nil {
		return nil, fmt.Errorf("rule %s: program creation error: %w", config.ID, err)
	}

	return &ThresholdRule{
		config:  config,
		program: prog,
	}, nil
}

func (r *ThresholdRule) ID() string   { return r.config.ID }
func (r *ThresholdRule) Name() string { return r.config.Name }

// Config returns the rule declaration.
func (r *ThresholdRule) Config() RuleConfig { return r.config }

func (r *ThresholdRule) Evaluate(vars map[string]any) (Driver, error) {
	out, _, err := r.program.Eval(vars)
	if err != nil {
		return Driver{}, fmt.Errorf("rule %s: evaluation failed: %w", r.config.ID, err)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return Driver{}, fmt.Errorf("rule %s: condition returned %T", r.config.ID, out.Value())
	}

	value := r.config.WhenFalse
	if matched {
		value = r.config.WhenTrue
	}

	return Driver{
		Name:  r.config.Name,
		Value: value,
		Note:  r.config.Note,
	}, nil
}
