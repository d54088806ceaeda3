package explain

import (
	"fmt"
	"math"
	"sort"

	"github.com/AccelByte/extend-churn-dashboard/pkg/profile"
	"github.com/google/cel-go/cel"
	"github.com/sirupsen/logrus"
)

// NewEnv declares every payload field as a double variable.
func NewEnv() (*cel.Env, error) {
	vars := profile.NewPayload(profile.MemberProfile{}).Variables()

	opts := make([]cel.EnvOption, 0, len(vars))
	for name := range vars {
		opts = append(opts, cel.Variable(name, cel.DoubleType))
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

// NewRegistryFromConfig compiles and registers every rule of cfg in order.
func NewRegistryFromConfig(env *cel.Env, cfg *Config) (*Registry, error) {
	registry := NewRegistry()
	for _, rc := range cfg.Rules {
		rule, err := NewThresholdRule(env, rc)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(rule); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// Engine evaluates every registered rule and ranks the resulting drivers.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new explanation engine.
func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry: registry,
	}
}

// NewBuiltinEngine returns an engine over the five fixed driver rules.
func NewBuiltinEngine() (*Engine, error) {
	return NewEngineFromConfig(BuiltinConfig())
}

// NewEngineFromConfig compiles cfg into a ready engine. cfg must define exactly the DriverIDs.
func NewEngineFromConfig(cfg *Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("driver rules: %w", err)
	}

	env, err := NewEnv()
	if err != nil {
		return nil, err
	}

	registry, err := NewRegistryFromConfig(env, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build driver rules: %w", err)
	}

	return NewEngine(registry), nil
}

// Explain returns one driver per rule, sorted by descending magnitude.
// Equal magnitudes keep registration order.
func (e *Engine) Explain(payload profile.Payload) []Driver {
	vars := payload.Variables()
	rules := e.registry.GetAll()

	drivers := make([]Driver, 0, len(rules))
	for _, rule := range rules {
		driver, err := rule.Evaluate(vars)
		if err != nil {
			// keep the list complete; an unevaluable rule contributes nothing
			logrus.Errorf("driver rule %s evaluation failed: %v", rule.ID(), err)
			driver = Driver{Name: rule.Name()}
		}
		drivers = append(drivers, driver)
	}

	sort.SliceStable(drivers, func(i, j int) bool {
		return math.Abs(drivers[i].Value) > math.Abs(drivers[j].Value)
	})

	return drivers
}

// GetRegistry returns the rule registry used by this engine.
func (e *Engine) GetRegistry() *Registry {
	return e.registry
}
