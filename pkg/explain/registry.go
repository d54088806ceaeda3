package explain

import (
	"fmt"
	"sync"
)

// Registry holds rules in registration order.
// The order is the tie-break when two drivers have the same magnitude.
type Registry struct {
	rules []Rule
	ids   map[string]struct{}
	mu    sync.RWMutex
}

// NewRegistry creates a new empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		ids: make(map[string]struct{}),
	}
}

// Register appends a rule to the registry.
// Returns an error if a rule with the same ID already exists.
func (r *Registry) Register(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ids[rule.ID()]; exists {
		return fmt.Errorf("rule %s already registered", rule.ID())
	}

	r.ids[rule.ID()] = struct{}{}
	r.rules = append(r.rules, rule)
	return nil
}

// GetAll returns all rules in registration order.
func (r *Registry) GetAll() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, len(r.rules))
	copy(rules, r.rules)
	return rules
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rules)
}
