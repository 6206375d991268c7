package features

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidRule   = errors.New("invalid rule")
	ErrDuplicateRule = errors.New("duplicate rule")
)

// Evaluator classifies a single URL. Implementations may block on network I/O
// and may fail in any way; containing the failure is the executor's job.
type Evaluator interface {
	Evaluate(ctx context.Context, rawURL string) (Value, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, rawURL string) (Value, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, rawURL string) (Value, error) {
	return f(ctx, rawURL)
}

// Rule binds an evaluator to the column name it produces.
type Rule struct {
	Name      string
	Evaluator Evaluator
}

// RuleSet is an ordered, immutable collection of rules. The registration order
// defines the column order of every vector built from it.
type RuleSet struct {
	rules []Rule
	index map[string]int
}

func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	rs := &RuleSet{
		rules: make([]Rule, 0, len(rules)),
		index: make(map[string]int, len(rules)),
	}

	for _, rule := range rules {
		if len(rule.Name) == 0 {
			return nil, fmt.Errorf("%w: rule at position %d has no name", ErrInvalidRule, len(rs.rules))
		}

		if rule.Evaluator == nil {
			return nil, fmt.Errorf("%w: rule %s has no evaluator", ErrInvalidRule, rule.Name)
		}

		if _, exists := rs.index[rule.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, rule.Name)
		}

		rs.index[rule.Name] = len(rs.rules)
		rs.rules = append(rs.rules, rule)
	}

	return rs, nil
}

// MustRuleSet is like NewRuleSet but panics on error. Meant for static
// registration during program initialization.
func MustRuleSet(rules ...Rule) *RuleSet {
	rs, err := NewRuleSet(rules...)
	if err != nil {
		panic(err)
	}

	return rs
}

// Extend returns a new set with the given rules appended. The receiver is
// left untouched.
func (rs *RuleSet) Extend(rules ...Rule) (*RuleSet, error) {
	all := make([]Rule, 0, len(rs.rules)+len(rules))
	all = append(all, rs.rules...)
	all = append(all, rules...)

	return NewRuleSet(all...)
}

func (rs *RuleSet) Len() int { return len(rs.rules) }

func (rs *RuleSet) Names() []string {
	names := make([]string, len(rs.rules))
	for i, rule := range rs.rules {
		names[i] = rule.Name
	}

	return names
}

func (rs *RuleSet) Rules() []Rule {
	rules := make([]Rule, len(rs.rules))
	copy(rules, rs.rules)

	return rules
}

// Position returns the column index of the named rule.
func (rs *RuleSet) Position(name string) (int, bool) {
	idx, ok := rs.index[name]

	return idx, ok
}
