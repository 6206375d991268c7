package features

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrRulePanicked = errors.New("rule panicked")
	ErrRuleTimeout  = errors.New("rule timed out")
	ErrRuleSkipped  = errors.New("rule skipped")
)

// Feature is a single named column of a vector.
type Feature struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// Executor runs every rule of a set against a URL and returns one feature per
// rule, in registration order. A failing rule never affects another rule's
// column; its own column gets Fallback.
type Executor interface {
	Execute(ctx context.Context, rules *RuleSet, rawURL string) []Feature
}

type ExecutorOption func(*executorOpts)

type executorOpts struct {
	ruleTimeout    time.Duration
	maxConcurrency int
}

// WithRuleTimeout bounds every single rule invocation. Zero disables the bound.
func WithRuleTimeout(timeout time.Duration) ExecutorOption {
	return func(o *executorOpts) {
		if timeout > 0 {
			o.ruleTimeout = timeout
		}
	}
}

// WithMaxConcurrency limits the number of rules evaluated at the same time by
// the concurrent executor. Zero means no limit.
func WithMaxConcurrency(limit int) ExecutorOption {
	return func(o *executorOpts) {
		if limit > 0 {
			o.maxConcurrency = limit
		}
	}
}

func newExecutorOpts(opts []ExecutorOption) executorOpts {
	var o executorOpts

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

type sequentialExecutor struct {
	o executorOpts
}

// NewSequentialExecutor returns an executor evaluating rules strictly one after
// the other. Rule i+1 is not started before rule i returned or was abandoned.
func NewSequentialExecutor(opts ...ExecutorOption) Executor {
	return &sequentialExecutor{o: newExecutorOpts(opts)}
}

func (e *sequentialExecutor) Execute(ctx context.Context, rules *RuleSet, rawURL string) []Feature {
	result := make([]Feature, len(rules.rules))

	for idx, rule := range rules.rules {
		result[idx] = e.o.run(ctx, rule, rawURL)
	}

	return result
}

type concurrentExecutor struct {
	o executorOpts
}

// NewConcurrentExecutor returns an executor evaluating all rules concurrently.
// Results are stored by rule index, so the output order equals the
// registration order regardless of completion order.
func NewConcurrentExecutor(opts ...ExecutorOption) Executor {
	return &concurrentExecutor{o: newExecutorOpts(opts)}
}

func (e *concurrentExecutor) Execute(ctx context.Context, rules *RuleSet, rawURL string) []Feature {
	result := make([]Feature, len(rules.rules))

	var group errgroup.Group
	if e.o.maxConcurrency > 0 {
		group.SetLimit(e.o.maxConcurrency)
	}

	for idx, rule := range rules.rules {
		group.Go(func() error {
			result[idx] = e.o.run(ctx, rule, rawURL)

			// failures are already folded into the fallback value
			return nil
		})
	}

	_ = group.Wait()

	return result
}

func (o executorOpts) run(ctx context.Context, rule Rule, rawURL string) Feature {
	logger := zerolog.Ctx(ctx)

	value, err := o.invoke(ctx, rule, rawURL)
	if err != nil {
		logger.Debug().Err(err).Str("_rule", rule.Name).Msg("Rule failed, using fallback value")

		return Feature{Name: rule.Name, Value: Fallback}
	}

	logger.Trace().Str("_rule", rule.Name).Int("_value", int(value)).Msg("Rule evaluated")

	return Feature{Name: rule.Name, Value: value}
}

func (o executorOpts) invoke(ctx context.Context, rule Rule, rawURL string) (Value, error) {
	if err := ctx.Err(); err != nil {
		return Fallback, fmt.Errorf("%w: %w", ErrRuleSkipped, err)
	}

	if o.ruleTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeoutCause(ctx, o.ruleTimeout, ErrRuleTimeout)
		defer cancel()
	}

	// nothing can interrupt the rule, so there is no need for a goroutine
	if ctx.Done() == nil {
		return evaluate(ctx, rule, rawURL)
	}

	type outcome struct {
		value Value
		err   error
	}

	// buffered, so a rule ignoring its context can still finish and exit
	// after we stopped waiting for it
	done := make(chan outcome, 1)

	go func() {
		value, err := evaluate(ctx, rule, rawURL)
		done <- outcome{value: value, err: err}
	}()

	select {
	case res := <-done:
		return res.value, res.err
	case <-ctx.Done():
		return Fallback, fmt.Errorf("abandoned: %w", context.Cause(ctx))
	}
}

func evaluate(ctx context.Context, rule Rule, rawURL string) (value Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			value, err = Fallback, fmt.Errorf("%w: %v", ErrRulePanicked, rec)
		}
	}()

	return rule.Evaluator.Evaluate(ctx, rawURL)
}
