package features

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type ExtractorOption func(*Extractor)

func WithExecutor(executor Executor) ExtractorOption {
	return func(e *Extractor) {
		if executor != nil {
			e.executor = executor
		}
	}
}

// WithDeadline bounds a whole extraction. Rules still running when it expires
// contribute Fallback.
func WithDeadline(deadline time.Duration) ExtractorOption {
	return func(e *Extractor) {
		if deadline > 0 {
			e.deadline = deadline
		}
	}
}

// Extractor turns a URL into a feature vector. It holds only the immutable
// rule set and its executor, so a single instance may be shared between
// goroutines.
type Extractor struct {
	rules    *RuleSet
	executor Executor
	deadline time.Duration
}

func NewExtractor(rules *RuleSet, opts ...ExtractorOption) *Extractor {
	extractor := &Extractor{
		rules:    rules,
		executor: NewSequentialExecutor(),
	}

	for _, opt := range opts {
		opt(extractor)
	}

	return extractor
}

func (e *Extractor) Rules() *RuleSet { return e.rules }

// Extract never fails: an invalid URL yields the degenerate vector and every
// rule failure is reported in-band through Fallback.
func (e *Extractor) Extract(ctx context.Context, rawURL string) Vector {
	logger := zerolog.Ctx(ctx)

	if !IsValidURL(rawURL) {
		logger.Debug().Str("_url", rawURL).Msg("Not a valid URL, returning degenerate vector")

		return Degenerate(e.rules)
	}

	if e.deadline > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, e.deadline)
		defer cancel()
	}

	start := time.Now()
	outcomes := e.executor.Execute(ctx, e.rules, rawURL)

	logger.Debug().
		Str("_url", rawURL).
		Dur("_duration", time.Since(start)).
		Msg("Features extracted")

	return Assemble(e.rules, true, outcomes)
}
