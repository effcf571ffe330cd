package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/bound/pkg/domain/interfaces"
	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Analyzer runs the attribution pipeline over one commit history
type Analyzer struct {
	resolver *OwnershipResolver
	members  interfaces.MembershipChecker
	adjusted bool
	top      int
}

// AnalyzerOption configures Analyzer
type AnalyzerOption func(*Analyzer)

// WithMembership sets the roster used to split team and outside work
func WithMembership(members interfaces.MembershipChecker) AnalyzerOption {
	return func(a *Analyzer) {
		a.members = members
	}
}

// WithAdjusted enables insertion proportional weighting
func WithAdjusted(adjusted bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.adjusted = adjusted
	}
}

// WithTop sets the length of ranked contributor lists
func WithTop(top int) AnalyzerOption {
	return func(a *Analyzer) {
		a.top = top
	}
}

// NewAnalyzer creates an Analyzer resolving ownership with resolver
func NewAnalyzer(resolver *OwnershipResolver, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{resolver: resolver}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run consumes source to the end and returns the ranked report. No report is
// returned when any stage fails or ctx is cancelled.
func (a *Analyzer) Run(ctx context.Context, source interfaces.CommitSource) (*model.Report, error) {
	logger := ctxlog.From(ctx)
	started := time.Now()

	enricher := NewEnricher(source, a.resolver, a.members)
	engine := NewAttributionEngine(a.adjusted)

	for {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "analysis cancelled", goerr.V("commits", engine.Commits()))
		}

		commit, ok, err := enricher.NextEnriched(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		engine.Apply(commit)
	}

	report := NewRanker(a.top).Rank(engine)

	logger.Info("analysis completed",
		"commits", report.Commits,
		"owners", len(report.Owners),
		"contributors", len(report.Contributors),
		"ownership_fetches", a.resolver.Fetches(),
		"elapsed", time.Since(started),
	)

	return report, nil
}
