// Package audit runs business records through lookup, matching and the
// optional tie-breaker, one record at a time.
package audit

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/nap-audit/internal/lookup"
	"github.com/sells-group/nap-audit/internal/match"
	"github.com/sells-group/nap-audit/internal/model"
	"github.com/sells-group/nap-audit/internal/tiebreak"
)

// Processor audits records sequentially. Lookups are spaced by a fixed
// minimum delay.
type Processor struct {
	provider  lookup.Provider
	matcher   *match.Matcher
	confirmer tiebreak.Confirmer
	limiter   *rate.Limiter
	progress  func(index, total int, r model.AuditResult)
}

// Option configures a Processor.
type Option func(*Processor)

// WithConfirmer enables the advisory tie-breaker for ambiguous results.
func WithConfirmer(c tiebreak.Confirmer) Option {
	return func(p *Processor) {
		if c != nil {
			p.confirmer = c
		}
	}
}

// WithDelay sets the minimum spacing between two lookups. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(p *Processor) {
		if d <= 0 {
			p.limiter = nil
			return
		}
		p.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithProgress registers a callback invoked after each record.
func WithProgress(fn func(index, total int, r model.AuditResult)) Option {
	return func(p *Processor) { p.progress = fn }
}

// New creates a Processor.
func New(provider lookup.Provider, matcher *match.Matcher, opts ...Option) *Processor {
	p := &Processor{
		provider:  provider,
		matcher:   matcher,
		confirmer: tiebreak.Disabled{},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Query builds the directory query for a business.
func Query(b model.BusinessRecord) string {
	return strings.TrimSpace(b.Name + " " + b.Address)
}

// Process audits a single record. Lookup failures become ERROR results;
// tie-breaker failures are ignored.
func (p *Processor) Process(ctx context.Context, b model.BusinessRecord) model.AuditResult {
	res := p.provider.Lookup(ctx, Query(b))

	switch res.Kind {
	case lookup.KindFailed:
		return model.Errored(b, res.Err)
	case lookup.KindFound:
		if res.Candidate.IsEmpty() {
			return model.NoResults(b)
		}
	default:
		return model.NoResults(b)
	}

	r := p.matcher.Match(b, res.Candidate)
	if r.Status.Ambiguous() {
		if _, disabled := p.confirmer.(tiebreak.Disabled); !disabled {
			ok := p.confirmer.Confirm(ctx, b.Name, b.Address, res.Candidate.Name, res.Candidate.Address)
			r.AIConfirmed = &ok
			if ok {
				zap.L().Info("ai confirmed match", zap.String("business", b.Name), zap.String("status", string(r.Status)))
			} else {
				zap.L().Info("ai rejected match", zap.String("business", b.Name), zap.String("status", string(r.Status)))
			}
		}
	}
	return r
}

// Run audits records in order and returns one result per record. A failed
// record never stops the run. Cancelling ctx stops before the next record
// and returns the results so far with the context error; the interrupted
// record is not included.
func (p *Processor) Run(ctx context.Context, records []model.BusinessRecord) ([]model.AuditResult, error) {
	results := make([]model.AuditResult, 0, len(records))
	total := len(records)

	for i, b := range records {
		if err := ctx.Err(); err != nil {
			return results, eris.Wrap(err, "audit: run canceled")
		}
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return results, eris.Wrap(err, "audit: run canceled")
			}
		}

		r := p.Process(ctx, b)
		if err := ctx.Err(); err != nil {
			return results, eris.Wrap(err, "audit: run canceled")
		}

		zap.L().Info("audited record",
			zap.Int("index", i+1),
			zap.Int("total", total),
			zap.String("business", b.Name),
			zap.String("status", string(r.Status)),
		)
		results = append(results, r)
		if p.progress != nil {
			p.progress(i, total, r)
		}
	}

	s := model.Summarize(results)
	zap.L().Info("audit complete",
		zap.Int("total", s.Total),
		zap.Int("success", s.Success),
		zap.Int("partial", s.Partial),
		zap.Int("fail", s.Fail),
		zap.Int("error", s.Error),
	)
	return results, nil
}
