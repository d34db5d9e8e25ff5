package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/nap-audit/internal/audit"
	"github.com/sells-group/nap-audit/internal/config"
	"github.com/sells-group/nap-audit/internal/lookup"
	"github.com/sells-group/nap-audit/internal/match"
	"github.com/sells-group/nap-audit/internal/model"
	"github.com/sells-group/nap-audit/internal/resilience"
	"github.com/sells-group/nap-audit/internal/store"
	"github.com/sells-group/nap-audit/internal/tiebreak"
	anthropicpkg "github.com/sells-group/nap-audit/pkg/anthropic"
	"github.com/sells-group/nap-audit/pkg/google"
)

// auditEnv holds the initialized store, matcher and processor used by the
// audit and serve commands.
type auditEnv struct {
	Store     store.Store // may be nil
	Matcher   *match.Matcher
	Processor *audit.Processor
}

// Close releases resources held by the environment.
func (e *auditEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore opens and migrates the configured store. It returns nil when
// the driver is "none".
func initStore(ctx context.Context, c config.StoreConfig) (store.Store, error) {
	st, err := store.Open(ctx, c)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, nil
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// newProvider builds the Places-backed lookup provider with retries, a
// circuit breaker and, when a store is available, the lookup cache.
func newProvider(c *config.Config, st store.Store) lookup.Provider {
	opts := []google.Option{google.WithTimeout(time.Duration(c.Places.TimeoutSecs) * time.Second)}
	if c.Places.BaseURL != "" {
		opts = append(opts, google.WithBaseURL(c.Places.BaseURL))
	}
	client := google.NewClient(c.Places.Key, opts...)

	breaker := resilience.NewCircuitBreaker(resilience.CircuitFromConfig("places", c.Circuit))
	places := lookup.NewPlaces(client,
		lookup.WithRetry(resilience.RetryFromConfig(c.Retry)),
		lookup.WithBreaker(breaker),
	)

	var cache lookup.Cache
	if st != nil {
		cache = st
	}
	return lookup.NewCached(places, cache, time.Duration(c.Cache.TTLHours)*time.Hour)
}

// newConfirmer returns the AI tie-breaker, or a disabled one when it is
// turned off or has no credentials.
func newConfirmer(c *config.Config, noAI bool) tiebreak.Confirmer {
	if noAI || !c.Anthropic.Enabled {
		zap.L().Info("ai tie-breaker disabled")
		return tiebreak.Disabled{}
	}
	if c.Anthropic.Key == "" {
		zap.L().Warn("NAP_ANTHROPIC_KEY not set, ai tie-breaker disabled")
		return tiebreak.Disabled{}
	}
	client := anthropicpkg.NewClient(c.Anthropic.Key)
	return tiebreak.NewClaude(client, c.Anthropic.Model, c.Anthropic.MaxTokens)
}

// initAudit wires the full audit stack from config. Callers should defer
// env.Close().
func initAudit(ctx context.Context, c *config.Config, noAI bool) (*auditEnv, error) {
	st, err := initStore(ctx, c.Store)
	if err != nil {
		return nil, err
	}

	matcher := match.New(c.Match)
	proc := audit.New(newProvider(c, st), matcher,
		audit.WithConfirmer(newConfirmer(c, noAI)),
		audit.WithDelay(time.Duration(c.Places.RateLimitMs)*time.Millisecond),
	)

	return &auditEnv{Store: st, Matcher: matcher, Processor: proc}, nil
}

// auditOutcome is the result of one recorded audit run.
type auditOutcome struct {
	RunID   string
	Results []model.AuditResult
	Summary model.Summary
}

// runAudit audits records and, when a store is configured, records the run
// and its results. Results gathered before a cancellation are still saved;
// the cancellation error is returned alongside them.
func runAudit(ctx context.Context, proc *audit.Processor, st store.Store, input string, records []model.BusinessRecord) (*auditOutcome, error) {
	out := &auditOutcome{}

	if st != nil {
		run, err := st.CreateRun(ctx, input)
		if err != nil {
			return nil, eris.Wrap(err, "create run")
		}
		out.RunID = run.ID
	}

	results, runErr := proc.Run(ctx, records)
	out.Results = results
	out.Summary = model.Summarize(results)

	if st != nil {
		status := model.RunStatusComplete
		if runErr != nil {
			status = model.RunStatusCanceled
		}
		saveCtx := context.WithoutCancel(ctx)
		if err := st.SaveResults(saveCtx, out.RunID, results); err != nil {
			return out, eris.Wrap(err, "save results")
		}
		if err := st.CompleteRun(saveCtx, out.RunID, status, out.Summary); err != nil {
			return out, eris.Wrap(err, "complete run")
		}
	}

	return out, runErr
}
