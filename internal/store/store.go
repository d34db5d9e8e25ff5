// Package store persists audit runs, their results and cached directory
// lookups.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nap-audit/internal/config"
	"github.com/sells-group/nap-audit/internal/model"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = eris.New("store: not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

const defaultListLimit = 100

// Store defines the persistence interface for audit runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, input string) (*model.Run, error)
	SaveResults(ctx context.Context, runID string, results []model.AuditResult) error
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary model.Summary) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)
	ListResults(ctx context.Context, runID string) ([]model.AuditResult, error)

	// Lookup cache. GetCachedLookup returns nil when there is no entry
	// younger than maxAge.
	GetCachedLookup(ctx context.Context, query string, maxAge time.Duration) (*model.CachedLookup, error)
	SetCachedLookup(ctx context.Context, entry model.CachedLookup) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the store selected by cfg.Driver. It returns nil, nil for
// the "none" driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("store: unsupported driver %q", cfg.Driver)
	}
}

func listLimit(n int) int {
	if n <= 0 {
		return defaultListLimit
	}
	return n
}
