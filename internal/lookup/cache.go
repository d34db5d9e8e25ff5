package lookup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/nap-audit/internal/match"
	"github.com/sells-group/nap-audit/internal/model"
)

// Cache stores directory answers. GetCachedLookup returns nil on a miss or
// when the entry is older than maxAge.
type Cache interface {
	GetCachedLookup(ctx context.Context, query string, maxAge time.Duration) (*model.CachedLookup, error)
	SetCachedLookup(ctx context.Context, entry model.CachedLookup) error
}

// Cached serves Found and NotFound answers from a Cache and fills it from
// the wrapped provider. Failed results are never cached. Cache errors are
// logged and otherwise ignored.
type Cached struct {
	next   Provider
	cache  Cache
	maxAge time.Duration
	now    func() time.Time
}

// NewCached wraps next with cache. A maxAge of zero or less returns next
// unchanged.
func NewCached(next Provider, cache Cache, maxAge time.Duration) Provider {
	if cache == nil || maxAge <= 0 {
		return next
	}
	return &Cached{next: next, cache: cache, maxAge: maxAge, now: time.Now}
}

// CacheKey normalizes a query so trivially different spellings share an
// entry.
func CacheKey(query string) string {
	return match.NormalizeText(query)
}

// Lookup implements Provider.
func (c *Cached) Lookup(ctx context.Context, query string) Result {
	key := CacheKey(query)

	entry, err := c.cache.GetCachedLookup(ctx, key, c.maxAge)
	if err != nil {
		zap.L().Warn("lookup cache read failed", zap.String("query", query), zap.Error(err))
	} else if entry != nil {
		if entry.Found {
			return Found(entry.Candidate)
		}
		return NotFound()
	}

	res := c.next.Lookup(ctx, query)
	if res.Kind == KindFailed {
		return res
	}

	put := model.CachedLookup{
		Query:     key,
		Found:     res.Kind == KindFound,
		Candidate: res.Candidate,
		CachedAt:  c.now().UTC(),
	}
	if err := c.cache.SetCachedLookup(ctx, put); err != nil {
		zap.L().Warn("lookup cache write failed", zap.String("query", query), zap.Error(err))
	}
	return res
}
