// Package lookup is the boundary to the external business directory. Every
// lookup ends in exactly one of three outcomes: a candidate was found, the
// directory had nothing, or the lookup failed.
package lookup

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nap-audit/internal/model"
)

var errUnknown = eris.New("lookup: unknown error")

// Kind discriminates a Result.
type Kind int

const (
	KindFound Kind = iota + 1
	KindNotFound
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindFound:
		return "found"
	case KindNotFound:
		return "not_found"
	case KindFailed:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of one lookup. Candidate is set only for KindFound
// and Err only for KindFailed.
type Result struct {
	Kind      Kind
	Candidate model.CandidateRecord
	Err       error
}

// Found wraps a candidate.
func Found(c model.CandidateRecord) Result {
	return Result{Kind: KindFound, Candidate: c}
}

// NotFound reports that the directory returned no candidate.
func NotFound() Result {
	return Result{Kind: KindNotFound}
}

// Failed reports a transport, HTTP or decoding failure. A nil err is
// replaced so the failure is never silent.
func Failed(err error) Result {
	if err == nil {
		err = errUnknown
	}
	return Result{Kind: KindFailed, Err: err}
}

// Provider resolves a free-text query to at most one candidate.
type Provider interface {
	Lookup(ctx context.Context, query string) Result
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, query string) Result

// Lookup calls f.
func (f ProviderFunc) Lookup(ctx context.Context, query string) Result {
	return f(ctx, query)
}
