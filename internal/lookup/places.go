package lookup

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/nap-audit/internal/model"
	"github.com/sells-group/nap-audit/internal/resilience"
	"github.com/sells-group/nap-audit/pkg/google"
)

// Places resolves queries with Google Places: a text search picks the first
// place, then a details request fills in its address and phone.
type Places struct {
	client  google.Client
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// PlacesOption configures Places.
type PlacesOption func(*Places)

// WithRetry sets the retry policy. ShouldRetry is always replaced with the
// Places-aware check.
func WithRetry(cfg resilience.RetryConfig) PlacesOption {
	return func(p *Places) { p.retry = cfg }
}

// WithBreaker guards every request with cb.
func WithBreaker(cb *resilience.CircuitBreaker) PlacesOption {
	return func(p *Places) { p.breaker = cb }
}

// NewPlaces creates a Places provider.
func NewPlaces(client google.Client, opts ...PlacesOption) *Places {
	p := &Places{
		client: client,
		retry:  resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(p)
	}
	if p.breaker == nil {
		p.breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Name: "places"})
	}
	p.retry.ShouldRetry = retryable
	if p.retry.OnRetry == nil {
		p.retry.OnRetry = resilience.RetryLogger("places.lookup")
	}
	return p
}

// Lookup runs the two-step search. It never returns an error: failures are
// reported as KindFailed.
func (p *Places) Lookup(ctx context.Context, query string) Result {
	c, err := resilience.DoVal(ctx, p.retry, func(ctx context.Context) (*model.CandidateRecord, error) {
		return resilience.ExecuteVal(ctx, p.breaker, func(ctx context.Context) (*model.CandidateRecord, error) {
			return p.lookupOnce(ctx, query)
		})
	})
	switch {
	case err != nil:
		zap.L().Debug("places lookup failed", zap.String("query", query), zap.Error(err))
		return Failed(err)
	case c == nil:
		return NotFound()
	default:
		return Found(*c)
	}
}

// lookupOnce returns nil without error when the directory has no match.
func (p *Places) lookupOnce(ctx context.Context, query string) (*model.CandidateRecord, error) {
	search, err := p.client.TextSearch(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "places: text search")
	}
	if search == nil || len(search.Places) == 0 {
		return nil, nil
	}
	first := search.Places[0]

	details, err := p.client.GetPlace(ctx, first.ID)
	if errors.Is(err, google.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "places: details %s", first.ID)
	}
	if details == nil || (details.FormattedAddress == "" && details.NationalPhoneNumber == "" && details.DisplayName.Text == "") {
		return nil, nil
	}

	name := first.DisplayName.Text
	if name == "" {
		name = details.DisplayName.Text
	}
	return &model.CandidateRecord{
		Name:    name,
		Phone:   details.NationalPhoneNumber,
		Address: details.FormattedAddress,
		ID:      first.ID,
	}, nil
}

func retryable(err error) bool {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return false
	}
	var apiErr *google.APIError
	if errors.As(err, &apiErr) {
		return resilience.IsTransientHTTPStatus(apiErr.StatusCode)
	}
	return resilience.IsTransient(err)
}
