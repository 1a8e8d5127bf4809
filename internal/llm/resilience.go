package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerProvider wraps a provider with a circuit breaker so that a failing
// model API stops eating the per-document timeout of every batch job.
type BreakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker[*CompletionResponse]
}

// WithBreaker wraps a provider. Opens after 3 consecutive failures, probes
// again after 30 seconds.
func WithBreaker(inner Provider) *BreakerProvider {
	cb := gobreaker.NewCircuitBreaker[*CompletionResponse](gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &BreakerProvider{inner: inner, cb: cb}
}

// Name returns the wrapped provider name
func (b *BreakerProvider) Name() string {
	return b.inner.Name()
}

// IsAvailable delegates to the wrapped provider
func (b *BreakerProvider) IsAvailable(ctx context.Context) bool {
	return b.inner.IsAvailable(ctx)
}

// Complete executes the call through the breaker
func (b *BreakerProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	resp, err := b.cb.Execute(func() (*CompletionResponse, error) {
		return b.inner.Complete(ctx, req)
	})
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) {
			return nil, err
		}
		// breaker-originated error (open circuit, too many requests)
		return nil, &ProviderError{Provider: b.inner.Name(), Err: err}
	}
	return resp, nil
}
