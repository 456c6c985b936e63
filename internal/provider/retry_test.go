package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"factorindex/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return ctx.Err()
}

func TestRetryPolicy_Backoff(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}
	require.Equal(t, 100*time.Millisecond, p.Backoff(0))
	require.Equal(t, 200*time.Millisecond, p.Backoff(1))
	require.Equal(t, 400*time.Millisecond, p.Backoff(2))
	require.Equal(t, 800*time.Millisecond, p.Backoff(3))
	require.Equal(t, time.Second, p.Backoff(4))
	require.Equal(t, time.Second, p.Backoff(30))
}

func TestRetryingFetcher(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second}
	req := Request{Endpoint: EndpointDailyCloses, Symbols: []string{"AAA"}}

	newFetcher := func(errs ...error) (*int, *sleepRecorder, Fetcher) {
		calls := 0
		recorder := &sleepRecorder{}
		next := FetcherFunc(func(ctx context.Context, req Request) (*Response, error) {
			defer func() { calls++ }()
			if calls < len(errs) && errs[calls] != nil {
				return nil, errs[calls]
			}
			return &Response{Prices: map[string][]domain.PricePoint{}}, nil
		})
		return &calls, recorder, retryingFetcher{next: next, policy: policy, sleep: recorder.sleep}
	}

	t.Run("retries server errors with exponential backoff", func(t *testing.T) {
		calls, recorder, f := newFetcher(unavailable(), unavailable())

		resp, err := f.Fetch(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, resp)
		require.Equal(t, 3, *calls)
		require.Equal(t, "", cmp.Diff([]time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, recorder.waits))
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls, recorder, f := newFetcher(unavailable(), unavailable(), unavailable(), unavailable())

		_, err := f.Fetch(context.Background(), req)
		var providerErr *domain.ProviderError
		require.True(t, errors.As(err, &providerErr))
		require.Equal(t, http.StatusServiceUnavailable, providerErr.StatusCode)
		require.Equal(t, 3, *calls)
		require.Len(t, recorder.waits, 2)
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		calls, recorder, f := newFetcher(&domain.ProviderError{Provider: "test", StatusCode: http.StatusNotFound})

		_, err := f.Fetch(context.Background(), req)
		require.Error(t, err)
		require.Equal(t, 1, *calls)
		require.Empty(t, recorder.waits)
	})

	t.Run("rate limited responses honor retry after", func(t *testing.T) {
		calls, recorder, f := newFetcher(&domain.ProviderError{
			Provider:   "test",
			StatusCode: http.StatusTooManyRequests,
			RetryAfter: 5 * time.Second,
		})

		_, err := f.Fetch(context.Background(), req)
		require.NoError(t, err)
		require.Equal(t, 2, *calls)
		require.Equal(t, "", cmp.Diff([]time.Duration{5 * time.Second}, recorder.waits))
	})

	t.Run("timeouts are retried", func(t *testing.T) {
		calls, _, f := newFetcher(&domain.ProviderError{Provider: "test", Timeout: true})

		_, err := f.Fetch(context.Background(), req)
		require.NoError(t, err)
		require.Equal(t, 2, *calls)
	})

	t.Run("local rate limiting is not retried", func(t *testing.T) {
		calls, _, f := newFetcher(&domain.RateLimitedError{Provider: "test", RetryAfter: time.Second})

		_, err := f.Fetch(context.Background(), req)
		var rateLimited *domain.RateLimitedError
		require.True(t, errors.As(err, &rateLimited))
		require.Equal(t, 1, *calls)
	})

	t.Run("re-attempt without a token returns the upstream failure", func(t *testing.T) {
		limiter := NewRateLimiter("test", 1, 1, false)
		require.NoError(t, limiter.Acquire(context.Background()))

		calls := 0
		upstream := FetcherFunc(func(ctx context.Context, req Request) (*Response, error) {
			calls++
			return nil, unavailable()
		})
		recorder := &sleepRecorder{}
		f := retryingFetcher{next: withRateLimit(upstream, limiter), policy: policy, sleep: recorder.sleep}

		// the first attempt spends a token taken by the breaker layer
		_, err := f.Fetch(withHeldToken(context.Background()), req)
		var providerErr *domain.ProviderError
		require.True(t, errors.As(err, &providerErr))
		require.Equal(t, http.StatusServiceUnavailable, providerErr.StatusCode)
		require.Equal(t, 1, calls)
		require.Len(t, recorder.waits, 1)
	})

	t.Run("cancellation during backoff stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls, _, f := newFetcher(unavailable(), unavailable())

		_, err := f.Fetch(ctx, req)
		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, 1, *calls)
	})
}
