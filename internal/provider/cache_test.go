package provider

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"factorindex/internal/domain"

	"github.com/go-redis/redismock/v8"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	r := domain.DateRange{
		Start: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	t.Run("symbol order does not matter", func(t *testing.T) {
		a := CacheKey("alpaca", Request{Endpoint: EndpointDailyCloses, Symbols: []string{"AAA", "BBB"}, Range: r})
		b := CacheKey("alpaca", Request{Endpoint: EndpointDailyCloses, Symbols: []string{"BBB", "AAA"}, Range: r})
		require.Equal(t, a, b)
	})

	t.Run("provider endpoint and range are part of the key", func(t *testing.T) {
		base := Request{Endpoint: EndpointDailyCloses, Symbols: []string{"AAA"}, Range: r}
		key := CacheKey("alpaca", base)
		require.NotEqual(t, key, CacheKey("yahoo", base))

		otherEndpoint := base
		otherEndpoint.Endpoint = EndpointMarketCaps
		require.NotEqual(t, key, CacheKey("alpaca", otherEndpoint))

		otherRange := base
		otherRange.Range.End = r.End.AddDate(0, 0, 1)
		require.NotEqual(t, key, CacheKey("alpaca", otherRange))
	})

	t.Run("latest requests have no range", func(t *testing.T) {
		key := CacheKey("alpaca", Request{Endpoint: EndpointLatestQuotes, Symbols: []string{"AAA"}})
		require.Contains(t, key, "md:alpaca:latest_quotes:latest:")
	})
}

func TestTTLPolicy_For(t *testing.T) {
	p := DefaultTTLPolicy()
	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)

	require.Equal(t, time.Minute, p.For(Request{Endpoint: EndpointLatestQuotes}, now))
	require.Equal(t, time.Hour, p.For(Request{Endpoint: EndpointFxRates}, now))
	require.Equal(t, 7*24*time.Hour, p.For(Request{Endpoint: EndpointMarketCaps}, now))

	historical := Request{Endpoint: EndpointDailyCloses, Range: domain.DateRange{
		Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
	}}
	require.Equal(t, 7*24*time.Hour, p.For(historical, now))

	recent := historical
	recent.Range.End = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 15*time.Minute, p.For(recent, now))
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	val, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), val)

	now = now.Add(time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet("k").RedisNil()

		_, ok, err := NewRedisCache(client).Get(ctx, "k")
		require.NoError(t, err)
		require.False(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hit", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet("k").SetVal("cached")

		val, ok, err := NewRedisCache(client).Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "cached", string(val))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set with ttl", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectSet("k", []byte("v"), time.Hour).SetVal("OK")

		require.NoError(t, NewRedisCache(client).Set(ctx, "k", []byte("v"), time.Hour))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("errors surface", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet("k").SetErr(errors.New("connection refused"))

		_, _, err := NewRedisCache(client).Get(ctx, "k")
		require.Error(t, err)
	})
}

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("cache down")
}

func (failingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("cache down")
}

func TestCachingFetcher(t *testing.T) {
	ctx := context.Background()
	req := Request{Endpoint: EndpointLatestQuotes, Symbols: []string{"AAA"}}
	quote := domain.PricePoint{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 101.5}

	t.Run("second identical request is served from cache", func(t *testing.T) {
		calls := 0
		next := FetcherFunc(func(ctx context.Context, req Request) (*Response, error) {
			calls++
			return &Response{Quotes: map[string]domain.PricePoint{"AAA": quote}}, nil
		})
		metrics := NewMetrics(prometheus.NewRegistry())
		f := withCache(next, "alpaca", NewMemoryCache(), DefaultTTLPolicy(), metrics)

		first, err := f.Fetch(ctx, req)
		require.NoError(t, err)
		second, err := f.Fetch(ctx, req)
		require.NoError(t, err)

		require.Equal(t, 1, calls)
		require.Equal(t, "", cmp.Diff(first, second))
		require.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheLookups.WithLabelValues("alpaca", "latest_quotes", "hit")))
		require.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheLookups.WithLabelValues("alpaca", "latest_quotes", "miss")))
	})

	t.Run("errors are not cached", func(t *testing.T) {
		calls := 0
		next := FetcherFunc(func(ctx context.Context, req Request) (*Response, error) {
			calls++
			return nil, unavailable()
		})
		f := withCache(next, "alpaca", NewMemoryCache(), DefaultTTLPolicy(), nil)

		_, err := f.Fetch(ctx, req)
		require.Error(t, err)
		_, err = f.Fetch(ctx, req)
		require.Error(t, err)
		require.Equal(t, 2, calls)
	})

	t.Run("cache failures fall through to the upstream", func(t *testing.T) {
		next := FetcherFunc(func(ctx context.Context, req Request) (*Response, error) {
			return &Response{Quotes: map[string]domain.PricePoint{"AAA": quote}}, nil
		})
		f := withCache(next, "alpaca", failingCache{}, DefaultTTLPolicy(), nil)

		resp, err := f.Fetch(ctx, req)
		require.NoError(t, err)
		require.Equal(t, quote, resp.Quotes["AAA"])
	})

	t.Run("unreadable entries are refetched", func(t *testing.T) {
		cache := NewMemoryCache()
		require.NoError(t, cache.Set(ctx, CacheKey("alpaca", req), []byte("{not json"), time.Minute))

		calls := 0
		next := FetcherFunc(func(ctx context.Context, req Request) (*Response, error) {
			calls++
			return &Response{Quotes: map[string]domain.PricePoint{"AAA": quote}}, nil
		})
		f := withCache(next, "alpaca", cache, DefaultTTLPolicy(), nil)

		_, err := f.Fetch(ctx, req)
		require.NoError(t, err)
		require.Equal(t, 1, calls)

		stored, ok, err := cache.Get(ctx, CacheKey("alpaca", req))
		require.NoError(t, err)
		require.True(t, ok)
		resp := Response{}
		require.NoError(t, json.Unmarshal(stored, &resp))
		require.Equal(t, quote, resp.Quotes["AAA"])
	})
}
