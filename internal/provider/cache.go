package provider

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"factorindex/internal/logger"

	"github.com/go-redis/redis/v8"
)

// Cache stores serialized provider responses. Writes are idempotent so
// concurrent fills of the same key are harmless.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) Cache {
	return redisCache{client: client}
}

func (c redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s from redis: %w", key, err)
	}
	return val, true, nil
}

func (c redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s in redis: %w", key, err)
	}
	return nil
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is the in-process fallback used when no redis address is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: map[string]memoryEntry{},
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

type TTLPolicy struct {
	LatestQuotes  time.Duration `yaml:"latestQuotes"`
	RecentHistory time.Duration `yaml:"recentHistory"`
	History       time.Duration `yaml:"history"`
	FxRates       time.Duration `yaml:"fxRates"`
	MarketCaps    time.Duration `yaml:"marketCaps"`
}

func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		LatestQuotes:  time.Minute,
		RecentHistory: 15 * time.Minute,
		History:       7 * 24 * time.Hour,
		FxRates:       time.Hour,
		MarketCaps:    7 * 24 * time.Hour,
	}
}

// For picks the ttl of a request. Ranges that reach today can still change,
// so they get the short recent ttl instead of the historical one.
func (p TTLPolicy) For(req Request, now time.Time) time.Duration {
	switch req.Endpoint {
	case EndpointLatestQuotes:
		return p.LatestQuotes
	case EndpointFxRates:
		return p.FxRates
	case EndpointMarketCaps:
		return p.MarketCaps
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !req.Range.End.Before(today) {
		return p.RecentHistory
	}
	return p.History
}

// CacheKey identifies (provider, endpoint, symbol set, date range).
func CacheKey(provider string, req Request) string {
	symbols := append([]string{}, req.Symbols...)
	sort.Strings(symbols)
	h := sha1.Sum([]byte(strings.Join(symbols, ",")))

	rangePart := "latest"
	if !req.Range.Start.IsZero() || !req.Range.End.IsZero() {
		rangePart = req.Range.String()
	}

	return fmt.Sprintf("md:%s:%s:%s:%s", provider, req.Endpoint, rangePart, hex.EncodeToString(h[:8]))
}

type cachingFetcher struct {
	next     Fetcher
	provider string
	cache    Cache
	ttl      TTLPolicy
	metrics  *Metrics
	now      func() time.Time
}

func withCache(next Fetcher, provider string, cache Cache, ttl TTLPolicy, metrics *Metrics) Fetcher {
	return cachingFetcher{
		next:     next,
		provider: provider,
		cache:    cache,
		ttl:      ttl,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Fetch serves hits without touching the breaker, limiter or network. Cache
// failures are logged and treated as misses.
func (f cachingFetcher) Fetch(ctx context.Context, req Request) (*Response, error) {
	log := logger.FromContext(ctx)
	key := CacheKey(f.provider, req)

	cached, ok, err := f.cache.Get(ctx, key)
	if err != nil {
		log.Warnf("cache get failed for %s: %s", key, err.Error())
		f.metrics.cacheLookup(f.provider, req.Endpoint, "error")
	} else if ok {
		resp := Response{}
		if err := json.Unmarshal(cached, &resp); err == nil {
			f.metrics.cacheLookup(f.provider, req.Endpoint, "hit")
			return &resp, nil
		}
		log.Warnf("discarding unreadable cache entry %s", key)
		f.metrics.cacheLookup(f.provider, req.Endpoint, "miss")
	} else {
		f.metrics.cacheLookup(f.provider, req.Endpoint, "miss")
	}

	resp, err := f.next.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	bytes, err := json.Marshal(resp)
	if err != nil {
		log.Warnf("failed to marshal %s response for cache: %s", req.Endpoint, err.Error())
		return resp, nil
	}
	if err := f.cache.Set(ctx, key, bytes, f.ttl.For(req, f.now())); err != nil {
		log.Warnf("cache set failed for %s: %s", key, err.Error())
	}

	return resp, nil
}
