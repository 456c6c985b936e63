package provider

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
)

// Metrics is nil safe so tests can pass nil.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	breakerStates   *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factorindex",
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Network requests to market data providers by outcome.",
		}, []string{"provider", "endpoint", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "factorindex",
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "Latency of network requests to market data providers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "endpoint"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factorindex",
			Subsystem: "provider",
			Name:      "cache_lookups_total",
			Help:      "Provider response cache lookups by result.",
		}, []string{"provider", "endpoint", "result"}),
		breakerStates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "factorindex",
			Subsystem: "provider",
			Name:      "breaker_state",
			Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
		}, []string{"provider"}),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.cacheLookups, m.breakerStates)
	return m
}

func (m *Metrics) request(provider string, endpoint Endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(provider, string(endpoint), outcome).Inc()
	m.requestDuration.WithLabelValues(provider, string(endpoint)).Observe(elapsed.Seconds())
}

func (m *Metrics) cacheLookup(provider string, endpoint Endpoint, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(provider, string(endpoint), result).Inc()
}

func (m *Metrics) breakerState(provider string, state gobreaker.State) {
	if m == nil {
		return
	}
	m.breakerStates.WithLabelValues(provider).Set(float64(state))
}

func instrument(next Source, provider string, metrics *Metrics) Fetcher {
	return FetcherFunc(func(ctx context.Context, req Request) (*Response, error) {
		start := time.Now()
		resp, err := next.Fetch(ctx, req)
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		metrics.request(provider, req.Endpoint, outcome, time.Since(start))
		return resp, err
	})
}
