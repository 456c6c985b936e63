package calculator

import (
	"math"
	"sort"
	"time"

	"factorindex/internal/domain"

	"github.com/montanaflynn/stats"
)

const (
	tradingDaysPerYear = 252
	DefaultMinSample   = 10
)

type RiskMetricsInput struct {
	AsOf       time.Time
	WindowDays int
	Index      []domain.IndexValue
	Benchmark  []domain.IndexValue
	// RiskFreeDaily is the daily risk free rate used by Sharpe and Sortino
	RiskFreeDaily float64
	MinSample     int
}

// ComputeRiskMetrics computes one snapshot over the trailing calendar window
// ending on AsOf, or all history when WindowDays is 0. Any metric without
// enough observations stays nil.
func ComputeRiskMetrics(in RiskMetricsInput) domain.RiskMetricSnapshot {
	minSample := in.MinSample
	if minSample <= 0 {
		minSample = DefaultMinSample
	}

	window := windowValues(in.Index, in.AsOf, in.WindowDays)
	returns := valueReturns(window)

	snapshot := domain.RiskMetricSnapshot{
		Date:            in.AsOf,
		WindowDays:      in.WindowDays,
		NumObservations: len(returns),
	}
	if len(returns) < minSample {
		return snapshot
	}

	mean, _ := stats.Mean(returns)
	stdev, err := stats.StandardDeviationSample(returns)
	if err == nil {
		snapshot.Volatility = ptr(stdev * math.Sqrt(tradingDaysPerYear))
		if stdev > 0 {
			snapshot.Sharpe = ptr((mean - in.RiskFreeDaily) / stdev * math.Sqrt(tradingDaysPerYear))
		}
	}

	downside := []float64{}
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) >= 2 {
		downsideDev, err := stats.StandardDeviationSample(downside)
		if err == nil && downsideDev > 0 {
			snapshot.Sortino = ptr((mean - in.RiskFreeDaily) / downsideDev * math.Sqrt(tradingDaysPerYear))
		}
	}

	maxDrawdown, currentDrawdown := drawdowns(window)
	snapshot.MaxDrawdown = ptr(maxDrawdown)
	snapshot.CurrentDrawdown = ptr(currentDrawdown)

	if v, err := stats.PercentileNearestRank(returns, 5); err == nil {
		snapshot.VaR95 = ptr(v)
	}
	if v, err := stats.PercentileNearestRank(returns, 1); err == nil {
		snapshot.VaR99 = ptr(v)
	}

	indexReturns, benchmarkReturns := alignedReturns(window, in.Benchmark)
	if len(indexReturns) >= minSample {
		variance, err := stats.SampleVariance(benchmarkReturns)
		if err == nil && variance > 0 {
			covariance, err := stats.Covariance(indexReturns, benchmarkReturns)
			if err == nil {
				snapshot.Beta = ptr(covariance / variance)
			}
			correlation, err := stats.Correlation(indexReturns, benchmarkReturns)
			if err == nil && !math.IsNaN(correlation) {
				snapshot.Correlation = ptr(correlation)
			}
		}
	}

	return snapshot
}

// ComputeRiskSnapshots computes a snapshot per window as of the latest index date.
func ComputeRiskSnapshots(index, benchmark []domain.IndexValue, windows []int, riskFreeDaily float64, minSample int) []domain.RiskMetricSnapshot {
	if len(index) == 0 {
		return []domain.RiskMetricSnapshot{}
	}
	asOf := index[0].Date
	for _, v := range index {
		if v.Date.After(asOf) {
			asOf = v.Date
		}
	}

	out := []domain.RiskMetricSnapshot{}
	for _, w := range windows {
		out = append(out, ComputeRiskMetrics(RiskMetricsInput{
			AsOf:          asOf,
			WindowDays:    w,
			Index:         index,
			Benchmark:     benchmark,
			RiskFreeDaily: riskFreeDaily,
			MinSample:     minSample,
		}))
	}
	return out
}

func windowValues(values []domain.IndexValue, asOf time.Time, windowDays int) []domain.IndexValue {
	start := time.Time{}
	if windowDays != domain.AllTimeWindow {
		start = asOf.AddDate(0, 0, -windowDays)
	}
	out := []domain.IndexValue{}
	for _, v := range values {
		if v.Date.Before(start) || v.Date.After(asOf) {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func valueReturns(values []domain.IndexValue) []float64 {
	out := []float64{}
	for i := 1; i < len(values); i++ {
		if values[i-1].Value == 0 {
			continue
		}
		out = append(out, values[i].Value/values[i-1].Value-1)
	}
	return out
}

// drawdowns tracks a running peak and returns the largest and the latest
// decline from it, as positive fractions.
func drawdowns(values []domain.IndexValue) (float64, float64) {
	peak := 0.0
	maxDrawdown := 0.0
	current := 0.0
	for _, v := range values {
		if v.Value > peak {
			peak = v.Value
		}
		if peak <= 0 {
			continue
		}
		current = (peak - v.Value) / peak
		if current > maxDrawdown {
			maxDrawdown = current
		}
	}
	return maxDrawdown, current
}

// alignedReturns pairs index and benchmark returns over the same consecutive
// date pairs, skipping pairs the benchmark does not cover.
func alignedReturns(index, benchmark []domain.IndexValue) ([]float64, []float64) {
	bench := map[time.Time]float64{}
	for _, v := range benchmark {
		bench[v.Date] = v.Value
	}

	indexReturns := []float64{}
	benchmarkReturns := []float64{}
	for i := 1; i < len(index); i++ {
		prev, cur := index[i-1], index[i]
		bPrev, ok1 := bench[prev.Date]
		bCur, ok2 := bench[cur.Date]
		if !ok1 || !ok2 || prev.Value == 0 || bPrev == 0 {
			continue
		}
		indexReturns = append(indexReturns, cur.Value/prev.Value-1)
		benchmarkReturns = append(benchmarkReturns, bCur/bPrev-1)
	}
	return indexReturns, benchmarkReturns
}

func ptr[T any](v T) *T {
	return &v
}
