package calculator

import (
	"testing"

	"factorindex/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func indexValues(values []domain.IndexValue) []float64 {
	out := []float64{}
	for _, v := range values {
		out = append(out, v.Value)
	}
	return out
}

func TestComputeIndexSeries(t *testing.T) {
	prices := domain.PriceSeries{
		"A": series(100, 110, 99, 108.9),
		"B": series(50, 50, 55, 55),
	}

	t.Run("chains returns from 100 with weights held between rebalances", func(t *testing.T) {
		allocations := []domain.AllocationSet{
			{Date: day(0), Weights: map[string]float64{"A": 0.5, "B": 0.5}},
		}

		got, err := ComputeIndexSeries(allocations, prices, days(0, 3))
		require.NoError(t, err)
		require.Len(t, got, 4)
		require.Equal(t, domain.IndexValue{Date: day(0), Value: 100}, got[0])
		require.Equal(t, "", cmp.Diff([]float64{100, 105, 105, 110.25}, indexValues(got), approx))
	})

	t.Run("new weights apply to returns after their date", func(t *testing.T) {
		allocations := []domain.AllocationSet{
			{Date: day(0), Weights: map[string]float64{"A": 0.5, "B": 0.5}},
			{Date: day(2), Weights: map[string]float64{"A": 1}},
		}

		got, err := ComputeIndexSeries(allocations, prices, days(0, 3))
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff([]float64{100, 105, 105, 115.5}, indexValues(got), approx))
	})

	t.Run("series starts on the first allocation date", func(t *testing.T) {
		allocations := []domain.AllocationSet{
			{Date: day(1), Weights: map[string]float64{"A": 1}},
		}

		got, err := ComputeIndexSeries(allocations, prices, days(0, 3))
		require.NoError(t, err)
		require.Equal(t, day(1), got[0].Date)
		require.Equal(t, "", cmp.Diff([]float64{100, 90, 99}, indexValues(got), approx))
	})

	t.Run("missing close contributes nothing until the asset trades again", func(t *testing.T) {
		gappy := domain.PriceSeries{
			"A": {{Date: day(0), Close: 100}, {Date: day(1), Close: 110}, {Date: day(3), Close: 121}},
			"B": series(50, 50, 50, 50),
		}
		allocations := []domain.AllocationSet{
			{Date: day(0), Weights: map[string]float64{"A": 0.5, "B": 0.5}},
		}

		got, err := ComputeIndexSeries(allocations, gappy, days(0, 3))
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff([]float64{100, 105, 105, 110.25}, indexValues(got), approx))
	})

	t.Run("recompute is bit identical", func(t *testing.T) {
		allocations := []domain.AllocationSet{
			{Date: day(0), Weights: map[string]float64{"A": 0.3, "B": 0.7}},
			{Date: day(1), Weights: map[string]float64{"A": 0.6, "B": 0.4}},
		}

		first, err := ComputeIndexSeries(allocations, prices, days(0, 3))
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			again, err := ComputeIndexSeries(allocations, prices, days(0, 3))
			require.NoError(t, err)
			require.Equal(t, first, again)
		}
	})

	t.Run("no allocations", func(t *testing.T) {
		got, err := ComputeIndexSeries(nil, prices, days(0, 3))
		require.NoError(t, err)
		require.Empty(t, got)
	})
}

func TestBenchmarkSeries(t *testing.T) {
	prices := domain.PriceSeries{
		"SPY": {{Date: day(0), Close: 200}, {Date: day(1), Close: 210}, {Date: day(3), Close: 220}},
	}

	got := BenchmarkSeries(prices, "SPY", day(0), days(0, 3))
	require.Equal(t, "", cmp.Diff([]float64{100, 105, 105, 110}, indexValues(got), approx))

	require.Empty(t, BenchmarkSeries(prices, "SPY", day(2), days(0, 3)))
}
