package calculator

import (
	"fmt"
	"sort"
	"time"

	"factorindex/internal/domain"
)

// ComputeIndexSeries chains daily portfolio returns from IndexBaseValue on
// the first allocation date. Weights decided on date D apply to the returns of
// trading days strictly after D and persist until the next set. An asset
// without a close on day t contributes no return that day; its next close is
// measured against its last known close.
//
// Symbols are summed in sorted order so recomputing the same inputs yields a
// bit-identical series.
func ComputeIndexSeries(allocations []domain.AllocationSet, prices domain.PriceSeries, tradingDays []time.Time) ([]domain.IndexValue, error) {
	if len(allocations) == 0 {
		return []domain.IndexValue{}, nil
	}
	sets := append([]domain.AllocationSet{}, allocations...)
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].Date.Before(sets[j].Date)
	})
	for _, set := range sets {
		if len(set.Weights) == 0 {
			return nil, fmt.Errorf("allocation set on %s is empty", set.Date.Format(time.DateOnly))
		}
	}

	days := append([]time.Time{}, tradingDays...)
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	closes := map[string]map[time.Time]float64{}
	for symbol, points := range prices {
		closes[symbol] = map[time.Time]float64{}
		for _, p := range points {
			closes[symbol][p.Date] = p.Close
		}
	}

	first := sets[0].Date
	out := []domain.IndexValue{{Date: first, Value: domain.IndexBaseValue}}
	symbols := keys(closes)

	current := sets[0]
	currentSymbols := keys(current.Weights)
	nextSet := 1
	lastClose := map[string]float64{}

	value := domain.IndexBaseValue
	for _, day := range days {
		if day.After(first) {
			for nextSet < len(sets) && sets[nextSet].Date.Before(day) {
				current = sets[nextSet]
				currentSymbols = keys(current.Weights)
				nextSet++
			}

			portfolioReturn := 0.0
			for _, s := range currentSymbols {
				c, ok := closes[s][day]
				if !ok {
					continue
				}
				if prev := lastClose[s]; prev > 0 {
					portfolioReturn += current.Weights[s] * (c/prev - 1)
				}
			}
			value = value * (1 + portfolioReturn)
			out = append(out, domain.IndexValue{Date: day, Value: value})
		}

		for _, s := range symbols {
			if c, ok := closes[s][day]; ok {
				lastClose[s] = c
			}
		}
	}

	return out, nil
}

// BenchmarkSeries rebases symbol's closes to IndexBaseValue on start, carrying
// the last close over days it has none.
func BenchmarkSeries(prices domain.PriceSeries, symbol string, start time.Time, tradingDays []time.Time) []domain.IndexValue {
	closes := map[time.Time]float64{}
	for _, p := range prices[symbol] {
		closes[p.Date] = p.Close
	}

	out := []domain.IndexValue{}
	base, ok := closes[start]
	if !ok || base <= 0 {
		return out
	}

	last := base
	for _, day := range tradingDays {
		if day.Before(start) {
			continue
		}
		if c, ok := closes[day]; ok {
			last = c
		}
		out = append(out, domain.IndexValue{Date: day, Value: domain.IndexBaseValue * last / base})
	}
	return out
}
