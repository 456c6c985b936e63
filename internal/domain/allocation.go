package domain

import (
	"sort"
	"time"
)

type Allocation struct {
	Date          time.Time `json:"date"`
	Symbol        string    `json:"symbol"`
	Weight        float64   `json:"weight"`
	ConfigVersion int32     `json:"configVersion"`
}

// AllocationSet is the full set of weights decided on one rebalance date.
type AllocationSet struct {
	Date          time.Time          `json:"date"`
	ConfigVersion int32              `json:"configVersion"`
	Weights       map[string]float64 `json:"weights"`
}

func (a AllocationSet) Sum() float64 {
	total := 0.0
	for _, w := range a.Weights {
		total += w
	}
	return total
}

func (a AllocationSet) ToAllocations() []Allocation {
	symbols := make([]string, 0, len(a.Weights))
	for s := range a.Weights {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	out := make([]Allocation, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, Allocation{
			Date:          a.Date,
			Symbol:        s,
			Weight:        a.Weights[s],
			ConfigVersion: a.ConfigVersion,
		})
	}
	return out
}

// GroupAllocations folds flat allocation rows into sets ordered by date.
func GroupAllocations(in []Allocation) []AllocationSet {
	byDate := map[time.Time]*AllocationSet{}
	for _, a := range in {
		set, ok := byDate[a.Date]
		if !ok {
			set = &AllocationSet{
				Date:          a.Date,
				ConfigVersion: a.ConfigVersion,
				Weights:       map[string]float64{},
			}
			byDate[a.Date] = set
		}
		set.Weights[a.Symbol] = a.Weight
	}

	out := make([]AllocationSet, 0, len(byDate))
	for _, set := range byDate {
		out = append(out, *set)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
