package calculator

import (
	"fmt"
	"math"

	"factorindex/internal/domain"
)

const (
	weightTolerance         = 1e-6
	maxConstraintIterations = 100
)

// CombineWeights blends the factor scores by the configured factor weights.
func CombineWeights(scores FactorScores, weights domain.FactorWeights) map[string]float64 {
	out := map[string]float64{}
	for _, symbol := range scores.Included {
		out[symbol] = weights.Momentum*scores.Momentum[symbol] +
			weights.MarketCap*scores.MarketCap[symbol] +
			weights.RiskParity*scores.RiskParity[symbol]
	}
	return out
}

// ApplyConstraints drops weights under the floor, caps weights at the max
// redistributing the excess over uncapped assets in proportion, and repeats
// until stable. Surviving weights sum to exactly 1.
func ApplyConstraints(weights map[string]float64, c domain.Constraints) (map[string]float64, error) {
	w := map[string]float64{}
	for s, v := range weights {
		if v > 0 {
			w[s] = v
		}
	}

	for i := 0; i < maxConstraintIterations; i++ {
		for s, v := range w {
			if v < c.MinWeight {
				delete(w, s)
			}
		}
		if len(w) < c.MinAssets || len(w) == 0 {
			return nil, &domain.InsufficientAssetsError{
				Required:  c.MinAssets,
				Available: len(w),
				Reason:    "too few assets above the minimum weight",
			}
		}
		if float64(len(w))*c.MaxWeight < 1-weightTolerance {
			return nil, &domain.InsufficientAssetsError{
				Required:  int(math.Ceil(1/c.MaxWeight - weightTolerance)),
				Available: len(w),
				Reason:    fmt.Sprintf("max weight %.4f cannot be satisfied", c.MaxWeight),
			}
		}

		w = normalizeScores(w)
		w = capWeights(w, c.MaxWeight)

		if withinConstraints(w, c) {
			break
		}
	}

	w = normalizeScores(w)
	if err := validateWeights(w, c); err != nil {
		return nil, err
	}
	return w, nil
}

func capWeights(w map[string]float64, limit float64) map[string]float64 {
	capped := map[string]bool{}
	for {
		excess := 0.0
		for _, s := range keys(w) {
			if !capped[s] && w[s] > limit {
				excess += w[s] - limit
				w[s] = limit
				capped[s] = true
			}
		}
		if excess == 0 {
			return w
		}

		uncappedTotal := 0.0
		for _, s := range keys(w) {
			if !capped[s] {
				uncappedTotal += w[s]
			}
		}
		if uncappedTotal == 0 {
			return w
		}
		for _, s := range keys(w) {
			if !capped[s] {
				w[s] += excess * w[s] / uncappedTotal
			}
		}
	}
}

func withinConstraints(w map[string]float64, c domain.Constraints) bool {
	for _, v := range w {
		if v < c.MinWeight || v > c.MaxWeight+weightTolerance {
			return false
		}
	}
	return true
}

func validateWeights(w map[string]float64, c domain.Constraints) error {
	sum := 0.0
	for symbol, v := range w {
		if math.IsNaN(v) {
			return fmt.Errorf("invalid weight NaN for %s", symbol)
		}
		if v < c.MinWeight-weightTolerance || v > c.MaxWeight+weightTolerance {
			return fmt.Errorf("weight %f for %s outside [%f, %f]", v, symbol, c.MinWeight, c.MaxWeight)
		}
		sum += v
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("new weight should sum to 1, got %f", sum)
	}
	return nil
}

type ComputeAllocationResult struct {
	Allocation domain.AllocationSet
	Scores     FactorScores
}

// ComputeAllocation scores the universe and turns the scores into a
// constrained allocation set for in.Date.
func ComputeAllocation(in ScoreFactorsInput) (*ComputeAllocationResult, error) {
	scores, err := ScoreFactors(in)
	if err != nil {
		return nil, fmt.Errorf("failed to score factors: %w", err)
	}
	if len(scores.Included) < in.Config.Constraints.MinAssets {
		return nil, &domain.InsufficientAssetsError{
			Required:  in.Config.Constraints.MinAssets,
			Available: len(scores.Included),
			Reason:    "too few assets survived filtering",
		}
	}

	combined := CombineWeights(*scores, in.Config.FactorWeights)
	weights, err := ApplyConstraints(combined, in.Config.Constraints)
	if err != nil {
		return nil, err
	}

	return &ComputeAllocationResult{
		Allocation: domain.AllocationSet{
			Date:          in.Date,
			ConfigVersion: in.Config.Version,
			Weights:       weights,
		},
		Scores: *scores,
	}, nil
}
