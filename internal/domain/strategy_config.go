package domain

import (
	"fmt"
	"math"
	"time"
)

type RebalanceFrequency string

const (
	RebalanceDaily   RebalanceFrequency = "daily"
	RebalanceWeekly  RebalanceFrequency = "weekly"
	RebalanceMonthly RebalanceFrequency = "monthly"
)

// NextDue is the first date a rebalance is due after last.
func (f RebalanceFrequency) NextDue(last time.Time) time.Time {
	switch f {
	case RebalanceWeekly:
		return last.AddDate(0, 0, 7)
	case RebalanceMonthly:
		return last.AddDate(0, 1, 0)
	default:
		return last.AddDate(0, 0, 1)
	}
}

type MomentumNormalization string

const (
	NormalizeRank   MomentumNormalization = "rank"
	NormalizeZScore MomentumNormalization = "zscore"
)

type FactorWeights struct {
	Momentum   float64 `json:"momentum" yaml:"momentum"`
	MarketCap  float64 `json:"marketCap" yaml:"marketCap"`
	RiskParity float64 `json:"riskParity" yaml:"riskParity"`
}

func (f FactorWeights) Sum() float64 {
	return f.Momentum + f.MarketCap + f.RiskParity
}

type Thresholds struct {
	MinPrice            float64 `json:"minPrice" yaml:"minPrice"`
	DailyDropThreshold  float64 `json:"dailyDropThreshold" yaml:"dailyDropThreshold"`
	OutlierStdThreshold float64 `json:"outlierStdThreshold" yaml:"outlierStdThreshold"`
	MaxForwardFillDays  int     `json:"maxForwardFillDays" yaml:"maxForwardFillDays"`
	MinDailyReturn      float64 `json:"minDailyReturn" yaml:"minDailyReturn"`
	MaxDailyReturn      float64 `json:"maxDailyReturn" yaml:"maxDailyReturn"`
}

type Constraints struct {
	MaxWeight float64 `json:"maxWeight" yaml:"maxWeight"`
	MinWeight float64 `json:"minWeight" yaml:"minWeight"`
	MinAssets int     `json:"minAssets" yaml:"minAssets"`
}

// StrategyConfig is versioned and append-only. Computations take it by value
// so a concurrent update never changes a run halfway through.
type StrategyConfig struct {
	Version               int32                 `json:"version" yaml:"-"`
	FactorWeights         FactorWeights         `json:"factorWeights" yaml:"factorWeights"`
	Thresholds            Thresholds            `json:"thresholds" yaml:"thresholds"`
	Constraints           Constraints           `json:"constraints" yaml:"constraints"`
	LookbackDays          int                   `json:"lookbackDays" yaml:"lookbackDays"`
	VolatilityDays        int                   `json:"volatilityDays" yaml:"volatilityDays"`
	MomentumNormalization MomentumNormalization `json:"momentumNormalization" yaml:"momentumNormalization"`
	RebalanceFrequency    RebalanceFrequency    `json:"rebalanceFrequency" yaml:"rebalanceFrequency"`
	CreatedAt             time.Time             `json:"createdAt" yaml:"-"`
}

const factorWeightTolerance = 1e-6

func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		FactorWeights: FactorWeights{
			Momentum:   0.4,
			MarketCap:  0.3,
			RiskParity: 0.3,
		},
		Thresholds: Thresholds{
			MinPrice:            1.0,
			DailyDropThreshold:  -0.10,
			OutlierStdThreshold: 5,
			MaxForwardFillDays:  3,
			MinDailyReturn:      -0.5,
			MaxDailyReturn:      1.0,
		},
		Constraints: Constraints{
			MaxWeight: 0.4,
			MinWeight: 0.01,
			MinAssets: 2,
		},
		LookbackDays:          20,
		VolatilityDays:        20,
		MomentumNormalization: NormalizeRank,
		RebalanceFrequency:    RebalanceWeekly,
	}
}

// Validate returns a *ConfigInvalidError listing every problem found.
func (c StrategyConfig) Validate() error {
	reasons := []string{}

	if math.Abs(c.FactorWeights.Sum()-1) > factorWeightTolerance {
		reasons = append(reasons, fmt.Sprintf("factor weights must sum to 1, got %f", c.FactorWeights.Sum()))
	}
	if c.FactorWeights.Momentum < 0 || c.FactorWeights.MarketCap < 0 || c.FactorWeights.RiskParity < 0 {
		reasons = append(reasons, "factor weights must be non-negative")
	}
	if c.Constraints.MaxWeight <= 0 || c.Constraints.MaxWeight > 1 {
		reasons = append(reasons, fmt.Sprintf("max weight must be in (0, 1], got %f", c.Constraints.MaxWeight))
	}
	if c.Constraints.MinWeight < 0 {
		reasons = append(reasons, fmt.Sprintf("min weight must be non-negative, got %f", c.Constraints.MinWeight))
	}
	if c.Constraints.MinWeight > c.Constraints.MaxWeight {
		reasons = append(reasons, fmt.Sprintf("min weight %f exceeds max weight %f", c.Constraints.MinWeight, c.Constraints.MaxWeight))
	}
	if c.Constraints.MinAssets < 1 {
		reasons = append(reasons, "min assets must be at least 1")
	}
	if c.LookbackDays < 1 {
		reasons = append(reasons, "lookback days must be positive")
	}
	if c.VolatilityDays < 2 {
		reasons = append(reasons, "volatility days must be at least 2")
	}
	if c.Thresholds.MaxForwardFillDays < 0 {
		reasons = append(reasons, "max forward fill days must be non-negative")
	}
	if c.Thresholds.MinDailyReturn >= c.Thresholds.MaxDailyReturn {
		reasons = append(reasons, "min daily return must be below max daily return")
	}
	if c.Thresholds.OutlierStdThreshold <= 0 {
		reasons = append(reasons, "outlier std threshold must be positive")
	}
	switch c.MomentumNormalization {
	case NormalizeRank, NormalizeZScore:
	default:
		reasons = append(reasons, fmt.Sprintf("unknown momentum normalization %q", c.MomentumNormalization))
	}
	switch c.RebalanceFrequency {
	case RebalanceDaily, RebalanceWeekly, RebalanceMonthly:
	default:
		reasons = append(reasons, fmt.Sprintf("unknown rebalance frequency %q", c.RebalanceFrequency))
	}

	if len(reasons) > 0 {
		return &ConfigInvalidError{Reasons: reasons}
	}
	return nil
}
