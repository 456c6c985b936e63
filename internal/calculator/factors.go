package calculator

import (
	"fmt"
	"sort"
	"time"

	"factorindex/internal/domain"

	"github.com/montanaflynn/stats"
)

type ExclusionReason string

const (
	ExcludedNoPrice          ExclusionReason = "no_price_on_date"
	ExcludedInsufficientData ExclusionReason = "insufficient_history"
	ExcludedDailyDrop        ExclusionReason = "daily_drop"
	ExcludedLookbackDrop     ExclusionReason = "lookback_drop"
)

type ScoreFactorsInput struct {
	Date       time.Time
	Symbols    []string
	Prices     domain.PriceSeries
	MarketCaps map[string]float64
	Config     domain.StrategyConfig
}

// FactorScores holds the three per-asset signals. Each map covers exactly
// the Included symbols and sums to 1.
type FactorScores struct {
	Date       time.Time
	Included   []string
	Excluded   map[string]ExclusionReason
	Returns    map[string]float64
	Momentum   map[string]float64
	MarketCap  map[string]float64
	RiskParity map[string]float64
}

// ScoreFactors applies the drop filter and scores the survivors.
func ScoreFactors(in ScoreFactorsInput) (*FactorScores, error) {
	cfg := in.Config
	required := cfg.LookbackDays
	if cfg.VolatilityDays > required {
		required = cfg.VolatilityDays
	}
	// n returns need n+1 closes
	required++

	out := &FactorScores{
		Date:       in.Date,
		Included:   []string{},
		Excluded:   map[string]ExclusionReason{},
		Returns:    map[string]float64{},
		Momentum:   map[string]float64{},
		MarketCap:  map[string]float64{},
		RiskParity: map[string]float64{},
	}

	volatility := map[string]float64{}
	symbols := append([]string{}, in.Symbols...)
	sort.Strings(symbols)

	for _, symbol := range symbols {
		window := trailingWindow(in.Prices[symbol], in.Date)
		if len(window) == 0 || !window[len(window)-1].Date.Equal(in.Date) {
			out.Excluded[symbol] = ExcludedNoPrice
			continue
		}
		if len(window) < required {
			out.Excluded[symbol] = ExcludedInsufficientData
			continue
		}
		window = window[len(window)-required:]
		last := window[len(window)-1].Close

		dailyReturn := last/window[len(window)-2].Close - 1
		if dailyReturn < cfg.Thresholds.DailyDropThreshold {
			out.Excluded[symbol] = ExcludedDailyDrop
			continue
		}
		lookbackReturn := last/window[len(window)-1-cfg.LookbackDays].Close - 1
		if lookbackReturn < cfg.Thresholds.DailyDropThreshold {
			out.Excluded[symbol] = ExcludedLookbackDrop
			continue
		}

		returns := dailyReturns(window[len(window)-1-cfg.VolatilityDays:])
		vol, err := stats.StandardDeviationSample(returns)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate volatility for %s: %w", symbol, err)
		}

		out.Included = append(out.Included, symbol)
		out.Returns[symbol] = lookbackReturn
		volatility[symbol] = vol
	}

	if len(out.Included) == 0 {
		return out, nil
	}

	switch cfg.MomentumNormalization {
	case domain.NormalizeZScore:
		out.Momentum = shiftedZScores(out.Returns)
	default:
		out.Momentum = rankScores(out.Returns)
	}

	out.MarketCap = marketCapScores(out.Included, in.MarketCaps)

	out.RiskParity = riskParityScores(volatility)

	return out, nil
}

// trailingWindow returns the points on or before date, ascending.
func trailingWindow(points []domain.PricePoint, date time.Time) []domain.PricePoint {
	sorted := sortedPoints(points)
	end := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].Date.After(date)
	})
	return sorted[:end]
}

func dailyReturns(points []domain.PricePoint) []float64 {
	out := []float64{}
	for i := 1; i < len(points); i++ {
		out = append(out, points[i].Close/points[i-1].Close-1)
	}
	return out
}

// rankScores ranks ascending from 1, ties share their average rank, and
// divides by the rank total.
func rankScores(values map[string]float64) map[string]float64 {
	type kv struct {
		symbol string
		value  float64
	}
	sorted := []kv{}
	for s, v := range values {
		sorted = append(sorted, kv{s, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].value == sorted[j].value {
			return sorted[i].symbol < sorted[j].symbol
		}
		return sorted[i].value < sorted[j].value
	})

	ranks := map[string]float64{}
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1].value == sorted[i].value {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[sorted[k].symbol] = avg
		}
		i = j + 1
	}

	return normalizeScores(ranks)
}

func zScoreBySymbol(factorScoreBySymbol map[string]float64) (map[string]float64, error) {
	if len(factorScoreBySymbol) < 2 {
		return nil, fmt.Errorf("cannot compute z-score of less than two values, got %d value(s)", len(factorScoreBySymbol))
	}
	dataset := []float64{}
	for _, symbol := range keys(factorScoreBySymbol) {
		dataset = append(dataset, factorScoreBySymbol[symbol])
	}
	mean, err := stats.Mean(dataset)
	if err != nil {
		return nil, err
	}
	stdev, err := stats.StandardDeviationSample(dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate stdev: %w", err)
	}
	if stdev == 0 {
		return nil, fmt.Errorf("0 stdev")
	}

	zScoreBySymbol := map[string]float64{}
	for symbol, factorScore := range factorScoreBySymbol {
		zScore := (factorScore - mean) / stdev
		zScoreBySymbol[symbol] = zScore
	}

	return zScoreBySymbol, nil
}

// shiftedZScores moves z-scores so the lowest is 0, then normalizes. A
// degenerate distribution gets equal scores.
func shiftedZScores(values map[string]float64) map[string]float64 {
	z, err := zScoreBySymbol(values)
	if err != nil {
		return equalScores(keys(values))
	}
	lowest := 0.0
	first := true
	for _, v := range z {
		if first || v < lowest {
			lowest = v
			first = false
		}
	}
	shifted := map[string]float64{}
	for s, v := range z {
		shifted[s] = v - lowest
	}
	return normalizeScores(shifted)
}

// marketCapScores is proportional to market cap. Assets without a cap score 0,
// and if none has one every asset is weighted equally.
func marketCapScores(symbols []string, caps map[string]float64) map[string]float64 {
	raw := map[string]float64{}
	for _, s := range symbols {
		c := caps[s]
		if c < 0 {
			c = 0
		}
		raw[s] = c
	}
	return normalizeScores(raw)
}

// riskParityScores is inverse volatility. Zero volatility assets are treated
// as having the lowest positive volatility in the set.
func riskParityScores(volatility map[string]float64) map[string]float64 {
	minPositive := 0.0
	for _, v := range volatility {
		if v > 0 && (minPositive == 0 || v < minPositive) {
			minPositive = v
		}
	}
	if minPositive == 0 {
		return equalScores(keys(volatility))
	}

	inverse := map[string]float64{}
	for s, v := range volatility {
		if v <= 0 {
			v = minPositive
		}
		inverse[s] = 1 / v
	}
	return normalizeScores(inverse)
}

// normalizeScores divides by the total, in sorted symbol order so results are
// reproducible. A zero total falls back to equal scores.
func normalizeScores(values map[string]float64) map[string]float64 {
	symbols := keys(values)
	total := 0.0
	for _, s := range symbols {
		total += values[s]
	}
	if total <= 0 {
		return equalScores(symbols)
	}
	out := map[string]float64{}
	for _, s := range symbols {
		out[s] = values[s] / total
	}
	return out
}

func equalScores(symbols []string) map[string]float64 {
	out := map[string]float64{}
	for _, s := range symbols {
		out[s] = 1 / float64(len(symbols))
	}
	return out
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
