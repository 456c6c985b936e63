package calculator

import (
	"math"
	"sort"
	"time"

	"factorindex/internal/domain"

	"github.com/montanaflynn/stats"
)

const (
	// returns of the trailing distribution used for outlier detection
	outlierWindow = 20
	// fewer trailing returns than this and outlier detection is skipped
	minOutlierSample = 5
)

type NormalizeSeriesInput struct {
	Symbol string
	// Raw is the fetched series for the refresh range, any order
	Raw []domain.PricePoint
	// History is stored trailing data before the range, used as context
	History []domain.PricePoint
	// TradingDays is the calendar of the refresh range, ascending
	TradingDays []time.Time
	Thresholds  domain.Thresholds
}

type NormalizeSeriesResult struct {
	Points []domain.PricePoint
	Issues []domain.DataQualityError
}

// NormalizeSeries applies the data quality rules to one asset's raw series.
// Rejected observations become missing. Missing days are forward filled from
// the last valid close for at most MaxForwardFillDays consecutive days, except
// an outlier's own date which is never filled over. The day after an outlier
// is measured against whichever of the last valid close and the outlier's
// raw close it is nearer to, so a sustained level shift costs one day.
func NormalizeSeries(in NormalizeSeriesInput) NormalizeSeriesResult {
	history := sortedPoints(in.History)
	raw := map[time.Time]float64{}
	for _, p := range in.Raw {
		raw[p.Date] = p.Close
	}

	trailing := []float64{}
	var lastValid *float64
	for i, p := range history {
		if i > 0 && history[i-1].Close > 0 {
			trailing = appendTrailing(trailing, p.Close/history[i-1].Close-1)
		}
		c := p.Close
		lastValid = &c
	}

	out := NormalizeSeriesResult{
		Points: []domain.PricePoint{},
		Issues: []domain.DataQualityError{},
	}
	reject := func(date time.Time, reason domain.DataQualityReason, value float64) {
		out.Issues = append(out.Issues, domain.DataQualityError{
			Symbol: in.Symbol,
			Date:   date,
			Reason: reason,
			Value:  value,
		})
	}

	gap := 0
	// raw close of the last observed day when that day was an outlier
	var shifted *float64
	for _, day := range in.TradingDays {
		price, ok := raw[day]
		isOutlier := false

		if ok && price < in.Thresholds.MinPrice {
			reject(day, domain.QualityBelowMinPrice, price)
			ok = false
		}
		if ok && lastValid != nil {
			ret := price / *lastValid - 1
			// a close holding an outlier's level confirms a level shift
			if shifted != nil {
				if shiftRet := price / *shifted - 1; math.Abs(shiftRet) < math.Abs(ret) {
					ret = shiftRet
				}
			}
			shifted = nil
			if ret < in.Thresholds.MinDailyReturn || ret > in.Thresholds.MaxDailyReturn {
				reject(day, domain.QualityReturnOutOfRange, ret)
				ok = false
			} else if isOutlierReturn(ret, trailing, in.Thresholds.OutlierStdThreshold) {
				reject(day, domain.QualityOutlier, ret)
				ok = false
				isOutlier = true
				c := price
				shifted = &c
			} else {
				trailing = appendTrailing(trailing, ret)
			}
		}

		if ok {
			c := price
			lastValid = &c
			gap = 0
			out.Points = append(out.Points, domain.PricePoint{Date: day, Close: price})
			continue
		}

		gap++
		if lastValid == nil || isOutlier {
			continue
		}
		if gap <= in.Thresholds.MaxForwardFillDays {
			out.Points = append(out.Points, domain.PricePoint{Date: day, Close: *lastValid})
		} else if gap == in.Thresholds.MaxForwardFillDays+1 {
			reject(day, domain.QualityGapTooLong, float64(gap))
		}
	}

	return out
}

func isOutlierReturn(ret float64, trailing []float64, stdThreshold float64) bool {
	if len(trailing) < minOutlierSample {
		return false
	}
	stdev, err := stats.StandardDeviationSample(trailing)
	if err != nil || stdev == 0 {
		return false
	}
	return math.Abs(ret) > stdThreshold*stdev
}

func appendTrailing(trailing []float64, ret float64) []float64 {
	trailing = append(trailing, ret)
	if len(trailing) > outlierWindow {
		trailing = trailing[len(trailing)-outlierWindow:]
	}
	return trailing
}

func sortedPoints(in []domain.PricePoint) []domain.PricePoint {
	out := append([]domain.PricePoint{}, in...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// TradingCalendar is the ascending union of every date present in series.
func TradingCalendar(series ...map[string][]domain.PricePoint) []time.Time {
	seen := map[time.Time]bool{}
	out := []time.Time{}
	for _, s := range series {
		for _, points := range s {
			for _, p := range points {
				if !seen[p.Date] {
					seen[p.Date] = true
					out = append(out, p.Date)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Before(out[j])
	})
	return out
}
