package domain

import (
	"fmt"
	"time"
)

// PricePoint is a single daily close. Close is in the asset's currency.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

type AssetPrice struct {
	Symbol string
	Price  float64
	Date   time.Time
}

// DateRange is inclusive on both ends.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) IsEmpty() bool {
	return r.End.Before(r.Start)
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
}

// PriceSeries holds closes by symbol, each sorted ascending by date.
type PriceSeries map[string][]PricePoint

// CloseOn returns the close for symbol on date, if one exists.
func (p PriceSeries) CloseOn(symbol string, date time.Time) (float64, bool) {
	for _, pt := range p[symbol] {
		if pt.Date.Equal(date) {
			return pt.Close, true
		}
	}
	return 0, false
}
