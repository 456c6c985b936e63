package domain

import "time"

// window of 0 days means all available history
const AllTimeWindow = 0

var DefaultRiskWindows = []int{30, 90, 365, AllTimeWindow}

// RiskMetricSnapshot holds metrics over one trailing window. A nil metric
// means there were not enough observations to compute it.
type RiskMetricSnapshot struct {
	Date            time.Time `json:"date"`
	WindowDays      int       `json:"windowDays"`
	NumObservations int       `json:"numObservations"`
	Volatility      *float64  `json:"volatility"`
	Sharpe          *float64  `json:"sharpe"`
	Sortino         *float64  `json:"sortino"`
	MaxDrawdown     *float64  `json:"maxDrawdown"`
	CurrentDrawdown *float64  `json:"currentDrawdown"`
	VaR95           *float64  `json:"var95"`
	VaR99           *float64  `json:"var99"`
	Beta            *float64  `json:"beta"`
	Correlation     *float64  `json:"correlation"`
}
