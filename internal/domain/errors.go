package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrCircuitOpen    = errors.New("circuit open")
	ErrRefreshFailed  = errors.New("refresh failed: no batches succeeded")
	ErrNoIndexHistory = errors.New("no index history")
)

// ProviderError is a failed call to an external market data provider.
type ProviderError struct {
	Provider   string
	Endpoint   string
	StatusCode int
	RetryAfter time.Duration
	Timeout    bool
	Err        error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Provider, e.Endpoint)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" returned %d", e.StatusCode)
	}
	if e.Timeout {
		msg += " timed out"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retryable is true for timeouts, 5xx and 429. Any other 4xx is final.
func (e *ProviderError) Retryable() bool {
	if e.Timeout {
		return true
	}
	return e.StatusCode == 429 || e.StatusCode >= 500
}

type RateLimitedError struct {
	Provider   string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s rate limited, retry after %s", e.Provider, e.RetryAfter)
}

type CircuitOpenError struct {
	Provider string
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, ErrCircuitOpen.Error())
}

func (e *CircuitOpenError) Is(target error) bool {
	return target == ErrCircuitOpen
}

type DataQualityReason string

const (
	QualityBelowMinPrice    DataQualityReason = "below_min_price"
	QualityOutlier          DataQualityReason = "outlier"
	QualityReturnOutOfRange DataQualityReason = "return_out_of_range"
	QualityGapTooLong       DataQualityReason = "gap_too_long"
)

// DataQualityError records a rejected observation. It is logged and reported,
// never returned up the stack.
type DataQualityError struct {
	Symbol string            `json:"symbol"`
	Date   time.Time         `json:"date"`
	Reason DataQualityReason `json:"reason"`
	Value  float64           `json:"value"`
}

func (e DataQualityError) Error() string {
	return fmt.Sprintf("%s on %s rejected (%s): %f", e.Symbol, e.Date.Format(time.DateOnly), e.Reason, e.Value)
}

type InsufficientAssetsError struct {
	Required  int
	Available int
	Reason    string
}

func (e *InsufficientAssetsError) Error() string {
	msg := fmt.Sprintf("insufficient assets: need %d, have %d", e.Required, e.Available)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

type ConfigInvalidError struct {
	Reasons []string
}

func (e *ConfigInvalidError) Error() string {
	return "invalid strategy config: " + strings.Join(e.Reasons, "; ")
}
