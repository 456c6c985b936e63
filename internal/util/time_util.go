package util

import (
	"fmt"
	"time"
)

func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// ParseDate reads a YYYY-MM-DD date. An empty string is no date.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return &t, nil
}

// Today is the current UTC date at midnight.
func Today() time.Time {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}
