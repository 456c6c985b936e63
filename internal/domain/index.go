package domain

import "time"

const IndexBaseValue = 100.0

type IndexValue struct {
	Date  time.Time `json:"date" csv:"date"`
	Value float64   `json:"value" csv:"value"`
}
