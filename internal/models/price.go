package models

import (
	"math"
	"time"
)

// PricePoint represents a single price observation reported by the stock feed
type PricePoint struct {
	Price         float64   `json:"price"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// PriceHistory is the sequence of observations for one ticker, in the order the
// feed returned them. It is not guaranteed to be chronological.
type PriceHistory []PricePoint

// Prices returns the price values of the history in order
func (h PriceHistory) Prices() []float64 {
	prices := make([]float64, len(h))
	for i, p := range h {
		prices[i] = p.Price
	}
	return prices
}

// Clone returns a copy of the history that shares no backing array with h
func (h PriceHistory) Clone() PriceHistory {
	if h == nil {
		return nil
	}
	out := make(PriceHistory, len(h))
	copy(out, h)
	return out
}

// Within returns the points whose timestamp lies in [from, to], both ends inclusive
func (h PriceHistory) Within(from, to time.Time) PriceHistory {
	out := make(PriceHistory, 0, len(h))
	for _, p := range h {
		if p.LastUpdatedAt.Before(from) || p.LastUpdatedAt.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// TimeRange represents a time range
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// maxWindowMinutes is the longest window a time.Duration can hold
const maxWindowMinutes = int64(math.MaxInt64 / int64(time.Minute))

// Window returns the trailing window of the given length ending at end.
// Lengths beyond what a time.Duration can hold saturate instead of wrapping.
func Window(end time.Time, minutes int) TimeRange {
	length := time.Duration(math.MaxInt64)
	if int64(minutes) <= maxWindowMinutes {
		length = time.Duration(minutes) * time.Minute
	}
	return TimeRange{
		From: end.Add(-length),
		To:   end,
	}
}
