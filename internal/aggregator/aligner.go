package aggregator

import (
	"time"

	"stock-stats-api/internal/models"
)

// Aligner pairs two price histories by nearest timestamp
type Aligner struct {
	now func() time.Time
}

// NewAligner creates an aligner using now as its clock; nil means time.Now
func NewAligner(now func() time.Time) *Aligner {
	if now == nil {
		now = time.Now
	}
	return &Aligner{now: now}
}

// Align restricts both histories to the trailing window and pairs every point
// of a with the point of b closest in time.
//
// The match is one-directional: several points of a may share one point of b,
// and points of b nobody is closest to are dropped. Ties go to the earliest b
// point in iteration order. The output follows the order of a and has one pair
// per in-window point of a, or none when b has no in-window points.
func (al *Aligner) Align(a, b models.PriceHistory, minutes int) models.AlignedSeries {
	window := models.Window(al.now(), minutes)
	filteredA := a.Within(window.From, window.To)
	filteredB := b.Within(window.From, window.To)

	series := models.AlignedSeries{
		A: make([]float64, 0, len(filteredA)),
		B: make([]float64, 0, len(filteredA)),
	}
	if len(filteredB) == 0 {
		return series
	}

	for _, pa := range filteredA {
		nearest := nearestIndex(pa.LastUpdatedAt, filteredB)
		series.A = append(series.A, pa.Price)
		series.B = append(series.B, filteredB[nearest].Price)
	}

	return series
}

// nearestIndex returns the index of the first point of history with minimum
// absolute distance to ts. history must not be empty.
func nearestIndex(ts time.Time, history models.PriceHistory) int {
	best := 0
	bestDiff := ts.Sub(history[0].LastUpdatedAt).Abs()
	for i := 1; i < len(history); i++ {
		diff := ts.Sub(history[i].LastUpdatedAt).Abs()
		if diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	return best
}
