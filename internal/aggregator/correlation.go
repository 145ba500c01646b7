package aggregator

import (
	"math"

	"github.com/shopspring/decimal"

	"stock-stats-api/internal/models"
)

// AveragePrice returns the arithmetic mean of the history's prices, or 0 for an
// empty history. Prices are summed in decimal so long histories do not drift.
func AveragePrice(history models.PriceHistory) float64 {
	if len(history) == 0 {
		return 0
	}

	sum := decimal.Zero
	for _, point := range history {
		sum = sum.Add(decimal.NewFromFloat(point.Price))
	}

	avg, _ := sum.Div(decimal.NewFromInt(int64(len(history)))).Float64()
	return avg
}

// Mean returns the arithmetic mean of values, or 0 when there are none
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Correlate computes the sample Pearson correlation of two paired series.
//
// Fewer than two pairs, or a series with zero standard deviation, yields a
// coefficient of 0; check Pairs before reading 0 as "uncorrelated". Series of
// unequal length are truncated to the shorter one. The coefficient is clamped
// to [-1, 1] to absorb floating-point rounding.
func Correlate(a, b []float64) models.CorrelationResult {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	a, b = a[:n], b[:n]

	result := models.CorrelationResult{
		MeanA: Mean(a),
		MeanB: Mean(b),
		Pairs: n,
	}
	if n < 2 {
		return result
	}

	var cov, sumSqA, sumSqB float64
	for i := 0; i < n; i++ {
		da := a[i] - result.MeanA
		db := b[i] - result.MeanB
		cov += da * db
		sumSqA += da * da
		sumSqB += db * db
	}

	// Bessel's correction
	divisor := float64(n - 1)
	cov /= divisor
	stdDevA := math.Sqrt(sumSqA / divisor)
	stdDevB := math.Sqrt(sumSqB / divisor)

	if stdDevA == 0 || stdDevB == 0 {
		return result
	}

	result.Coefficient = clamp(cov/(stdDevA*stdDevB), -1, 1)
	return result
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
