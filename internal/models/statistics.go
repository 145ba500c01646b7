package models

// AlignedSeries holds two index-paired price sequences. A[i] and B[i] come from
// the temporally closest points of the two source histories.
type AlignedSeries struct {
	A []float64 `json:"seriesA"`
	B []float64 `json:"seriesB"`
}

// Len returns the number of pairs
func (s AlignedSeries) Len() int {
	return len(s.A)
}

// CorrelationResult represents the outcome of a Pearson correlation
type CorrelationResult struct {
	Coefficient float64 `json:"coefficient"`
	MeanA       float64 `json:"meanA"`
	MeanB       float64 `json:"meanB"`
	Pairs       int     `json:"pairs"`
}

// Degenerate reports whether the coefficient was defaulted to zero because
// there were too few pairs to define a correlation
func (r CorrelationResult) Degenerate() bool {
	return r.Pairs < 2
}

// StockSummary is the per-ticker block returned by both aggregations
type StockSummary struct {
	AveragePrice float64      `json:"averagePrice"`
	PriceHistory PriceHistory `json:"priceHistory"`
}

// AverageResult is the result of the average aggregation for one ticker
type AverageResult struct {
	Ticker       string       `json:"ticker"`
	Minutes      int          `json:"minutes"`
	AveragePrice float64      `json:"averageStockPrice"`
	PriceHistory PriceHistory `json:"priceHistory"`
}

// CorrelationReport is the result of the correlation aggregation for two tickers
type CorrelationReport struct {
	Minutes     int                     `json:"minutes"`
	Correlation CorrelationResult       `json:"correlation"`
	Stocks      map[string]StockSummary `json:"stocks"`
}
