package dto

import (
	"errors"

	"stock-stats-api/internal/models"
)

// AverageResponse is the body of a successful average aggregation
type AverageResponse struct {
	AverageStockPrice float64             `json:"averageStockPrice"`
	PriceHistory      models.PriceHistory `json:"priceHistory"`
}

// StockData is the per-ticker block of a correlation response
type StockData struct {
	AveragePrice float64             `json:"averagePrice"`
	PriceHistory models.PriceHistory `json:"priceHistory"`
}

// CorrelationResponse is the body of a successful correlation aggregation
type CorrelationResponse struct {
	Correlation float64              `json:"correlation"`
	Stocks      map[string]StockData `json:"stocks"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents the health endpoint body
type HealthResponse struct {
	Status         string `json:"status"`
	Service        string `json:"service"`
	Timestamp      int64  `json:"timestamp"`
	ProviderStatus string `json:"provider_status"`
	CacheEntries   int    `json:"cache_entries"`
}

// BuildAverageResponse builds the average response from the service result
func BuildAverageResponse(result *models.AverageResult) *AverageResponse {
	return &AverageResponse{
		AverageStockPrice: result.AveragePrice,
		PriceHistory:      nonNil(result.PriceHistory),
	}
}

// BuildCorrelationResponse builds the correlation response from the service result
func BuildCorrelationResponse(report *models.CorrelationReport) *CorrelationResponse {
	stocks := make(map[string]StockData, len(report.Stocks))
	for ticker, summary := range report.Stocks {
		stocks[ticker] = StockData{
			AveragePrice: summary.AveragePrice,
			PriceHistory: nonNil(summary.PriceHistory),
		}
	}

	return &CorrelationResponse{
		Correlation: report.Correlation.Coefficient,
		Stocks:      stocks,
	}
}

// BuildErrorResponse builds an error response
func BuildErrorResponse(err error) *ErrorResponse {
	var ve ValidationError
	if errors.As(err, &ve) {
		return &ErrorResponse{Error: ve.Message, Field: ve.Field}
	}
	return &ErrorResponse{Error: err.Error()}
}

// nonNil makes an empty history encode as [] rather than null
func nonNil(history models.PriceHistory) models.PriceHistory {
	if history == nil {
		return models.PriceHistory{}
	}
	return history
}
