package providers

import (
	"context"
	"errors"
	"fmt"

	"stock-stats-api/internal/models"
)

// HistoryProvider retrieves price histories from an upstream stock feed
type HistoryProvider interface {
	// GetPriceHistory returns the ticker's observations over the trailing
	// window of the given number of minutes, normalized to a PriceHistory.
	GetPriceHistory(ctx context.Context, ticker string, minutes int) (models.PriceHistory, error)

	// Provider information
	GetName() string
	Ping(ctx context.Context) error
}

// FetchError reports a failed upstream fetch for one ticker
type FetchError struct {
	Ticker     string
	Message    string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch price history for %s: %s: %v", e.Ticker, e.Message, e.Err)
	}
	return fmt.Sprintf("fetch price history for %s: %s", e.Ticker, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new fetch error
func NewFetchError(ticker, message string, err error) *FetchError {
	return &FetchError{
		Ticker:  ticker,
		Message: message,
		Err:     err,
	}
}

// IsFetchError checks if err wraps a FetchError
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}
