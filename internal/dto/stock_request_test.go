package dto

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      int
		wantError bool
		errorMsg  string
	}{
		{name: "valid", raw: "60", want: 60},
		{name: "surrounding spaces", raw: " 15 ", want: 15},
		{name: "missing", raw: "", wantError: true, errorMsg: "minutes is required"},
		{name: "non-numeric", raw: "abc", wantError: true, errorMsg: `minutes must be an integer, got "abc"`},
		{name: "fractional", raw: "1.5", wantError: true},
		{name: "zero", raw: "0", wantError: true, errorMsg: "minutes must be greater than 0"},
		{name: "negative", raw: "-5", wantError: true, errorMsg: "minutes must be greater than 0"},
		{name: "one year", raw: "525600", want: MaxMinutes},
		{name: "beyond one year", raw: "525601", wantError: true, errorMsg: "minutes must be at most 525600"},
		{name: "duration overflow", raw: "200000000", wantError: true, errorMsg: "minutes must be at most 525600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMinutes(tt.raw)

			if tt.wantError {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				if tt.errorMsg != "" {
					assert.Equal(t, tt.errorMsg, err.Error())
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewAverageRequest(t *testing.T) {
	tests := []struct {
		name        string
		ticker      string
		minutes     string
		aggregation string
		wantError   bool
		wantField   string
	}{
		{name: "valid", ticker: "AAPL", minutes: "60", aggregation: "average"},
		{name: "missing aggregation", ticker: "AAPL", minutes: "60", aggregation: "", wantError: true, wantField: "aggregation"},
		{name: "unsupported aggregation", ticker: "AAPL", minutes: "60", aggregation: "median", wantError: true, wantField: "aggregation"},
		{name: "blank ticker", ticker: "  ", minutes: "60", aggregation: "average", wantError: true, wantField: "ticker"},
		{name: "bad minutes", ticker: "AAPL", minutes: "x", aggregation: "average", wantError: true, wantField: "minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewAverageRequest(tt.ticker, tt.minutes, tt.aggregation)

			if tt.wantError {
				require.Error(t, err)
				assert.Nil(t, req)
				var ve ValidationError
				require.True(t, errors.As(err, &ve))
				assert.Equal(t, tt.wantField, ve.Field)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "AAPL", req.Ticker)
			assert.Equal(t, 60, req.Minutes)
		})
	}
}

func TestNewCorrelationRequest(t *testing.T) {
	tests := []struct {
		name      string
		minutes   string
		tickers   []string
		wantError bool
		errorMsg  string
	}{
		{name: "valid", minutes: "30", tickers: []string{"AAPL", "MSFT"}},
		{name: "no tickers", minutes: "30", tickers: nil, wantError: true, errorMsg: "exactly two distinct tickers are required"},
		{name: "one ticker", minutes: "30", tickers: []string{"AAPL"}, wantError: true, errorMsg: "exactly two distinct tickers are required"},
		{name: "three tickers", minutes: "30", tickers: []string{"AAPL", "MSFT", "NVDA"}, wantError: true, errorMsg: "exactly two distinct tickers are required"},
		{name: "same ticker twice", minutes: "30", tickers: []string{"AAPL", " AAPL"}, wantError: true, errorMsg: "exactly two distinct tickers are required"},
		{name: "empty ticker", minutes: "30", tickers: []string{"AAPL", ""}, wantError: true, errorMsg: "ticker must not be empty"},
		{name: "bad minutes", minutes: "0", tickers: []string{"AAPL", "MSFT"}, wantError: true, errorMsg: "minutes must be greater than 0"},
		{name: "huge minutes", minutes: "200000000", tickers: []string{"AAPL", "MSFT"}, wantError: true, errorMsg: "minutes must be at most 525600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewCorrelationRequest(tt.minutes, tt.tickers)

			if tt.wantError {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				assert.Equal(t, tt.errorMsg, err.Error())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 30, req.Minutes)
			assert.Equal(t, []string{"AAPL", "MSFT"}, req.Tickers)
		})
	}
}

func TestIsValidationError(t *testing.T) {
	ve := ValidationError{Field: "minutes", Message: "bad"}

	assert.True(t, IsValidationError(ve))
	assert.True(t, IsValidationError(fmt.Errorf("wrapped: %w", ve)))
	assert.False(t, IsValidationError(errors.New("other")))
}

func TestValidate_MinutesUpperBound(t *testing.T) {
	avg := &AverageRequest{Ticker: "AAPL", Minutes: MaxMinutes + 1, Aggregation: AggregationAverage}
	err := avg.Validate()
	require.Error(t, err)
	assert.Equal(t, "minutes must be at most 525600", err.Error())

	corr := &CorrelationRequest{Minutes: 200000000, Tickers: []string{"AAPL", "MSFT"}}
	err = corr.Validate()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	corr.Minutes = MaxMinutes
	assert.NoError(t, corr.Validate())
}
