package dto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AggregationAverage is the only aggregation the stock endpoint supports
const AggregationAverage = "average"

// MaxMinutes is the longest trailing window accepted, one year
const MaxMinutes = 60 * 24 * 365

var validate = validator.New()

// ValidationError represents a rejected request parameter
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	return ve.Message
}

// IsValidationError checks if err wraps a ValidationError
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// AverageRequest represents a request for a ticker's average price
type AverageRequest struct {
	Ticker      string `json:"ticker" validate:"required"`
	Minutes     int    `json:"minutes" validate:"gt=0,lte=525600"`
	Aggregation string `json:"aggregation" validate:"eq=average"`
}

// CorrelationRequest represents a request for the correlation of two tickers
type CorrelationRequest struct {
	Minutes int      `json:"minutes" validate:"gt=0,lte=525600"`
	Tickers []string `json:"tickers" validate:"len=2,unique,dive,required"`
}

// ParseMinutes parses the minutes query parameter
func ParseMinutes(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ValidationError{Field: "minutes", Message: "minutes is required"}
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ValidationError{Field: "minutes", Message: fmt.Sprintf("minutes must be an integer, got %q", raw)}
	}
	if minutes <= 0 {
		return 0, ValidationError{Field: "minutes", Message: "minutes must be greater than 0"}
	}
	if minutes > MaxMinutes {
		return 0, minutesTooLarge()
	}
	return minutes, nil
}

// NewAverageRequest builds an average request from raw query values
func NewAverageRequest(ticker, minutes, aggregation string) (*AverageRequest, error) {
	parsed, err := ParseMinutes(minutes)
	if err != nil {
		return nil, err
	}
	req := &AverageRequest{
		Ticker:      ticker,
		Minutes:     parsed,
		Aggregation: aggregation,
	}
	req.SetDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// NewCorrelationRequest builds a correlation request from raw query values
func NewCorrelationRequest(minutes string, tickers []string) (*CorrelationRequest, error) {
	parsed, err := ParseMinutes(minutes)
	if err != nil {
		return nil, err
	}
	req := &CorrelationRequest{
		Minutes: parsed,
		Tickers: tickers,
	}
	req.SetDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// SetDefaults normalizes the average request
func (r *AverageRequest) SetDefaults() {
	r.Ticker = strings.TrimSpace(r.Ticker)
	r.Aggregation = strings.TrimSpace(r.Aggregation)
}

// Validate validates the average request
func (r *AverageRequest) Validate() error {
	return translate(validate.Struct(r))
}

// SetDefaults normalizes the correlation request
func (r *CorrelationRequest) SetDefaults() {
	tickers := make([]string, len(r.Tickers))
	for i, t := range r.Tickers {
		tickers[i] = strings.TrimSpace(t)
	}
	r.Tickers = tickers
}

// Validate validates the correlation request
func (r *CorrelationRequest) Validate() error {
	return translate(validate.Struct(r))
}

// translate turns the first validator failure into a ValidationError
func translate(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ValidationError{Field: "request", Message: err.Error()}
	}

	fe := fieldErrs[0]
	switch fe.StructField() {
	case "Ticker":
		return ValidationError{Field: "ticker", Message: "ticker is required"}
	case "Minutes":
		if fe.Tag() == "lte" {
			return minutesTooLarge()
		}
		return ValidationError{Field: "minutes", Message: "minutes must be greater than 0"}
	case "Aggregation":
		return ValidationError{Field: "aggregation", Message: fmt.Sprintf("aggregation must be %q", AggregationAverage)}
	case "Tickers":
		return ValidationError{Field: "ticker", Message: "exactly two distinct tickers are required"}
	default:
		// dive errors are reported against the element, e.g. Tickers[1]
		if strings.HasPrefix(fe.StructField(), "Tickers[") {
			return ValidationError{Field: "ticker", Message: "ticker must not be empty"}
		}
		return ValidationError{Field: strings.ToLower(fe.Field()), Message: fe.Error()}
	}
}

func minutesTooLarge() ValidationError {
	return ValidationError{Field: "minutes", Message: fmt.Sprintf("minutes must be at most %d", MaxMinutes)}
}
