package stockfeed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stock-stats-api/internal/models"
)

// payloadShape tags which of the two response layouts the feed sent
type payloadShape int

const (
	shapeUnknown payloadShape = iota
	// shapeList is a bare JSON array of points
	shapeList
	// shapeSingle is {"stock": {...}}, sent when the window holds one point
	shapeSingle
)

func (s payloadShape) String() string {
	switch s {
	case shapeList:
		return "list"
	case shapeSingle:
		return "single"
	default:
		return "unknown"
	}
}

// PricePointResponse represents one point as the feed encodes it
type PricePointResponse struct {
	Price         float64 `json:"price"`
	LastUpdatedAt string  `json:"lastUpdatedAt"`
}

// HistoryResponse is the decoded feed body in either of its shapes
type HistoryResponse struct {
	shape  payloadShape
	points []PricePointResponse
}

// UnmarshalJSON accepts either an array of points or a single wrapped point
func (r *HistoryResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("empty response body")
	}

	switch trimmed[0] {
	case '[':
		var points []PricePointResponse
		if err := json.Unmarshal(trimmed, &points); err != nil {
			return fmt.Errorf("decode price list: %w", err)
		}
		r.shape = shapeList
		r.points = points
	case '{':
		var wrapped struct {
			Stock *PricePointResponse `json:"stock"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return fmt.Errorf("decode wrapped price: %w", err)
		}
		if wrapped.Stock == nil {
			return errors.New(`object response without "stock" field`)
		}
		r.shape = shapeSingle
		r.points = []PricePointResponse{*wrapped.Stock}
	default:
		return fmt.Errorf("unexpected response starting with %q", trimmed[0])
	}

	return nil
}

// ToPriceHistory normalizes the response into the internal history type.
// A point with an unparseable timestamp fails the whole conversion.
func (r *HistoryResponse) ToPriceHistory() (models.PriceHistory, error) {
	history := make(models.PriceHistory, 0, len(r.points))
	for i, point := range r.points {
		ts, err := parseTimestamp(point.LastUpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		history = append(history, models.PricePoint{
			Price:         point.Price,
			LastUpdatedAt: ts,
		})
	}
	return history, nil
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("missing lastUpdatedAt")
	}
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid lastUpdatedAt %q: %w", value, err)
	}
	return ts, nil
}

// decodeHistory parses a raw feed body into a PriceHistory
func decodeHistory(body []byte) (models.PriceHistory, payloadShape, error) {
	var response HistoryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, shapeUnknown, err
	}
	history, err := response.ToPriceHistory()
	if err != nil {
		return nil, response.shape, err
	}
	return history, response.shape, nil
}
