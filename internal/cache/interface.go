package cache

import (
	"fmt"
	"time"

	"stock-stats-api/internal/models"
)

// DefaultHistoryTTL is how long a fetched price history is served from cache
const DefaultHistoryTTL = 300 * time.Second

// HistoryCache stores fetched price histories keyed by (ticker, window).
// Implementations must be safe for concurrent use.
type HistoryCache interface {
	// Get returns the cached history, or false when the entry is absent or
	// older than the TTL it was stored with.
	Get(ticker string, minutes int) (models.PriceHistory, bool)
	// Set stores a snapshot of history. A non-positive ttl means DefaultHistoryTTL.
	Set(ticker string, minutes int, history models.PriceHistory, ttl time.Duration)
	// Len returns the number of stored entries, expired ones included until swept.
	Len() int
}

// HistoryKey renders the composite cache key for a ticker and window
func HistoryKey(ticker string, minutes int) string {
	return fmt.Sprintf("history:%s:%d", ticker, minutes)
}
