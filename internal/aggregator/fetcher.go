package aggregator

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"stock-stats-api/internal/cache"
	"stock-stats-api/internal/models"
	"stock-stats-api/internal/providers"
)

// HistorySource returns the price history of a ticker over a trailing window
type HistorySource interface {
	Fetch(ctx context.Context, ticker string, minutes int) (models.PriceHistory, error)
}

// HistoryFetcher is a cache-aside HistorySource in front of an upstream provider
type HistoryFetcher struct {
	provider providers.HistoryProvider
	cache    cache.HistoryCache
	ttl      time.Duration
	group    singleflight.Group
	logger   *logrus.Logger
}

// NewHistoryFetcher creates a new fetcher. A non-positive ttl means cache.DefaultHistoryTTL.
func NewHistoryFetcher(provider providers.HistoryProvider, historyCache cache.HistoryCache, ttl time.Duration, logger *logrus.Logger) *HistoryFetcher {
	if ttl <= 0 {
		ttl = cache.DefaultHistoryTTL
	}
	return &HistoryFetcher{
		provider: provider,
		cache:    historyCache,
		ttl:      ttl,
		logger:   logger,
	}
}

// Fetch returns the cached history for (ticker, minutes) when present, and
// otherwise makes one upstream call and caches the result. Cached values are
// returned exactly as stored, without re-filtering to the window. Failures are
// returned as *providers.FetchError and are not cached or retried.
func (f *HistoryFetcher) Fetch(ctx context.Context, ticker string, minutes int) (models.PriceHistory, error) {
	if history, ok := f.cache.Get(ticker, minutes); ok {
		return history, nil
	}

	key := cache.HistoryKey(ticker, minutes)
	v, err, shared := f.group.Do(key, func() (interface{}, error) {
		// a flight that finished between our miss and Do may have filled the cache
		if history, ok := f.cache.Get(ticker, minutes); ok {
			return history, nil
		}

		history, err := f.provider.GetPriceHistory(ctx, ticker, minutes)
		if err != nil {
			return nil, err
		}

		f.cache.Set(ticker, minutes, history, f.ttl)
		return history, nil
	})
	if err != nil {
		f.logger.WithFields(logrus.Fields{
			"ticker":  ticker,
			"minutes": minutes,
			"error":   err,
		}).Warn("Price history fetch failed")

		var fetchErr *providers.FetchError
		if !errors.As(err, &fetchErr) {
			err = providers.NewFetchError(ticker, "upstream request failed", err)
		}
		return nil, err
	}

	if shared {
		f.logger.WithField("key", key).Debug("Joined in-flight price history fetch")
	}

	return v.(models.PriceHistory).Clone(), nil
}
