package cache

import (
	"math"
	"time"

	"github.com/karlseguin/ccache/v2"
	"github.com/sirupsen/logrus"

	"stock-stats-api/internal/models"
	"stock-stats-api/internal/monitoring"
)

// Config represents history cache configuration
type Config struct {
	// MaxEntries bounds the number of cached histories. Zero means unbounded:
	// entries then leave the cache only through TTL expiry.
	MaxEntries        int64
	LocalItemsToPrune uint32
}

// DefaultConfig returns the default cache configuration
func DefaultConfig() *Config {
	return &Config{
		MaxEntries:        0,
		LocalItemsToPrune: 100,
	}
}

// MemoryHistoryCache is an in-process HistoryCache backed by ccache
type MemoryHistoryCache struct {
	store   *ccache.Cache
	metrics monitoring.MetricsService
	logger  *logrus.Logger
}

// NewMemoryHistoryCache creates a new in-memory history cache
func NewMemoryHistoryCache(config *Config, metrics monitoring.MetricsService, logger *logrus.Logger) *MemoryHistoryCache {
	if config == nil {
		config = DefaultConfig()
	}

	maxSize := config.MaxEntries
	if maxSize <= 0 {
		maxSize = math.MaxInt64
	}
	itemsToPrune := config.LocalItemsToPrune
	if itemsToPrune == 0 {
		itemsToPrune = 100
	}

	store := ccache.New(ccache.Configure().
		MaxSize(maxSize).
		ItemsToPrune(itemsToPrune).
		DeleteBuffer(256).
		PromoteBuffer(256).
		GetsPerPromote(3))

	return &MemoryHistoryCache{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Get returns a copy of the cached history for the key
func (c *MemoryHistoryCache) Get(ticker string, minutes int) (models.PriceHistory, bool) {
	key := HistoryKey(ticker, minutes)

	// expired items stay until the sweeper or the next Set replaces them
	item := c.store.Get(key)
	if item == nil || item.Expired() {
		c.metrics.RecordCacheOperation("get", false)
		c.logger.WithField("key", key).Debug("Cache miss")
		return nil, false
	}

	history, ok := item.Value().(models.PriceHistory)
	if !ok {
		c.metrics.RecordCacheOperation("get", false)
		c.logger.WithField("key", key).Warn("Unexpected value type in history cache")
		return nil, false
	}

	c.metrics.RecordCacheOperation("get", true)
	c.logger.WithField("key", key).Debug("Cache hit")
	return history.Clone(), true
}

// Set stores a copy of history under the key for ttl
func (c *MemoryHistoryCache) Set(ticker string, minutes int, history models.PriceHistory, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultHistoryTTL
	}
	key := HistoryKey(ticker, minutes)

	c.store.Set(key, history.Clone(), ttl)

	c.metrics.RecordCacheOperation("set", false)
	c.metrics.SetCacheEntries(c.store.ItemCount())
	c.logger.WithFields(logrus.Fields{
		"key":    key,
		"ttl":    ttl,
		"points": len(history),
	}).Debug("Cache set")
}

// Len returns the number of stored entries
func (c *MemoryHistoryCache) Len() int {
	return c.store.ItemCount()
}

// PurgeExpired removes every expired entry and returns how many were removed
func (c *MemoryHistoryCache) PurgeExpired() int {
	removed := c.store.DeleteFunc(func(key string, item *ccache.Item) bool {
		return item.Expired()
	})
	c.metrics.SetCacheEntries(c.store.ItemCount())
	return removed
}

// Stop releases the cache's background worker
func (c *MemoryHistoryCache) Stop() {
	c.store.Stop()
}
