package aggregator

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stock-stats-api/internal/cache"
	"stock-stats-api/internal/models"
	"stock-stats-api/internal/monitoring"
	"stock-stats-api/internal/providers"
)

// MockHistoryProvider is a testify mock of providers.HistoryProvider
type MockHistoryProvider struct {
	mock.Mock
}

func (m *MockHistoryProvider) GetPriceHistory(ctx context.Context, ticker string, minutes int) (models.PriceHistory, error) {
	args := m.Called(ctx, ticker, minutes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.PriceHistory), args.Error(1)
}

func (m *MockHistoryProvider) GetName() string {
	return "mock"
}

func (m *MockHistoryProvider) Ping(ctx context.Context) error {
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testMetrics() monitoring.MetricsService {
	return monitoring.NewPrometheusMetrics(prometheus.NewRegistry())
}

func newTestFetcher(t *testing.T, provider providers.HistoryProvider, ttl time.Duration) *HistoryFetcher {
	t.Helper()

	historyCache := cache.NewMemoryHistoryCache(nil, testMetrics(), quietLogger())
	t.Cleanup(historyCache.Stop)

	return NewHistoryFetcher(provider, historyCache, ttl, quietLogger())
}

func historyOf(prices ...float64) models.PriceHistory {
	now := time.Now()
	history := make(models.PriceHistory, len(prices))
	for i, p := range prices {
		history[i] = models.PricePoint{Price: p, LastUpdatedAt: now.Add(time.Duration(i-len(prices)) * time.Second)}
	}
	return history
}

func TestNewHistoryFetcher_DefaultTTL(t *testing.T) {
	fetcher := newTestFetcher(t, new(MockHistoryProvider), 0)
	assert.Equal(t, cache.DefaultHistoryTTL, fetcher.ttl)
}

func TestHistoryFetcher_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("second fetch within ttl is served from cache", func(t *testing.T) {
		provider := new(MockHistoryProvider)
		provider.On("GetPriceHistory", mock.Anything, "AAPL", 60).Return(historyOf(100, 200), nil).Once()
		fetcher := newTestFetcher(t, provider, time.Minute)

		first, err := fetcher.Fetch(ctx, "AAPL", 60)
		require.NoError(t, err)
		second, err := fetcher.Fetch(ctx, "AAPL", 60)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		provider.AssertNumberOfCalls(t, "GetPriceHistory", 1)
	})

	t.Run("different window is a separate entry", func(t *testing.T) {
		provider := new(MockHistoryProvider)
		provider.On("GetPriceHistory", mock.Anything, "AAPL", 60).Return(historyOf(1), nil).Once()
		provider.On("GetPriceHistory", mock.Anything, "AAPL", 30).Return(historyOf(2), nil).Once()
		fetcher := newTestFetcher(t, provider, time.Minute)

		h60, err := fetcher.Fetch(ctx, "AAPL", 60)
		require.NoError(t, err)
		h30, err := fetcher.Fetch(ctx, "AAPL", 30)
		require.NoError(t, err)

		assert.Equal(t, []float64{1}, h60.Prices())
		assert.Equal(t, []float64{2}, h30.Prices())
		provider.AssertExpectations(t)
	})

	t.Run("expired entry triggers a new upstream call", func(t *testing.T) {
		provider := new(MockHistoryProvider)
		provider.On("GetPriceHistory", mock.Anything, "AAPL", 60).Return(historyOf(100), nil).Once()
		provider.On("GetPriceHistory", mock.Anything, "AAPL", 60).Return(historyOf(300), nil).Once()
		fetcher := newTestFetcher(t, provider, 30*time.Millisecond)

		first, err := fetcher.Fetch(ctx, "AAPL", 60)
		require.NoError(t, err)
		time.Sleep(60 * time.Millisecond)
		second, err := fetcher.Fetch(ctx, "AAPL", 60)
		require.NoError(t, err)

		assert.Equal(t, []float64{100}, first.Prices())
		assert.Equal(t, []float64{300}, second.Prices())
		provider.AssertNumberOfCalls(t, "GetPriceHistory", 2)
	})

	t.Run("failures are not cached", func(t *testing.T) {
		provider := new(MockHistoryProvider)
		fetchErr := providers.NewFetchError("AAPL", "upstream returned HTTP 503", nil)
		provider.On("GetPriceHistory", mock.Anything, "AAPL", 60).Return(nil, fetchErr).Once()
		provider.On("GetPriceHistory", mock.Anything, "AAPL", 60).Return(historyOf(150), nil).Once()
		fetcher := newTestFetcher(t, provider, time.Minute)

		_, err := fetcher.Fetch(ctx, "AAPL", 60)
		require.Error(t, err)
		assert.True(t, providers.IsFetchError(err))

		history, err := fetcher.Fetch(ctx, "AAPL", 60)
		require.NoError(t, err)
		assert.Equal(t, []float64{150}, history.Prices())
		provider.AssertNumberOfCalls(t, "GetPriceHistory", 2)
	})

	t.Run("plain errors are wrapped as fetch errors", func(t *testing.T) {
		provider := new(MockHistoryProvider)
		cause := errors.New("connection refused")
		provider.On("GetPriceHistory", mock.Anything, "MSFT", 10).Return(nil, cause).Once()
		fetcher := newTestFetcher(t, provider, time.Minute)

		_, err := fetcher.Fetch(ctx, "MSFT", 10)

		require.Error(t, err)
		var fetchErr *providers.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, "MSFT", fetchErr.Ticker)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("callers cannot mutate the cached history", func(t *testing.T) {
		provider := new(MockHistoryProvider)
		provider.On("GetPriceHistory", mock.Anything, "AAPL", 60).Return(historyOf(100, 200), nil).Once()
		fetcher := newTestFetcher(t, provider, time.Minute)

		first, err := fetcher.Fetch(ctx, "AAPL", 60)
		require.NoError(t, err)
		first[0].Price = -1

		second, err := fetcher.Fetch(ctx, "AAPL", 60)
		require.NoError(t, err)
		assert.Equal(t, []float64{100, 200}, second.Prices())
	})
}

func TestHistoryFetcher_ConcurrentMisses(t *testing.T) {
	provider := new(MockHistoryProvider)
	release := make(chan struct{})
	provider.On("GetPriceHistory", mock.Anything, "AAPL", 60).
		Run(func(mock.Arguments) { <-release }).
		Return(historyOf(100, 200), nil)
	fetcher := newTestFetcher(t, provider, time.Minute)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]models.PriceHistory, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = fetcher.Fetch(context.Background(), "AAPL", 60)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, []float64{100, 200}, results[i].Prices())
	}
	// late callers either join the flight or hit the cache it filled
	provider.AssertNumberOfCalls(t, "GetPriceHistory", 1)
}
