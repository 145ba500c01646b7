package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsService records the service's operational metrics
type MetricsService interface {
	// HTTP metrics
	RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration)

	// Cache metrics
	RecordCacheOperation(operation string, hit bool)
	SetCacheEntries(count int)

	// Upstream feed metrics
	RecordUpstreamCall(status string, duration time.Duration)

	// Aggregation metrics
	RecordAggregation(kind, status string, duration time.Duration)
}

type prometheusMetrics struct {
	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Cache metrics
	cacheOperationsTotal *prometheus.CounterVec
	cacheEntriesGauge    prometheus.Gauge

	// Upstream metrics
	upstreamCallsTotal   *prometheus.CounterVec
	upstreamCallDuration prometheus.Histogram

	// Aggregation metrics
	aggregationsTotal   *prometheus.CounterVec
	aggregationDuration *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the service metrics on reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated from the default registry.
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsService {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &prometheusMetrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_stats_api_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stock_stats_api_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		cacheOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_stats_api_cache_operations_total",
				Help: "Total number of price history cache operations",
			},
			[]string{"operation", "result"},
		),
		cacheEntriesGauge: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stock_stats_api_cache_entries",
				Help: "Number of price histories currently cached",
			},
		),
		upstreamCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_stats_api_upstream_calls_total",
				Help: "Total number of calls to the stock price feed",
			},
			[]string{"status"},
		),
		upstreamCallDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stock_stats_api_upstream_call_duration_seconds",
				Help:    "Stock price feed call duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
		),
		aggregationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_stats_api_aggregations_total",
				Help: "Total number of aggregation requests",
			},
			[]string{"kind", "status"},
		),
		aggregationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stock_stats_api_aggregation_duration_seconds",
				Help:    "Aggregation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
}

func (m *prometheusMetrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordCacheOperation(operation string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	if operation == "set" {
		result = "ok"
	}
	m.cacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

func (m *prometheusMetrics) SetCacheEntries(count int) {
	m.cacheEntriesGauge.Set(float64(count))
}

func (m *prometheusMetrics) RecordUpstreamCall(status string, duration time.Duration) {
	m.upstreamCallsTotal.WithLabelValues(status).Inc()
	m.upstreamCallDuration.Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordAggregation(kind, status string, duration time.Duration) {
	m.aggregationsTotal.WithLabelValues(kind, status).Inc()
	m.aggregationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}
