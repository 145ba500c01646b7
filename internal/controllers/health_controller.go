package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stock-stats-api/internal/cache"
	"stock-stats-api/internal/dto"
	"stock-stats-api/internal/monitoring"
	"stock-stats-api/internal/providers"
)

const serviceName = "stock-stats-api"

// HealthController reports service and upstream health
type HealthController struct {
	provider providers.HistoryProvider
	cache    cache.HistoryCache
	metrics  monitoring.MetricsService
	logger   *logrus.Logger
}

// NewHealthController creates a new health controller
func NewHealthController(provider providers.HistoryProvider, historyCache cache.HistoryCache, metrics monitoring.MetricsService, logger *logrus.Logger) *HealthController {
	return &HealthController{
		provider: provider,
		cache:    historyCache,
		metrics:  metrics,
		logger:   logger,
	}
}

// GetHealth handles GET /health
func (hc *HealthController) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries := hc.cache.Len()
	hc.metrics.SetCacheEntries(entries)

	response := dto.HealthResponse{
		Status:         "healthy",
		Service:        serviceName,
		Timestamp:      time.Now().Unix(),
		ProviderStatus: "up",
		CacheEntries:   entries,
	}
	status := http.StatusOK

	if err := hc.provider.Ping(ctx); err != nil {
		hc.logger.WithFields(logrus.Fields{
			"provider": hc.provider.GetName(),
			"error":    err,
		}).Warn("Stock feed health check failed")

		response.Status = "degraded"
		response.ProviderStatus = "down"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, response)
}
