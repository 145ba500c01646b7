package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"stock-stats-api/internal/aggregator"
	"stock-stats-api/internal/cache"
	"stock-stats-api/internal/config"
	"stock-stats-api/internal/controllers"
	"stock-stats-api/internal/monitoring"
	"stock-stats-api/internal/providers/stockfeed"
	"stock-stats-api/internal/routes"
	"stock-stats-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.Logging)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	gin.SetMode(ginMode(cfg))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewPrometheusMetrics(registry)

	// Upstream stock feed
	client := stockfeed.NewClient(&stockfeed.Config{
		BaseURL:   cfg.StockFeed.BaseURL,
		Token:     cfg.StockFeed.Token,
		Timeout:   cfg.StockFeed.Timeout,
		RateLimit: cfg.StockFeed.RateLimit,
	}, metrics, log)

	// Price history cache and its expiry sweeper
	historyCache := cache.NewMemoryHistoryCache(&cache.Config{
		MaxEntries:        cfg.Cache.MaxEntries,
		LocalItemsToPrune: 100,
	}, metrics, log)
	defer historyCache.Stop()

	sweeper, err := cache.NewSweeper(historyCache, cfg.Cache.SweepSchedule, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create cache sweeper")
	}
	sweeper.Start()
	defer sweeper.Stop()

	fetcher := aggregator.NewHistoryFetcher(client, historyCache, cfg.Cache.HistoryTTL, log)
	service := aggregator.NewService(fetcher, aggregator.NewAligner(nil), metrics, log)

	router := gin.New()
	routes.SetupRoutes(router, routes.Dependencies{
		StockController:  controllers.NewStockController(service, log),
		HealthController: controllers.NewHealthController(client, historyCache, metrics, log),
		Metrics:          metrics,
		Gatherer:         registry,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		Logger:           log,
	})

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(logrus.Fields{
			"addr":        addr,
			"environment": cfg.Environment,
			"feed":        cfg.StockFeed.BaseURL,
			"cache_ttl":   cfg.Cache.HistoryTTL,
		}).Info("Stock stats API starting")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server exited")
}

// ginMode picks gin's mode for the configured environment
func ginMode(cfg *config.Config) string {
	switch {
	case cfg.IsProduction():
		return gin.ReleaseMode
	case cfg.IsTest():
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
