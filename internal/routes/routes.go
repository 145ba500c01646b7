package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"stock-stats-api/internal/controllers"
	"stock-stats-api/internal/middleware"
	"stock-stats-api/internal/monitoring"
)

// Dependencies groups what the routes need to serve requests
type Dependencies struct {
	StockController  *controllers.StockController
	HealthController *controllers.HealthController
	Metrics          monitoring.MetricsService
	Gatherer         prometheus.Gatherer
	AllowedOrigins   []string
	Logger           *logrus.Logger
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	// Global middleware
	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Metrics(deps.Metrics))
	router.Use(gin.Recovery())

	router.GET("/stocks/:ticker", deps.StockController.GetAverage)
	router.GET("/stockcorrelation", deps.StockController.GetCorrelation)

	router.GET("/health", deps.HealthController.GetHealth)
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "endpoint not found",
			"path":  c.Request.URL.Path,
		})
	})
}
