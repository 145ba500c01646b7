package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stock-stats-api/internal/dto"
	"stock-stats-api/internal/models"
)

// StockService is the aggregation surface the controller depends on
type StockService interface {
	Average(ctx context.Context, req *dto.AverageRequest) (*models.AverageResult, error)
	Correlation(ctx context.Context, req *dto.CorrelationRequest) (*models.CorrelationReport, error)
}

// StockController handles the stock aggregation endpoints
type StockController struct {
	service StockService
	logger  *logrus.Logger
}

// NewStockController creates a new stock controller
func NewStockController(service StockService, logger *logrus.Logger) *StockController {
	return &StockController{
		service: service,
		logger:  logger,
	}
}

// GetAverage handles GET /stocks/:ticker?minutes=n&aggregation=average
func (sc *StockController) GetAverage(c *gin.Context) {
	startTime := time.Now()

	req, err := dto.NewAverageRequest(c.Param("ticker"), c.Query("minutes"), c.Query("aggregation"))
	if err != nil {
		sc.respondError(c, err)
		return
	}

	result, err := sc.service.Average(c.Request.Context(), req)
	if err != nil {
		sc.respondError(c, err)
		return
	}

	sc.logger.WithFields(logrus.Fields{
		"ticker":         req.Ticker,
		"minutes":        req.Minutes,
		"points":         len(result.PriceHistory),
		"execution_time": time.Since(startTime),
	}).Debug("Average request served")

	c.JSON(http.StatusOK, dto.BuildAverageResponse(result))
}

// GetCorrelation handles GET /stockcorrelation?minutes=n&ticker=a&ticker=b
func (sc *StockController) GetCorrelation(c *gin.Context) {
	startTime := time.Now()

	req, err := dto.NewCorrelationRequest(c.Query("minutes"), c.QueryArray("ticker"))
	if err != nil {
		sc.respondError(c, err)
		return
	}

	report, err := sc.service.Correlation(c.Request.Context(), req)
	if err != nil {
		sc.respondError(c, err)
		return
	}

	sc.logger.WithFields(logrus.Fields{
		"tickers":        req.Tickers,
		"minutes":        req.Minutes,
		"pairs":          report.Correlation.Pairs,
		"execution_time": time.Since(startTime),
	}).Debug("Correlation request served")

	c.JSON(http.StatusOK, dto.BuildCorrelationResponse(report))
}

// respondError maps validation failures to 400 and everything else to 500
func (sc *StockController) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if dto.IsValidationError(err) {
		status = http.StatusBadRequest
	}

	sc.logger.WithFields(logrus.Fields{
		"path":   c.Request.URL.Path,
		"query":  c.Request.URL.RawQuery,
		"status": status,
		"error":  err,
	}).Warn("Stock request failed")

	c.JSON(status, dto.BuildErrorResponse(err))
}
