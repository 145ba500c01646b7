package aggregator

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"stock-stats-api/internal/dto"
	"stock-stats-api/internal/models"
	"stock-stats-api/internal/monitoring"
)

// Service orchestrates the average and correlation aggregations
type Service struct {
	source  HistorySource
	aligner *Aligner
	metrics monitoring.MetricsService
	logger  *logrus.Logger
}

// NewService creates a new aggregation service
func NewService(source HistorySource, aligner *Aligner, metrics monitoring.MetricsService, logger *logrus.Logger) *Service {
	if aligner == nil {
		aligner = NewAligner(nil)
	}
	return &Service{
		source:  source,
		aligner: aligner,
		metrics: metrics,
		logger:  logger,
	}
}

// Average returns the mean price of the ticker's fetched history together
// with that history. No window filtering is applied beyond the fetch itself.
func (s *Service) Average(ctx context.Context, req *dto.AverageRequest) (*models.AverageResult, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		s.metrics.RecordAggregation("average", "invalid", time.Since(start))
		return nil, err
	}

	history, err := s.source.Fetch(ctx, req.Ticker, req.Minutes)
	if err != nil {
		s.metrics.RecordAggregation("average", "error", time.Since(start))
		s.logger.WithFields(logrus.Fields{
			"ticker":  req.Ticker,
			"minutes": req.Minutes,
			"error":   err,
		}).Error("Average aggregation failed")
		return nil, fmt.Errorf("average price for %s: %w", req.Ticker, err)
	}

	result := &models.AverageResult{
		Ticker:       req.Ticker,
		Minutes:      req.Minutes,
		AveragePrice: AveragePrice(history),
		PriceHistory: history,
	}

	s.metrics.RecordAggregation("average", "ok", time.Since(start))
	s.logger.WithFields(logrus.Fields{
		"ticker":  req.Ticker,
		"minutes": req.Minutes,
		"points":  len(history),
		"average": result.AveragePrice,
	}).Info("Average aggregation completed")

	return result, nil
}

// Correlation fetches both tickers concurrently, aligns them on the trailing
// window and returns their Pearson correlation. Per-ticker averages are taken
// over the full fetched histories, not the aligned subset. Either fetch
// failing fails the whole operation.
func (s *Service) Correlation(ctx context.Context, req *dto.CorrelationRequest) (*models.CorrelationReport, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		s.metrics.RecordAggregation("correlation", "invalid", time.Since(start))
		return nil, err
	}

	histories := make([]models.PriceHistory, len(req.Tickers))
	g, gctx := errgroup.WithContext(ctx)
	for i, ticker := range req.Tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			history, err := s.source.Fetch(gctx, ticker, req.Minutes)
			if err != nil {
				return err
			}
			histories[i] = history
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.metrics.RecordAggregation("correlation", "error", time.Since(start))
		s.logger.WithFields(logrus.Fields{
			"tickers": req.Tickers,
			"minutes": req.Minutes,
			"error":   err,
		}).Error("Correlation aggregation failed")
		return nil, fmt.Errorf("correlation for %v: %w", req.Tickers, err)
	}

	aligned := s.aligner.Align(histories[0], histories[1], req.Minutes)
	correlation := Correlate(aligned.A, aligned.B)

	report := &models.CorrelationReport{
		Minutes:     req.Minutes,
		Correlation: correlation,
		Stocks:      make(map[string]models.StockSummary, len(req.Tickers)),
	}
	for i, ticker := range req.Tickers {
		report.Stocks[ticker] = models.StockSummary{
			AveragePrice: AveragePrice(histories[i]),
			PriceHistory: histories[i],
		}
	}

	s.metrics.RecordAggregation("correlation", "ok", time.Since(start))
	s.logger.WithFields(logrus.Fields{
		"tickers":     req.Tickers,
		"minutes":     req.Minutes,
		"pairs":       correlation.Pairs,
		"correlation": correlation.Coefficient,
	}).Info("Correlation aggregation completed")

	return report, nil
}
