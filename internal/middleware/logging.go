package middleware

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"stock-stats-api/internal/monitoring"
)

// Logger returns a gin middleware for logging HTTP requests
func Logger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"status_code":   c.Writer.Status(),
			"latency":       time.Since(start),
			"client_ip":     c.ClientIP(),
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"query":         c.Request.URL.RawQuery,
			"request_id":    requestid.Get(c),
			"user_agent":    c.Request.UserAgent(),
			"response_size": c.Writer.Size(),
		})

		switch {
		case c.Writer.Status() >= 500:
			entry.Error("HTTP request processed")
		case c.Writer.Status() >= 400:
			entry.Warn("HTTP request processed")
		default:
			entry.Info("HTTP request processed")
		}
	}
}

// RequestID tags each request with an X-Request-ID, keeping one supplied by the caller
func RequestID() gin.HandlerFunc {
	return requestid.New(requestid.WithGenerator(func() string {
		return uuid.NewString()
	}))
}

// Metrics records request count and latency per route template
func Metrics(metrics monitoring.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}
