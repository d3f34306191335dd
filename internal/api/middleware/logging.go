package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"audioscribe/internal/app/metrics"
)

// StructuredLogging emits one structured log entry per request and feeds
// the request duration histogram. Health and metrics probes are skipped.
func StructuredLogging(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if path == "/health" || path == "/metrics" {
			return
		}

		latency := time.Since(start)
		status := c.Writer.Status()
		metrics.RequestDuration.
			WithLabelValues(path, strconv.Itoa(status)).
			Observe(latency.Seconds())

		logger.Info("http request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Int64("latency_ms", latency.Milliseconds()),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}
