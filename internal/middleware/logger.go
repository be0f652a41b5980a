package middleware

import (
	"time"

	"anoa.com/learnify/internal/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger writes one structured line per request. Paths in skip are
// not logged.
func RequestLogger(log logger.Logger, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		if skipped[path] {
			return
		}

		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if origin := c.GetHeader("Origin"); origin != "" {
			fields["origin"] = origin
		}
		if raw := c.Request.URL.RawQuery; raw != "" {
			fields["query"] = raw
		}

		entry := log.With(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Warn("request failed")
		case status >= 400:
			entry.Info("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}
