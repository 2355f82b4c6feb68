package middleware

import (
	"time"

	"ukrbus/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency per route pattern.
func Metrics(m *metrics.Collectors) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
