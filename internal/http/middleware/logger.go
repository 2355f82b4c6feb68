package middleware

import (
	"time"

	"ukrbus/internal/utils"

	"github.com/gin-gonic/gin"
)

// Logger writes one line per request including request_id when available.
func Logger() gin.HandlerFunc {
	log := utils.Logger("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		ev := log.Info()
		if status >= 500 {
			ev = log.Error()
		}
		ev.Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Float64("latency_ms", float64(latency.Microseconds())/1000.0).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}
