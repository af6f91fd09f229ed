package middleware

import (
	"time"

	"nobilis/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics registra contagem e duração por rota (o template da rota, não o path cru).
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.IncInFlight()
		defer metrics.DecInFlight()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
