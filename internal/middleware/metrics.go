package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sudoeste-fight/academy-api/internal/service"
)

// Metrics records request counts and latency per route template. Unmatched paths are
// grouped so scanners cannot blow up label cardinality.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
