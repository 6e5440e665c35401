package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/mapaddress-backend/internal/metrics"
)

// MetricsMiddleware records request counts and latency per route template.
// Unmatched paths are grouped under "unmatched".
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPSeconds.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
