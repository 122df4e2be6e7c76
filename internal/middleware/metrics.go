package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techhub/server/internal/pkg/metrics"
)

// Metrics records request counts and latency per route template, so
// /api/events/7 and /api/events/8 share one series.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
