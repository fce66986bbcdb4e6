// Package middleware holds gin.HandlerFunc wrappers shared across routes.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paiban/horario/internal/metrics"
)

// Metrics records request duration and status for every routed request.
func Metrics(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if reg == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		reg.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
