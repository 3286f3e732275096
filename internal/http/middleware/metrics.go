package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pgscatalog-etl/internal/observability"
)

// Metrics instruments request counts and latency. Unmatched routes share one
// label so scanners cannot blow up cardinality.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		m.ObserveAPI(c.Request.Method, routeOf(c), c.Writer.Status(), time.Since(start))
	}
}
