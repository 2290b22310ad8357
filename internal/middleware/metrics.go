package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"neuvera-go/pkg/metrics"
)

// Metrics 按路由模板记录请求数与耗时，未匹配的路由归为 "unmatched"。
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
