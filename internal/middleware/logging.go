package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"neuvera-go/pkg/log"
)

// RequestLogger 是一个 Gin 中间件，记录每个请求的状态码与耗时。
// 请求体和响应体包含密码与 token，不写入日志。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		log.Infow("HTTP Request Log",
			"statusCode", c.Writer.Status(),
			"latency", latency.String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"requestId", c.GetString(RequestIDKey),
		)
	}
}
