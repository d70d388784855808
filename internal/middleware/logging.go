package middleware

import (
	"notebooklm-go/pkg/log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logging 记录每个请求的方法、路径、状态码与耗时。
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}
