package middleware

import (
	"ForestEdu/pkg/logger"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

func LoggingMiddleware(logger logger.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		if rawQuery := c.Request.URL.RawQuery; rawQuery != "" {
			path = fmt.Sprintf("%s?%s", path, rawQuery)
		}
		status := c.Writer.Status()
		args := []any{
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if attemptID := c.Param("attempt_id"); attemptID != "" {
			args = append(args, "attempt_id", attemptID)
		}

		msg := fmt.Sprintf("%s %s", c.Request.Method, path)
		switch {
		case status >= 500:
			logger.Error(msg, args...)
		case status >= 400:
			logger.Warn(msg, args...)
		default:
			logger.Info(msg, args...)
		}
	}
}
