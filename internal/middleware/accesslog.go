package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkle/inkle-api/pkg/logger"
	"github.com/sirupsen/logrus"
)

func AccessLog(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := l.WithFields(logrus.Fields{
			"rid":     c.GetString(KeyRequestID),
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
			"size":    c.Writer.Size(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("HTTP")
		case status >= 400:
			entry.Warn("HTTP")
		default:
			entry.Info("HTTP")
		}
	}
}
