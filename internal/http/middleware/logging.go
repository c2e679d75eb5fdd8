package middleware

import (
	"time"

	"github.com/abdullharslan/ProductManager/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every request once it completes and makes the client
// address and user agent available to audit events through the request context.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		cc := &domain.ClientContext{IPAddress: c.ClientIP(), UserAgent: c.Request.UserAgent()}
		c.Request = c.Request.WithContext(domain.WithClientContext(c.Request.Context(), cc))

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency":    time.Since(startTime),
			"ip":         cc.IPAddress,
			"user_agent": cc.UserAgent,
		}
		if userID, ok := GetUserID(c); ok {
			fields["user_id"] = userID
		}

		entry := logger.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("HTTP request")
		case status >= 400:
			entry.Warn("HTTP request")
		default:
			entry.Info("HTTP request")
		}
	}
}
