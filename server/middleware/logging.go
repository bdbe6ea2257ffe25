package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/simbank/logger"
)

// RequestLogger returns a Gin middleware that logs each request after it
// completes. Health checks are skipped to keep the log readable.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isHealthEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      path,
			"status":    status,
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}
		if rid := c.Writer.Header().Get(RequestIDHeader); rid != "" {
			fields[logger.FieldRequestID] = rid
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		logByStatus(status, "HTTP request", fields)
	}
}

func logByStatus(status int, msg string, fields map[string]interface{}) {
	switch {
	case status >= 500:
		logger.Error(msg, fields)
	case status >= 400:
		logger.Warn(msg, fields)
	default:
		logger.Debug(msg, fields)
	}
}

func isHealthEndpoint(path string) bool {
	return path == "/health" || path == "/healthz" || path == "/ready"
}
