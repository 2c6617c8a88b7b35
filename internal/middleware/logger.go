package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gstengine/pkg/logger"
)

const loggerKey = "logger"

// RequestID injects an X-Request-ID header into the request and response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger stores a request-scoped logger in the context and logs each HTTP
// request with method, path, status, and latency.
func Logger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		reqLog := log.With("request_id", c.GetString("request_id"))
		c.Set(loggerKey, reqLog)

		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			reqLog.Errorw("request", fields...)
		case status >= 400:
			reqLog.Warnw("request", fields...)
		default:
			reqLog.Infow("request", fields...)
		}
	}
}

// GetLogger returns the request-scoped logger, or a no-op logger outside
// the Logger middleware.
func GetLogger(c *gin.Context) *logger.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return logger.Nop()
}

// Recovery recovers from panics and returns a 500 error.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
