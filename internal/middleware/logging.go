package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/logger"
)

// RequestLogger attaches a request-scoped logger and logs every completed
// request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		l := logger.WithContext(c.Request.Context()).With().Str("request_id", requestID).Logger()
		c.Request = c.Request.WithContext(logger.Into(c.Request.Context(), l))

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		event := l.Info()
		switch {
		case status >= 500:
			event = l.Error()
		case status >= 400:
			event = l.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Int64("duration_ms", duration.Milliseconds()).
			Uint("user_id", Viewer(c).UserID).
			Msg("HTTP request completed")
	}
}
