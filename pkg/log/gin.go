package log

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderRequestID carries the request ID between client and server.
const HeaderRequestID = "X-Request-ID"

// RequestLogger tags every request with an ID (taken from X-Request-ID or
// generated), echoes it back and stores it with a request-scoped logger in
// the request context. The completed request is logged at a level that
// follows the status: 5xx as errors, 4xx as warnings.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := requestID(c)

		child := logger.With().
			Str(FieldRequestID, reqID).
			Str(FieldMethod, c.Request.Method).
			Str(FieldPath, c.Request.URL.Path).
			Str(FieldClientIP, c.ClientIP()).
			Logger()

		c.Header(HeaderRequestID, reqID)
		ctx := WithRequestID(WithLogger(c.Request.Context(), child), reqID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		evt := completionEvent(&child, status).
			Int(FieldStatus, status).
			Float64(FieldLatency, float64(time.Since(start).Milliseconds()))

		// Set by the login handler once the body is bound.
		if username := c.GetString(FieldUsername); username != "" {
			evt = evt.Str(FieldUsername, username)
		}
		if len(c.Errors) > 0 {
			evt = evt.Str("errors", c.Errors.String())
		}

		evt.Msg("request completed")
	}
}

func requestID(c *gin.Context) string {
	if id := c.GetHeader(HeaderRequestID); id != "" {
		return id
	}
	return uuid.New().String()
}

func completionEvent(l *zerolog.Logger, status int) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return l.Error()
	case status >= http.StatusBadRequest:
		return l.Warn()
	default:
		return l.Info()
	}
}
