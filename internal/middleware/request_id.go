package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// RequestIDKey is the gin context key holding the correlation id.
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestID accepts the caller's X-Request-ID (or generates one), echoes it
// back, and stores a request-scoped zerolog logger in the request context.
// Code below the handler logs through zerolog.Ctx(ctx).
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		logger := log.With().
			Str("request_id", id).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Next()
	}
}
