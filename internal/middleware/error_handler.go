package middleware

import (
	"net/http"
	"time"

	"simplesales/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const problemContentType = "application/problem+json"

// WriteProblem aborts the request with p as an application/problem+json body.
func WriteProblem(c *gin.Context, p apierror.Problem) {
	c.Header("Content-Type", problemContentType)
	c.AbortWithStatusJSON(p.Status, p)
}

// ErrorHandler renders the last error pushed with c.Error. Domain errors map
// to their 4xx body; anything else becomes a 500 that never exposes the
// underlying message.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		logger := zerolog.Ctx(c.Request.Context())
		p, known := apierror.FromError(err, c.Request.URL.Path, c.GetString(RequestIDKey))
		if known {
			logger.Warn().Err(err).Int("status", p.Status).Msg("request rejected")
		} else {
			logger.Error().Err(err).Msg("unhandled error")
		}
		WriteProblem(c, p)
	}
}

// Recovery handles panics and converts them into the same 500 body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				zerolog.Ctx(c.Request.Context()).Error().
					Interface("panic", r).
					Msg("panic recovered")
				p, _ := apierror.FromError(nil, c.Request.URL.Path, c.GetString(RequestIDKey))
				WriteProblem(c, p)
			}
		}()
		c.Next()
	}
}

// Logger logs each request with status and latency: info for 2xx/3xx, warn
// for 4xx, error for 5xx. Requests slower than slowThreshold get an extra
// warning.
func Logger(slowThreshold time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		logger := zerolog.Ctx(c.Request.Context())
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = logger.Error()
		case status >= http.StatusBadRequest:
			ev = logger.Warn()
		default:
			ev = logger.Info()
		}
		ev.Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("request")

		if slowThreshold > 0 && latency > slowThreshold {
			logger.Warn().
				Dur("latency", latency).
				Dur("threshold", slowThreshold).
				Msg("slow request")
		}
	}
}
