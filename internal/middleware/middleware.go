package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var errPanic = errors.New("panic while serving request")

// RequestLogger logs one line per request once it has been served
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("clientIP", c.ClientIP()).
			Msg("Request served")
	}
}

// Recovery turns a panic into an opaque 500 and logs it
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		HandleAPIError(c, errPanic)
	})
}
