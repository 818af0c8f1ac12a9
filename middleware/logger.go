package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const loggerKey = "logger"

// Logger attaches a request-scoped logger to the gin context and the
// request context, then writes one access line per request. The level
// follows the status: 5xx error, 4xx warn, everything else info.
func Logger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		log := base.With().
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Logger()

		c.Set(loggerKey, &log)
		c.Request = c.Request.WithContext(log.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		var e *zerolog.Event
		switch {
		case status >= 500:
			e = log.Error()
		case status >= 400:
			e = log.Warn()
		default:
			e = log.Info()
		}
		if subject := GetSubject(c); subject != "" {
			e = e.Str("subject", subject)
		}

		e.Int("status", status).
			Dur("latency", time.Since(start)).
			Str("route", c.FullPath()).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("request")
	}
}

// GetLogger returns the request logger, or a no-op logger when Logger did
// not run.
func GetLogger(c *gin.Context) *zerolog.Logger {
	if log, ok := c.Get(loggerKey); ok {
		if l, ok := log.(*zerolog.Logger); ok {
			return l
		}
	}
	nop := zerolog.Nop()
	return &nop
}
