package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fxpulse/internal/logger"
)

// RequestLogger logs one line per request with method, route, status,
// latency and the request id set by RequestID. 4xx responses log at warn,
// 5xx at error.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RequestLogger())
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		status := c.Writer.Status()
		log := logger.For("http")
		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			ev = ev.Str("errors", errs.String())
		}

		rid, _ := c.Get(RequestIDKey)
		ev.Str("request_id", toString(rid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("http_request")
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
