package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/contractpay-backend/internal/platform/ctxutil"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

// RequestLogger writes one line per request once the handler chain has finished.
// 5xx logs at error, 4xx at warn, the rest at info.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		kv := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		ctx := c.Request.Context()
		kv = append(kv, ctxutil.GetTraceData(ctx).LogFields()...)
		kv = append(kv, ctxutil.GetRequestData(ctx).LogFields()...)
		if c.Writer.Header().Get(HeaderIdempotentReplay) != "" {
			kv = append(kv, "idempotent_replay", true)
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		logAt(log, status)("http request", kv...)
	}
}

func logAt(log *logger.Logger, status int) func(string, ...interface{}) {
	switch {
	case status >= 500:
		return log.Error
	case status >= 400:
		return log.Warn
	default:
		return log.Info
	}
}
