package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/learnhub/ctxutil"
	"github.com/learnhub/learnhub/logging/logger"
)

const traceHeader = "X-Request-Id"

// Trace assigns every request a trace ID, honoring one supplied by the
// caller, and logs the request once it completes.
func Trace(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if incoming := c.GetHeader(traceHeader); incoming != "" {
			ctx = ctxutil.SetTraceID(ctx, incoming)
		}
		ctx, traceID := ctxutil.EnsureTraceID(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(traceHeader, traceID)

		start := time.Now()
		c.Next()

		log.Info(c.Request.Context(), "request completed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
