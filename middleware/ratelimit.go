package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/net/resp"
)

// RateLimit applies a fixed-window per-client limit backed by redis.
// Without redis the middleware passes everything through; a cache
// outage must not take the API down with it.
func RateLimit(rc *redis.Client, log *logger.Logger, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rc == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		windowStart := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("learnhub:ratelimit:%s:%d", c.ClientIP(), windowStart)

		n, err := rc.Incr(ctx, key).Result()
		if err != nil {
			log.Warn(ctx, "rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if n == 1 {
			rc.Expire(ctx, key, window)
		}

		if n > int64(limit) {
			resp.Fail(c.Writer, resp.TooManyRequests("rate limit exceeded, slow down"))
			c.Abort()
			return
		}

		c.Next()
	}
}
