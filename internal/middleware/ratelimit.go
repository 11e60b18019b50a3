package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paarshedu/entrance-exam-backend/internal/config"
	"github.com/paarshedu/entrance-exam-backend/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimiter is a fixed-window request limiter keyed by client IP. The
// counters live in Redis so the limit holds across server replicas, same as
// the session state.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	log    zerolog.Logger
}

// NewRateLimiter creates a RateLimiter (e.g., 30 requests per minute).
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		log:    log.With().Str("component", "ratelimit").Logger(),
	}
}

// Middleware returns a Gin middleware that rejects requests over the limit
// with 429. A Redis failure lets the request through; throttling is not
// worth an outage.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := config.CacheKey.RateLimitKey(c.ClientIP(), windowBucket(time.Now(), rl.window))

		pipe := rl.rdb.TxPipeline()
		count := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rl.window)
		if _, err := pipe.Exec(ctx); err != nil {
			rl.log.Warn().Err(err).Msg("Rate limit check failed, allowing request")
			c.Next()
			return
		}

		if count.Val() > int64(rl.limit) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}

		c.Next()
	}
}

// windowBucket truncates t to the start of its fixed window, so every
// request inside one window increments the same counter key.
func windowBucket(t time.Time, window time.Duration) int64 {
	secs := int64(window / time.Second)
	if secs <= 0 {
		secs = 1
	}
	return t.Unix() / secs
}
