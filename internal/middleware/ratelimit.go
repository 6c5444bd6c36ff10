package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/beautyai/beautyai-api/internal/httperr"
)

var ErrTooManyAttempts = httperr.ErrTooManyRequests("too_many_login_attempts", "Too many login attempts, try again later")

// LoginLimiter counts login attempts per client IP in a fixed window.
// A successful login clears the counter. Redis errors let requests through.
type LoginLimiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
	log    *zap.Logger
}

func NewLoginLimiter(rdb *redis.Client, maxAttempts int, window time.Duration, log *zap.Logger) *LoginLimiter {
	return &LoginLimiter{rdb: rdb, max: maxAttempts, window: window, log: log}
}

func (l *LoginLimiter) key(ip string) string {
	return "login_attempts:" + ip
}

func (l *LoginLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.rdb == nil || l.max <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		defer cancel()

		key := l.key(c.ClientIP())

		n, err := l.rdb.Incr(ctx, key).Result()
		if err != nil {
			l.log.Warn("login limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if n == 1 {
			if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
				l.log.Warn("login limiter expire failed", zap.Error(err))
			}
		}

		if n > int64(l.max) {
			retry := l.window
			if ttl, err := l.rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				retry = ttl
			}
			c.Header("Retry-After", strconv.Itoa(int((retry+time.Second-1)/time.Second)))
			httperr.FromError(c, ErrTooManyAttempts)
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			if err := l.rdb.Del(context.Background(), key).Err(); err != nil {
				l.log.Warn("login limiter reset failed", zap.Error(err))
			}
		}
	}
}
