package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Power-Sh3ll/CIS440-Spectra/cache"
	"github.com/Power-Sh3ll/CIS440-Spectra/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func cacheKey(email, path, rawQuery string) string {
	return fmt.Sprintf("cache:%s:%s?%s", email, path, rawQuery)
}

// CacheResponse caches successful GET responses in redis, keyed by the
// authenticated user and URL. Must run after Auth. Pass-through when redis
// is not connected.
func CacheResponse(duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		user, ok := CurrentUser(c)
		if !ok {
			c.Next()
			return
		}

		key := cacheKey(user.Email, c.Request.URL.Path, c.Request.URL.RawQuery)

		var cached cachedResponse
		if err := cache.Get(key, &cached); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")

		blw := &bodyLogWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			entry := cachedResponse{
				Status:      c.Writer.Status(),
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        blw.body.Bytes(),
			}
			if err := cache.Set(key, entry, duration); err != nil && !errors.Is(err, cache.ErrDisabled) {
				utils.Logger.Warn("cache_set_failed", zap.Error(err), zap.String("key", key))
			}
		}
	}
}

// InvalidateLeaderboards drops every cached leaderboard. A carbon save
// changes the leaderboard of the saver and of all their friends, so the
// blanket invalidation is the simple correct choice at 30s TTLs.
func InvalidateLeaderboards() {
	if err := cache.DeletePattern("cache:*:/api/leaderboard*"); err != nil && !errors.Is(err, cache.ErrDisabled) {
		utils.Logger.Warn("leaderboard_cache_invalidate_failed", zap.Error(err))
	}
}

// InvalidateUserBadges drops the cached badge partition for one user.
func InvalidateUserBadges(email string) {
	if err := cache.DeletePattern(cacheKey(email, "/api/user/badges", "*")); err != nil && !errors.Is(err, cache.ErrDisabled) {
		utils.Logger.Warn("badge_cache_invalidate_failed", zap.Error(err), zap.String("email", email))
	}
}

// RateLimit caps requests per client IP using a redis counter. Pass-through
// when redis is not connected.
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), c.ClientIP())

		count, err := cache.IncrementCounter(key, window)
		if err != nil {
			if !errors.Is(err, cache.ErrDisabled) {
				utils.Logger.Error("rate_limit_error", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequests))
		remaining := maxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > int64(maxRequests) {
			utils.Logger.Warn("rate_limit_exceeded",
				zap.String("ip", c.ClientIP()),
				zap.Int64("count", count),
			)
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests. Try again later."})
			c.Abort()
			return
		}

		c.Next()
	}
}
