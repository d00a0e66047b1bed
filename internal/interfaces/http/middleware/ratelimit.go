package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nestapp/backend/internal/infrastructure/logger"
	"github.com/nestapp/backend/internal/interfaces/http/dto"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"
)

// NewMemoryLimiter builds an in-process limiter from a formatted rate such
// as "60-M" (60 requests per minute).
func NewMemoryLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", formatted, err)
	}
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          "nest_webhook",
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	})
	return limiter.New(store, rate), nil
}

// RateLimit returns a rate limiting middleware keyed by client IP
func RateLimit(l *limiter.Limiter) gin.HandlerFunc {
	return RateLimitByKey(l, func(c *gin.Context) string { return c.ClientIP() })
}

// RateLimitByKey returns a rate limiting middleware with a custom key extractor
func RateLimitByKey(l *limiter.Limiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		lctx, err := l.Get(c.Request.Context(), key)
		if err != nil {
			// The memory store only fails on a cancelled context
			logger.L(c.Request.Context()).Error("Rate limit check failed", zap.String("key", key), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInternal, "rate limit check failed", GetRequestID(c)))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			logger.L(c.Request.Context()).Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.Int64("limit", lctx.Limit),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited, "Too many requests. Please try again later.", GetRequestID(c)))
			return
		}

		c.Next()
	}
}
