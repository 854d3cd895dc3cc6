package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"examcorpus-backend/internal/shared/server/respond"
)

// RateLimitConfig controls per-client request limiting.
type RateLimitConfig struct {
	// Rate is the sustained requests-per-second allowance per client.
	Rate float64
	// Burst is the instantaneous burst allowance per client.
	Burst int
	// KeyFor derives the bucket key; defaults to client IP.
	KeyFor func(*gin.Context) string
}

// DefaultRateLimitConfig suits the API surface: uploads are heavy, so
// the sustained rate is modest with room for short bursts.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Rate: 5, Burst: 10}
}

// RateLimit returns a token-bucket limiter keyed per client.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Rate <= 0 {
		cfg.Rate = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.KeyFor == nil {
		cfg.KeyFor = func(c *gin.Context) string { return c.ClientIP() }
	}

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		key := cfg.KeyFor(c)

		mu.Lock()
		lim, ok := limiters[key]
		if !ok {
			lim = rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)
			limiters[key] = lim
		}
		mu.Unlock()

		if !lim.Allow() {
			respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests", nil)
			return
		}
		c.Next()
	}
}
