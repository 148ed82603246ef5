package middleware

import (
	"net/http"
	"sync"
	"time"

	"wmx/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per route+IP. It is process-local and
// resets on restart; the limiter is injected from cmd/api so a shared store
// can replace it for multi-instance deployments.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    burst,
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

// Allow reports whether one more hit for the route+IP pair fits the window.
func (rl *RateLimiter) Allow(route, ip string) bool {
	return rl.get(route + "|" + ip).Allow()
}

// Limit rejects requests over the per-IP budget for the matched route.
func Limit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = c.RemoteIP()
		}

		if !rl.Allow(c.FullPath(), ip) {
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
