package middleware

import (
	"net/http"
	"sync"
	"time"

	"garagio/config"
	"garagio/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds a map of client IPs to their rate limiters.
type rateLimiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

var limiterStore = &rateLimiterStore{
	limiters: make(map[string]*rate.Limiter),
}

// getLimiter returns the rate limiter for a given IP, creating one from the
// configured rate if it doesn't exist yet.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[ip]
	if !exists {
		perMinute := config.AppConfig.RateLimitPerMinute
		if perMinute <= 0 {
			perMinute = 200
		}
		burst := config.AppConfig.RateLimitBurst
		if burst <= 0 {
			burst = perMinute
		}
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
		s.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware throttles requests per client IP across the whole
// facade.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getClientIP(c)
		limiter := limiterStore.getLimiter(ip)
		if !limiter.Allow() {
			utils.GetLogger().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
