package middleware

import (
	"context"
	"scholaflow/backend/internal/apperr"
	"scholaflow/backend/pkg/response"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const rateLimitMessage = "Too many requests from this IP, please try again later."

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiterConfig struct {
	// Requests allowed per Window. The bucket starts full so a fresh client
	// can spend all of them at once.
	Requests int
	Window   time.Duration

	CleanupInterval time.Duration
	// Visitors idle for longer than TTL are forgotten
	TTL time.Duration
}

// RateLimiter is a per IP token bucket limiter.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

// NewRateLimiter creates a limiter and starts its cleanup loop, which stops
// once ctx is done.
func NewRateLimiter(ctx context.Context, config RateLimiterConfig) *RateLimiter {
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}
	if config.TTL == 0 {
		config.TTL = config.Window
	}

	r := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(config.Window / time.Duration(config.Requests)),
		burst:    config.Requests,
		ttl:      config.TTL,
		now:      time.Now,
	}

	go r.cleanup(ctx, config.CleanupInterval)
	return r
}

func (r *RateLimiter) get(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, exists := r.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(r.limit, r.burst)
		r.visitors[ip] = &visitor{limiter, r.now()}
		return limiter
	}

	v.lastSeen = r.now()
	return v.limiter
}

func (r *RateLimiter) cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *RateLimiter) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for ip, v := range r.visitors {
		if r.now().Sub(v.lastSeen) > r.ttl {
			delete(r.visitors, ip)
		}
	}
}

// Middleware answers 429 once a client IP runs out of tokens.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.get(c.ClientIP()).Allow() {
			response.Fail(c, apperr.TooManyRequests(rateLimitMessage))
			return
		}

		c.Next()
	}
}
