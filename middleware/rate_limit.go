package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cppla/aiblog/utils"
)

const limiterIdle = 5 * time.Minute

type clientLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// IPRateLimiter keeps one token bucket per client IP. Idle buckets are
// swept at most once per limiterIdle so the map stays bounded by recent clients.
type IPRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

// NewIPRateLimiter allows perMinute requests per IP, with bursts of half that.
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	perMinute = max(perMinute, 1)
	return &IPRateLimiter{
		clients: map[string]*clientLimiter{},
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   max(perMinute/2, 1),
		now:     time.Now,
	}
}

// Allow consumes a token for key.
func (l *IPRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterIdle {
		for k, c := range l.clients {
			if now.After(c.expires) {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.expires = now.Add(limiterIdle)
	return c.limiter.AllowN(now, 1)
}

// Middleware answers 429 once a client IP exhausted its bucket.
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !l.Allow(ctx.ClientIP()) {
			utils.WriteError(ctx, utils.TooManyRequests("rate limit exceeded"))
			return
		}
		ctx.Next()
	}
}
