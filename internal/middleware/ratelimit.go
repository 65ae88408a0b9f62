package middleware

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

var errRateLimited = errors.New("too many requests from this client")

type client struct {
	windowStart time.Time
	count       int
}

// limiter is a fixed-window in-memory counter keyed by client IP.
type limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
	now     func() time.Time
}

func (l *limiter) allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[ip]
	if !ok || now.Sub(cl.windowStart) >= l.window {
		// Drop expired entries lazily so the map does not grow with every IP ever seen.
		for k, v := range l.clients {
			if now.Sub(v.windowStart) >= l.window {
				delete(l.clients, k)
			}
		}
		l.clients[ip] = &client{windowStart: now, count: 1}
		return true
	}
	cl.count++
	return cl.count <= l.limit
}

// RateLimiter allows up to limit requests per window for each client IP and
// answers 429 with the standard error envelope beyond that. A non-positive
// limit disables the check.
//
// Usage:
//
//	router.Use(middleware.RateLimiter(60, time.Minute))
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := &limiter{clients: make(map[string]*client), limit: limit, window: window, now: time.Now}
	return func(c *gin.Context) {
		if limit <= 0 || l.allow(c.ClientIP()) {
			c.Next()
			return
		}
		AbortWithError(c, http.StatusTooManyRequests, "rate limit exceeded", errRateLimited)
	}
}
