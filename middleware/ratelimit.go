package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// LoginLimiter throttles credential attempts per client address. Each address
// gets a budget of attempts that refills continuously over the window, so a
// burst is allowed but sustained password guessing is not.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptBucket
	budget   float64
	refill   float64 // attempts regained per second
	window   time.Duration
}

type attemptBucket struct {
	remaining float64
	seen      time.Time
}

func NewLoginLimiter(budget int, window time.Duration) *LoginLimiter {
	l := &LoginLimiter{
		attempts: make(map[string]*attemptBucket),
		budget:   float64(budget),
		refill:   float64(budget) / window.Seconds(),
		window:   window,
	}

	go l.evictIdle()

	return l
}

// evictIdle drops buckets for addresses not seen for two full windows; their
// budget would be back at capacity anyway.
func (l *LoginLimiter) evictIdle() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for addr, bucket := range l.attempts {
			if now.Sub(bucket.seen) > 2*l.window {
				delete(l.attempts, addr)
			}
		}
		l.mu.Unlock()
	}
}

func (l *LoginLimiter) allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	bucket, ok := l.attempts[addr]
	if !ok {
		l.attempts[addr] = &attemptBucket{remaining: l.budget - 1, seen: now}
		return true
	}

	bucket.remaining += now.Sub(bucket.seen).Seconds() * l.refill
	if bucket.remaining > l.budget {
		bucket.remaining = l.budget
	}
	bucket.seen = now

	if bucket.remaining >= 1 {
		bucket.remaining--
		return true
	}

	return false
}

// Limit rejects the request with 429 once the client address has spent its
// attempt budget for the window.
func (l *LoginLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts. Please try again later."})
			c.Abort()
			return
		}
		c.Next()
	}
}
