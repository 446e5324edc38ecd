package httpapi

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPRateLimiter tracks a token bucket per client key. Used on the
// forgot-password route to slow down enumeration and mail abuse.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewIPRateLimiter(window time.Duration, attempts int) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(window / time.Duration(attempts)),
		burst:    attempts,
	}
}

func (l *IPRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) > 10000 {
			l.cleanupLocked()
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	return lim.Allow()
}

// cleanupLocked drops entries whose bucket has refilled; those clients
// are indistinguishable from ones we have never seen.
func (l *IPRateLimiter) cleanupLocked() {
	for key, lim := range l.limiters {
		if lim.Tokens() >= float64(l.burst) {
			delete(l.limiters, key)
		}
	}
}
