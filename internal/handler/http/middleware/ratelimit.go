package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/handler/http/response"
	"golang.org/x/time/rate"
)

// UserRateLimiter keeps one token bucket per user.
type UserRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	b        int
	now      func() time.Time
}

func NewUserRateLimiter(r rate.Limit, b int) *UserRateLimiter {
	return &UserRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
		now:      time.Now,
	}
}

// PerMinute allows n requests per minute with a burst of n.
func PerMinute(n int) *UserRateLimiter {
	return NewUserRateLimiter(rate.Every(time.Minute/time.Duration(n)), n)
}

func (l *UserRateLimiter) GetLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.limiters[key] = limiter
	}

	return limiter
}

// Prune drops buckets that have refilled completely. A full bucket behaves
// like a new one, so pruning never grants extra requests. It returns the
// number of buckets removed.
func (l *UserRateLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, limiter := range l.limiters {
		if limiter.TokensAt(now) >= float64(l.b) {
			delete(l.limiters, key)
			removed++
		}
	}
	return removed
}

// RateLimitByUser throttles authenticated callers. A nil limiter disables it.
func RateLimitByUser(limiter *UserRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if limiter == nil || !ok {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.GetLimiter(caller.UserID).Allow() {
				response.TooManyRequests(w, "Too many requests from this user")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
