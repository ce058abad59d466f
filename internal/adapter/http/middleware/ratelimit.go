package middleware

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/moneta-app/moneta/internal/infrastructure/metrics"
)

// RateLimiter throttles requests per client IP using a token bucket per
// address. The bucket map grows with the number of distinct clients; call
// Reset periodically on long-running servers.
type RateLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
	metrics *metrics.Metrics
}

// NewRateLimiter allows rps sustained requests per second with bursts of
// up to burst. metrics may be nil.
func NewRateLimiter(rps float64, burst int, m *metrics.Metrics) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(rps),
		burst:   burst,
		metrics: m,
	}
}

func (rl *RateLimiter) bucket(ip string) *rate.Limiter {
	rl.mu.RLock()
	b, ok := rl.buckets[ip]
	rl.mu.RUnlock()
	if ok {
		return b
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Re-check under the write lock.
	if b, ok := rl.buckets[ip]; ok {
		return b
	}

	b = rate.NewLimiter(rl.limit, rl.burst)
	rl.buckets[ip] = b

	return b
}

// Limit rejects requests that exceed the client's bucket with 429.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		if !rl.bucket(ip).Allow() {
			if rl.metrics != nil {
				rl.metrics.RateLimitHits.WithLabelValues(normalizePath(r.URL.Path)).Inc()
			}
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}

	return r.RemoteAddr
}

// Reset drops all cached buckets.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.buckets = make(map[string]*rate.Limiter)
}
