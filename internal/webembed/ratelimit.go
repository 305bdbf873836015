// ABOUTME: Per-visitor token bucket rate limiting for message sends
// ABOUTME: Lazily allocates one limiter per visitor id

package webembed

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

type visitorLimiter struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	rps   float64
	burst int
}

func newVisitorLimiter(rps float64, burst int) *visitorLimiter {
	return &visitorLimiter{
		m:     make(map[string]*rate.Limiter),
		rps:   rps,
		burst: burst,
	}
}

func (p *visitorLimiter) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.m[key]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(p.rps), p.burst)
	p.m[key] = l
	return l
}

func (p *visitorLimiter) Allow(key string) bool {
	return p.get(key).Allow()
}

// rateLimitMiddleware rejects sends from visitors exceeding their budget
func (s *Server) rateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			visitorID := VisitorIDFromContext(r.Context())
			if !s.limiter.Allow(visitorID) {
				s.logger.Warn("rate limit exceeded", "visitor_id", visitorID)
				http.Error(w, "too many messages, slow down", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
