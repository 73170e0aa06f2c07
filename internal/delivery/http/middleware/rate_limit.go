package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"fiber-storefront/pkg/logger"
	"fiber-storefront/pkg/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-IP token bucket with a background sweeper for idle visitors.
type RateLimiter struct {
	visitors      map[string]*visitor
	mu            sync.Mutex
	limit         rate.Limit
	burst         int
	cleanupPeriod time.Duration
	visitorTTL    time.Duration
	cancel        context.CancelFunc
	done          chan struct{}
}

// NewRateLimiter starts the sweeper; call Shutdown to stop it.
func NewRateLimiter(ctx context.Context, limit rate.Limit, burst int, cleanupPeriod, visitorTTL time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors:      make(map[string]*visitor),
		limit:         limit,
		burst:         burst,
		cleanupPeriod: cleanupPeriod,
		visitorTTL:    visitorTTL,
		done:          make(chan struct{}),
	}
	ctx, rl.cancel = context.WithCancel(ctx)
	go rl.cleanupLoop(ctx)
	return rl
}

func (rl *RateLimiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)
			if !rl.limiter(ip).Allow() {
				logger.WithContext(r.Context()).Warn().Str("ip", ip).Msg("Rate limit exceeded")
				w.Header().Set("Retry-After", "1")
				utils.WriteError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context) {
	defer close(rl.done)
	ticker := time.NewTicker(rl.cleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-ctx.Done():
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, v := range rl.visitors {
		if time.Since(v.lastSeen) > rl.visitorTTL {
			delete(rl.visitors, ip)
		}
	}
}

// Visitors is the number of tracked IPs.
func (rl *RateLimiter) Visitors() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// Shutdown stops the sweeper and waits for it to exit.
func (rl *RateLimiter) Shutdown() {
	rl.cancel()
	<-rl.done
}
