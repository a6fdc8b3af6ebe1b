// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/HSouheill/fieldtrack_backend/metrics"
	"github.com/HSouheill/fieldtrack_backend/models"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP and route, and blocks IPs that exceed their budget.
// Limiters are grouped by IP so a block release drops every route limiter of that IP.
type RateLimiter struct {
	ips            map[string]map[string]*limiterEntry
	blockedIPs     map[string]time.Time
	mu             *sync.RWMutex
	defaultLimit   rate.Limit
	defaultBurst   int
	blockDuration  time.Duration
	idleTimeout    time.Duration
	endpointLimits map[string]endpointLimit
	now            func() time.Time
}

func NewRateLimiter() *RateLimiter {
	limiter := &RateLimiter{
		ips:            make(map[string]map[string]*limiterEntry),
		blockedIPs:     make(map[string]time.Time),
		mu:             &sync.RWMutex{},
		defaultLimit:   rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst:   20,
		blockDuration:  5 * time.Minute,
		idleTimeout:    10 * time.Minute,
		endpointLimits: make(map[string]endpointLimit),
		now:            time.Now,
	}

	// The mobile app posts a fix every few seconds per employee, often behind one NAT.
	limiter.endpointLimits["/api/tracking-sessions/:id/location"] = endpointLimit{
		limit: rate.Every(20 * time.Millisecond),
		burst: 100,
	}

	// Administrative resets and sync are expensive.
	limiter.endpointLimits["/api/employees/refresh-locations"] = endpointLimit{limit: rate.Every(10 * time.Second), burst: 2}
	limiter.endpointLimits["/api/employees/clear-cache"] = endpointLimit{limit: rate.Every(10 * time.Second), burst: 2}
	limiter.endpointLimits["/api/data-sync"] = endpointLimit{limit: rate.Every(30 * time.Second), burst: 2}

	return limiter
}

// SetEndpointLimit overrides the budget for one route path.
func (r *RateLimiter) SetEndpointLimit(path string, limit rate.Limit, burst int) {
	r.mu.Lock()
	r.endpointLimits[path] = endpointLimit{limit: limit, burst: burst}
	r.mu.Unlock()
}

// Cleanup sweeps expired blocks and idle limiters every interval until stop is closed.
func (r *RateLimiter) Cleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *RateLimiter) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for ip, blockUntil := range r.blockedIPs {
		if now.After(blockUntil) {
			delete(r.blockedIPs, ip)
			delete(r.ips, ip)
		}
	}
	for ip, routes := range r.ips {
		if _, blocked := r.blockedIPs[ip]; blocked {
			continue
		}
		for path, entry := range routes {
			if now.Sub(entry.lastSeen) > r.idleTimeout {
				delete(routes, path)
			}
		}
		if len(routes) == 0 {
			delete(r.ips, ip)
		}
	}
}

// limiterCount reports how many route limiters are held.
func (r *RateLimiter) limiterCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, routes := range r.ips {
		n += len(routes)
	}
	return n
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			path := c.Path()

			switch path {
			case "/health", "/metrics", "/api/ws/locations":
				return next(c)
			}

			r.mu.Lock()
			if blockUntil, blocked := r.blockedIPs[ip]; blocked {
				if r.now().Before(blockUntil) {
					r.mu.Unlock()
					metrics.APIRateLimitHits.WithLabelValues(path).Inc()
					return tooManyRequests(c, blockUntil)
				}
				delete(r.blockedIPs, ip)
				delete(r.ips, ip)
			}
			r.mu.Unlock()

			limit, burst := r.defaultLimit, r.defaultBurst
			r.mu.RLock()
			if el, exists := r.endpointLimits[path]; exists {
				limit, burst = el.limit, el.burst
			}
			r.mu.RUnlock()

			if !r.getLimiter(ip, path, limit, burst).Allow() {
				blockUntil := r.now().Add(r.blockDuration)
				r.mu.Lock()
				r.blockedIPs[ip] = blockUntil
				r.mu.Unlock()

				metrics.APIRateLimitHits.WithLabelValues(path).Inc()
				return tooManyRequests(c, blockUntil)
			}

			return next(c)
		}
	}
}

func tooManyRequests(c echo.Context, retryAfter time.Time) error {
	return c.JSON(http.StatusTooManyRequests, models.Response{
		Status:  http.StatusTooManyRequests,
		Message: "Too many requests",
		Data:    map[string]string{"retryAfter": retryAfter.UTC().Format(time.RFC3339)},
	})
}

func (r *RateLimiter) getLimiter(ip, path string, limit rate.Limit, burst int) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	routes, exists := r.ips[ip]
	if !exists {
		routes = make(map[string]*limiterEntry)
		r.ips[ip] = routes
	}
	entry, exists := routes[path]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(limit, burst)}
		routes[path] = entry
	}
	entry.lastSeen = r.now()
	return entry.limiter
}
