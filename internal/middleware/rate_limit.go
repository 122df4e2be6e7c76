package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techhub/server/internal/app/models/dto"
	"github.com/techhub/server/internal/pkg/metrics"
	"golang.org/x/time/rate"
)

// RateLimitConfig allows Requests per Window for each client IP.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LimiterStore keeps one token bucket per client.
type LimiterStore struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	interval time.Duration
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

// NewLimiterStore creates a store refilling Requests tokens per Window.
func NewLimiterStore(cfg RateLimitConfig) *LimiterStore {
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	if cfg.Requests <= 0 {
		cfg.Requests = 1
	}
	return &LimiterStore{
		limiters: make(map[string]*limiterEntry),
		interval: window / time.Duration(cfg.Requests),
		burst:    cfg.Requests,
		ttl:      window,
		now:      time.Now,
	}
}

func (s *LimiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.limiters[key]; ok {
		entry.lastSeen = s.now()
		return entry.limiter
	}
	l := rate.NewLimiter(rate.Every(s.interval), s.burst)
	s.limiters[key] = &limiterEntry{limiter: l, lastSeen: s.now()}
	return l
}

// retryAfter is the number of whole seconds until one token is refilled.
func (s *LimiterStore) retryAfter() int {
	return int(math.Ceil(s.interval.Seconds()))
}

// Cleanup drops buckets of clients idle for longer than one window.
func (s *LimiterStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > s.ttl {
			delete(s.limiters, key)
		}
	}
}

// Len returns the number of tracked clients.
func (s *LimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (s *LimiterStore) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}

// RateLimit rejects clients exceeding their bucket with 429. Probes and
// the metrics endpoint are never limited.
func RateLimit(store *LimiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.URL.Path {
		case "/health", "/metrics":
			c.Next()
			return
		}

		limiter := store.get(c.ClientIP())
		if !limiter.Allow() {
			metrics.RateLimitedTotal.Inc()
			c.Header("Retry-After", strconv.Itoa(store.retryAfter()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeRateLimited, "Too many requests from this IP, please try again later.")))
			return
		}
		c.Next()
	}
}
