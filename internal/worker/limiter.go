package worker

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles batch work per source directory, so one large folder of
// transcripts cannot monopolize the pool. A non-positive rate disables it.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter allowing requestsPerSecond per source
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until the source of path may proceed or ctx is done
func (l *Limiter) Wait(ctx context.Context, path string) error {
	return l.forSource(SourceOf(path)).Wait(ctx)
}

// Allow reports whether the source of path may proceed now, consuming a token if so
func (l *Limiter) Allow(path string) bool {
	return l.forSource(SourceOf(path)).Allow()
}

// SetSourceRate overrides the rate for one source directory
func (l *Limiter) SetSourceRate(source string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[filepath.Clean(source)] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func (l *Limiter) forSource(source string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[source]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.limiters[source]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[source] = limiter

	return limiter
}

// SourceOf returns the rate limiting key for a file: its cleaned directory
func SourceOf(path string) string {
	return filepath.Clean(filepath.Dir(path))
}
