package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter provides rate limiting functionality
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// SlidingWindowLimiter allows limit requests per key in any window-long span.
// Idle keys are swept by a background goroutine that Close stops.
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	windows    map[string][]time.Time
	limit      int
	windowSize time.Duration
	now        func() time.Time

	stopCh    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewSlidingWindowLimiter creates a limiter and starts its cleanup loop
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	l := &SlidingWindowLimiter{
		windows:    make(map[string][]time.Time),
		limit:      limit,
		windowSize: windowSize,
		now:        time.Now,
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
	go l.cleanup(windowSize)
	return l
}

// NewPerMinuteLimiter is a SlidingWindowLimiter over one minute
func NewPerMinuteLimiter(requestsPerMinute int) *SlidingWindowLimiter {
	return NewSlidingWindowLimiter(requestsPerMinute, time.Minute)
}

// Allow records a request for key if it fits in the window
func (l *SlidingWindowLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	requests := prune(l.windows[key], now.Add(-l.windowSize))
	if len(requests) >= l.limit {
		l.windows[key] = requests
		return false, nil
	}
	l.windows[key] = append(requests, now)
	return true, nil
}

// Reset forgets the history of key
func (l *SlidingWindowLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
	return nil
}

// Close stops the cleanup goroutine
func (l *SlidingWindowLimiter) Close() error {
	l.closeOnce.Do(func() {
		close(l.stopCh)
		<-l.done
	})
	return nil
}

func (l *SlidingWindowLimiter) cleanup(interval time.Duration) {
	defer close(l.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// sweep drops keys with no request inside the window
func (l *SlidingWindowLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.windowSize)
	for key, requests := range l.windows {
		if requests = prune(requests, cutoff); len(requests) == 0 {
			delete(l.windows, key)
		} else {
			l.windows[key] = requests
		}
	}
}

func prune(requests []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(requests) && !requests[i].After(cutoff) {
		i++
	}
	return requests[i:]
}
