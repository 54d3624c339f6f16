// Package ratelimit provides admission control for outbound Apollo API
// calls. Every call is classified as standard (single-entity reads and
// writes) or bulk (multi-entity endpoints), and each class is throttled
// against independent minute, hour, and day ceilings.
//
// The limiter never fails a caller: when a ceiling is reached, Wait
// suspends on a timer until the window rolls over and then re-checks.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Class selects which set of ceilings applies to a call.
type Class string

const (
	Standard Class = "standard"
	Bulk     Class = "bulk"
)

// Config carries the per-class ceilings. Bulk ceilings are expected to
// be lower than standard ones (bulk endpoints are more expensive on the
// provider side), but the limiter does not enforce that ordering.
type Config struct {
	Enabled bool

	StandardPerMinute int
	StandardPerHour   int
	StandardPerDay    int

	BulkPerMinute int
	BulkPerHour   int
	BulkPerDay    int
}

func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		StandardPerMinute: 200,
		StandardPerHour:   600,
		StandardPerDay:    6000,
		BulkPerMinute:     20,
		BulkPerHour:       100,
		BulkPerDay:        600,
	}
}

// window tracks admissions inside one fixed-size window. The window
// rolls (count resets, start moves to now) the first time a check
// happens at or past start+size.
type window struct {
	size  time.Duration
	limit int

	count int
	start time.Time
}

// Limiter gates outbound calls. The zero value and nil are both usable
// and admit everything, matching the disabled configuration.
type Limiter struct {
	enabled bool

	mu      sync.Mutex
	classes map[Class][]*window
}

func New(cfg Config) *Limiter {
	return newLimiter(cfg.Enabled, map[Class][]*window{
		Standard: {
			{size: time.Minute, limit: cfg.StandardPerMinute},
			{size: time.Hour, limit: cfg.StandardPerHour},
			{size: 24 * time.Hour, limit: cfg.StandardPerDay},
		},
		Bulk: {
			{size: time.Minute, limit: cfg.BulkPerMinute},
			{size: time.Hour, limit: cfg.BulkPerHour},
			{size: 24 * time.Hour, limit: cfg.BulkPerDay},
		},
	})
}

func newLimiter(enabled bool, classes map[Class][]*window) *Limiter {
	return &Limiter{enabled: enabled, classes: classes}
}

// Wait blocks until the call is admitted under every window configured
// for class, then counts it against all of them. Admission and counting
// happen atomically under one lock, so two concurrent callers can never
// both pass a check that only has room for one.
//
// Wait returns nil immediately when the limiter is disabled. The only
// error it ever returns is ctx.Err() when the context is cancelled
// while suspended.
func (l *Limiter) Wait(ctx context.Context, class Class) error {
	if l == nil || !l.enabled {
		return nil
	}
	for {
		wait, admitted := l.tryAdmit(class, time.Now())
		if admitted {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryAdmit rolls expired windows, then either counts the call against
// every window of the class or reports how long to sleep before the
// next re-check. The returned duration is the time until the last of
// the currently-full windows rolls over; sleeping any less would wake
// us only to block again.
func (l *Limiter) tryAdmit(class Class, now time.Time) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	windows := l.classes[class]
	for _, w := range windows {
		if w.start.IsZero() || now.Sub(w.start) >= w.size {
			w.start = now
			w.count = 0
		}
	}

	var wait time.Duration
	for _, w := range windows {
		if w.count < w.limit {
			continue
		}
		if remaining := w.size - now.Sub(w.start); remaining > wait {
			wait = remaining
		}
	}
	if wait > 0 {
		return wait, false
	}

	for _, w := range windows {
		w.count++
	}
	return 0, true
}
