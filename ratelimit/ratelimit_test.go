package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestWaitDisabledIsImmediate(t *testing.T) {
	l := New(Config{Enabled: false})

	start := time.Now()
	for i := 0; i < 1000; i++ {
		if err := l.Wait(context.Background(), Standard); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("disabled limiter took %v for 1000 checks, want < 100ms", elapsed)
	}
}

func TestWaitNilLimiterAdmits(t *testing.T) {
	var l *Limiter
	if err := l.Wait(context.Background(), Bulk); err != nil {
		t.Fatalf("Wait() on nil limiter error = %v", err)
	}
}

func TestWaitRespectsCeiling(t *testing.T) {
	// 2 admissions per 150ms window; scaled-down version of 2/minute.
	windowSize := 150 * time.Millisecond
	l := newLimiter(true, map[Class][]*window{
		Standard: {{size: windowSize, limit: 2}},
	})

	var stamps []time.Time
	for i := 0; i < 5; i++ {
		if err := l.Wait(context.Background(), Standard); err != nil {
			t.Fatalf("Wait() #%d error = %v", i, err)
		}
		stamps = append(stamps, time.Now())
	}

	// No more than 2 admissions may fall within any rolling window.
	for i := range stamps {
		inWindow := 0
		for j := i; j < len(stamps); j++ {
			if stamps[j].Sub(stamps[i]) < windowSize {
				inWindow++
			}
		}
		if inWindow > 2 {
			t.Fatalf("%d admissions within %v starting at stamp %d, want <= 2", inWindow, windowSize, i)
		}
	}
}

func TestWaitAllGranularitiesMustPass(t *testing.T) {
	// The second "hour" window is the binding constraint here even
	// though the "minute" window still has room.
	l := newLimiter(true, map[Class][]*window{
		Standard: {
			{size: 50 * time.Millisecond, limit: 10},
			{size: 300 * time.Millisecond, limit: 1},
		},
	})

	if err := l.Wait(context.Background(), Standard); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	start := time.Now()
	if err := l.Wait(context.Background(), Standard); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
		t.Fatalf("second admission after %v, want suspension until the larger window rolls", elapsed)
	}
}

func TestWaitBulkSaturatesBeforeStandard(t *testing.T) {
	l := newLimiter(true, map[Class][]*window{
		Standard: {{size: time.Minute, limit: 5}},
		Bulk:     {{size: time.Minute, limit: 2}},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Equal pressure: alternate classes until one suspends.
	var bulkBlocked, standardBlocked bool
	for i := 0; i < 5; i++ {
		if err := l.Wait(ctx, Bulk); err != nil {
			bulkBlocked = true
			break
		}
		if err := l.Wait(ctx, Standard); err != nil {
			standardBlocked = true
			break
		}
	}
	if !bulkBlocked || standardBlocked {
		t.Fatalf("bulkBlocked = %v, standardBlocked = %v; want bulk class to saturate first", bulkBlocked, standardBlocked)
	}
}

func TestWaitCancelledWhileSuspended(t *testing.T) {
	l := newLimiter(true, map[Class][]*window{
		Standard: {{size: time.Minute, limit: 1}},
	})
	if err := l.Wait(context.Background(), Standard); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := l.Wait(ctx, Standard)
	if err != context.DeadlineExceeded {
		t.Fatalf("Wait() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestWaitConcurrentAdmissionsStayUnderCeiling(t *testing.T) {
	const limit = 3
	windowSize := 200 * time.Millisecond
	l := newLimiter(true, map[Class][]*window{
		Bulk: {{size: windowSize, limit: limit}},
	})

	var mu sync.Mutex
	var stamps []time.Time

	ctx, cancel := context.WithTimeout(context.Background(), windowSize+100*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Wait(ctx, Bulk); err != nil {
				return
			}
			mu.Lock()
			stamps = append(stamps, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(stamps) < limit {
		t.Fatalf("got %d admissions, want at least %d", len(stamps), limit)
	}
	for i := range stamps {
		inWindow := 0
		for j := range stamps {
			d := stamps[j].Sub(stamps[i])
			if d >= 0 && d < windowSize {
				inWindow++
			}
		}
		// Recording the timestamp happens outside the limiter lock, so
		// allow one extra for scheduling skew at the window boundary.
		if inWindow > limit+1 {
			t.Fatalf("%d admissions within one window, ceiling is %d", inWindow, limit)
		}
	}
}

func TestDefaultConfigBulkStricter(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BulkPerMinute >= cfg.StandardPerMinute {
		t.Fatalf("bulk minute ceiling %d not stricter than standard %d", cfg.BulkPerMinute, cfg.StandardPerMinute)
	}
	if cfg.BulkPerHour >= cfg.StandardPerHour {
		t.Fatalf("bulk hour ceiling %d not stricter than standard %d", cfg.BulkPerHour, cfg.StandardPerHour)
	}
	if cfg.BulkPerDay >= cfg.StandardPerDay {
		t.Fatalf("bulk day ceiling %d not stricter than standard %d", cfg.BulkPerDay, cfg.StandardPerDay)
	}
}
