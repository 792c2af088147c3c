package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestUploadLimiter_AcquireRelease(t *testing.T) {
	limiter := NewUploadLimiter(2, time.Second)

	steps := []struct {
		name          string
		op            func()
		wantActive    int
		wantAvailable int
	}{
		{"initial", func() {}, 0, 2},
		{"first acquire", func() { mustAcquire(t, limiter) }, 1, 1},
		{"second acquire", func() { mustAcquire(t, limiter) }, 2, 0},
		{"first release", limiter.Release, 1, 1},
		{"second release", limiter.Release, 0, 2},
	}

	for _, s := range steps {
		s.op()
		if got := limiter.ActiveCount(); got != s.wantActive {
			t.Errorf("%s: ActiveCount = %d, want %d", s.name, got, s.wantActive)
		}
		if got := limiter.Available(); got != s.wantAvailable {
			t.Errorf("%s: Available = %d, want %d", s.name, got, s.wantAvailable)
		}
	}
}

func mustAcquire(t *testing.T, l *UploadLimiter) {
	t.Helper()
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
}

func TestUploadLimiter_TimesOutWhenFull(t *testing.T) {
	limiter := NewUploadLimiter(1, 100*time.Millisecond)
	mustAcquire(t, limiter)
	defer limiter.Release()

	start := time.Now()
	err := limiter.Acquire(context.Background())
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTooManyUploads) {
		t.Errorf("Acquire error = %v, want ErrTooManyUploads", err)
	}
	if elapsed < 90*time.Millisecond {
		t.Errorf("timeout too fast: %v", elapsed)
	}
}

func TestUploadLimiter_NeverExceedsMax(t *testing.T) {
	const maxConcurrent = 3
	limiter := NewUploadLimiter(maxConcurrent, time.Second)

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		maxObserved int
	)

	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			defer limiter.Release()

			mu.Lock()
			maxObserved = max(maxObserved, limiter.ActiveCount())
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)
		}()
	}
	wg.Wait()

	if maxObserved > maxConcurrent {
		t.Errorf("observed %d active uploads, max %d", maxObserved, maxConcurrent)
	}
	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("final ActiveCount = %d, want 0", got)
	}
}

func TestUploadLimiter_TryAcquire(t *testing.T) {
	limiter := NewUploadLimiter(1, time.Second)

	if !limiter.TryAcquire() {
		t.Fatal("first TryAcquire should succeed")
	}
	if limiter.TryAcquire() {
		t.Error("second TryAcquire should fail")
		limiter.Release()
	}

	limiter.Release()
	if !limiter.TryAcquire() {
		t.Error("TryAcquire after Release should succeed")
	}
	limiter.Release()
}

func TestUploadLimiter_ContextCancellation(t *testing.T) {
	limiter := NewUploadLimiter(1, 5*time.Second)
	mustAcquire(t, limiter)
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- limiter.Acquire(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Acquire error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Error("Acquire did not return after context cancellation")
	}
}

func TestUploadLimiter_WaitForDrain(t *testing.T) {
	limiter := NewUploadLimiter(2, time.Second)

	if err := limiter.WaitForDrain(context.Background()); err != nil {
		t.Fatalf("WaitForDrain on idle limiter: %v", err)
	}

	mustAcquire(t, limiter)
	mustAcquire(t, limiter)

	drainDone := make(chan error, 1)
	go func() {
		drainDone <- limiter.WaitForDrain(context.Background())
	}()

	limiter.Release()
	select {
	case <-drainDone:
		t.Fatal("WaitForDrain returned with one upload active")
	case <-time.After(50 * time.Millisecond):
	}

	limiter.Release()
	select {
	case err := <-drainDone:
		if err != nil {
			t.Errorf("WaitForDrain returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("WaitForDrain did not complete after all released")
	}
}

func TestUploadLimiter_WaitForDrain_ContextCancelled(t *testing.T) {
	limiter := NewUploadLimiter(1, time.Second)
	mustAcquire(t, limiter)
	defer limiter.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if err := limiter.WaitForDrain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForDrain error = %v, want context.DeadlineExceeded", err)
	}
}

func TestUploadLimiter_Status(t *testing.T) {
	limiter := NewUploadLimiter(3, time.Second)
	mustAcquire(t, limiter)
	mustAcquire(t, limiter)
	defer limiter.Release()
	defer limiter.Release()

	want := UploadLimiterStatus{Active: 2, Available: 1, MaxConcurrent: 3}
	if got := limiter.Status(); got != want {
		t.Errorf("Status = %+v, want %+v", got, want)
	}
}

func TestUploadLimiter_DefaultValues(t *testing.T) {
	limiter := NewUploadLimiter(0, 0)

	if got := limiter.MaxConcurrent(); got != DefaultMaxConcurrentUploads {
		t.Errorf("MaxConcurrent = %d, want %d", got, DefaultMaxConcurrentUploads)
	}
	if limiter.maxWait != DefaultMaxWaitTime {
		t.Errorf("maxWait = %v, want %v", limiter.maxWait, DefaultMaxWaitTime)
	}
}

func TestUploadLimiter_OnChange(t *testing.T) {
	limiter := NewUploadLimiter(2, time.Second)

	var seen []int
	limiter.OnChange(func(active int) { seen = append(seen, active) })

	mustAcquire(t, limiter)
	limiter.TryAcquire()
	limiter.Release()
	limiter.Release()

	want := []int{1, 2, 1, 0}
	if len(seen) != len(want) {
		t.Fatalf("OnChange calls = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("OnChange call %d = %d, want %d", i, seen[i], want[i])
		}
	}
}
