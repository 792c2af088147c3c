package core

// upload_limiter.go bounds how many uploads are decoded and validated at once.
//
// Each upload holds one slot of a buffered-channel semaphore for the duration
// of its processing. A request that cannot get a slot within maxWait fails
// with ErrTooManyUploads. WaitForDrain lets shutdown wait for in-flight uploads.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyUploads is returned when all upload slots are occupied and the
// wait timeout expires. Clients should retry after a short delay.
var ErrTooManyUploads = errors.New("too many uploads in progress, please try again later")

// DefaultMaxConcurrentUploads is the default limit for parallel uploads.
const DefaultMaxConcurrentUploads = 5

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// UploadLimiter controls concurrent upload processing using a semaphore.
type UploadLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu       sync.Mutex
	active   int
	drained  chan struct{} // closed while active == 0
	onChange func(active int)
}

// NewUploadLimiter creates a limiter that allows at most maxConcurrent
// simultaneous uploads. Non-positive arguments fall back to the defaults.
func NewUploadLimiter(maxConcurrent int, maxWait time.Duration) *UploadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentUploads
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	drained := make(chan struct{})
	close(drained)

	return &UploadLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
		drained:   drained,
	}
}

// OnChange registers fn to be called with the active count after every
// acquire and release. It is used to feed the active uploads gauge.
func (l *UploadLimiter) OnChange(fn func(active int)) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// Acquire waits for an upload slot.
// It returns ErrTooManyUploads when maxWait elapses first, or ctx.Err() when
// ctx is done. The caller must call Release once the upload completes.
func (l *UploadLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.adjust(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyUploads
	}
}

// TryAcquire takes a slot without blocking and reports whether it succeeded.
func (l *UploadLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.adjust(1)
		return true
	default:
		return false
	}
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *UploadLimiter) Release() {
	l.adjust(-1)
	<-l.semaphore
}

func (l *UploadLimiter) adjust(delta int) {
	l.mu.Lock()
	l.active += delta
	switch {
	case delta > 0 && l.active == 1:
		l.drained = make(chan struct{})
	case delta < 0 && l.active == 0:
		close(l.drained)
	}
	active, fn := l.active, l.onChange
	l.mu.Unlock()

	if fn != nil {
		fn(active)
	}
}

// ActiveCount returns the number of uploads holding a slot.
func (l *UploadLimiter) ActiveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// MaxConcurrent returns the maximum allowed concurrent uploads.
func (l *UploadLimiter) MaxConcurrent() int {
	return cap(l.semaphore)
}

// Available returns the number of free slots.
func (l *UploadLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// WaitForDrain blocks until no upload holds a slot or ctx is done.
func (l *UploadLimiter) WaitForDrain(ctx context.Context) error {
	l.mu.Lock()
	drained := l.drained
	l.mu.Unlock()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UploadLimiterStatus is a snapshot of the limiter's state.
type UploadLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status returns the current limiter state for health checks.
func (l *UploadLimiter) Status() UploadLimiterStatus {
	return UploadLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     l.Available(),
		MaxConcurrent: cap(l.semaphore),
	}
}
