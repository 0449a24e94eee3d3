package core

// limiter.go bounds how many datasets are parsed at once.
//
// Parsing holds the whole table in memory, so parallel uploads are capped
// with a weighted semaphore. A request that cannot get a slot within the
// configured wait fails with ErrBusy. WaitForDrain lets shutdown finish the
// parses already running.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned when every parse slot stayed taken for the whole wait.
var ErrBusy = errors.New("too many concurrent uploads")

// Defaults used when a limit or wait of zero is given.
const (
	DefaultMaxConcurrentParses = 5
	DefaultMaxParseWait        = 30 * time.Second
)

// ParseLimiter caps concurrent dataset parses.
type ParseLimiter struct {
	sem     *semaphore.Weighted
	max     int
	maxWait time.Duration
	active  atomic.Int64
}

// NewParseLimiter allows maxConcurrent parses; callers wait up to maxWait.
func NewParseLimiter(maxConcurrent int, maxWait time.Duration) *ParseLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentParses
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxParseWait
	}
	return &ParseLimiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		max:     maxConcurrent,
		maxWait: maxWait,
	}
}

// Acquire takes a slot. It returns ErrBusy after maxWait, or ctx's error
// if ctx ends first. Every nil return must be paired with Release.
func (l *ParseLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrBusy
	}
	l.active.Add(1)
	return nil
}

// TryAcquire takes a slot without waiting.
func (l *ParseLimiter) TryAcquire() bool {
	if !l.sem.TryAcquire(1) {
		return false
	}
	l.active.Add(1)
	return true
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *ParseLimiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// Active returns the number of parses in progress.
func (l *ParseLimiter) Active() int {
	return int(l.active.Load())
}

// Max returns the configured slot count.
func (l *ParseLimiter) Max() int {
	return l.max
}

// WaitForDrain blocks until no parse is running or ctx ends.
func (l *ParseLimiter) WaitForDrain(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, int64(l.max)); err != nil {
		return err
	}
	l.sem.Release(int64(l.max))
	return nil
}
