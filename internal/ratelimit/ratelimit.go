// Package ratelimit paces outbound request streams, notably calls to the
// AI categorization provider. It is a pure pacing primitive: no I/O, no
// errors, just real-time suspension of the calling goroutine.
package ratelimit

import (
	"math/rand"
	"sync"
	"time"
)

// Limiter enforces a randomized floor on request spacing. Wait blocks for a
// jittered interval in [MinDelay, MaxDelay] measured from the end of the
// previous call, and additionally honors any block-until timestamp set by
// HandleRateLimit.
type Limiter struct {
	mu            sync.Mutex
	minDelay      time.Duration
	maxDelay      time.Duration
	maxPerSession int
	requests      int
	last          time.Time
	blockedUntil  time.Time
	rng           *rand.Rand

	// injectable for tests
	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a Limiter. maxPerSession <= 0 disables session rotation.
func New(minDelay, maxDelay time.Duration, maxPerSession int) *Limiter {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Limiter{
		minDelay:      minDelay,
		maxDelay:      maxDelay,
		maxPerSession: maxPerSession,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		now:           time.Now,
		sleep:         time.Sleep,
	}
}

// Wait blocks until enough time has passed since the previous call, plus a
// random jitter, plus any penalty window set by HandleRateLimit.
func (l *Limiter) Wait() {
	l.mu.Lock()
	now := l.now()

	var pause time.Duration
	if until := l.blockedUntil; until.After(now) {
		pause = until.Sub(now)
	}

	if !l.last.IsZero() {
		delay := l.minDelay
		if span := l.maxDelay - l.minDelay; span > 0 {
			delay += time.Duration(l.rng.Int63n(int64(span) + 1))
		}
		if due := l.last.Add(delay); due.After(now) && due.Sub(now) > pause {
			pause = due.Sub(now)
		}
	}

	l.requests++
	l.mu.Unlock()

	if pause > 0 {
		l.sleep(pause)
	}

	l.mu.Lock()
	l.last = l.now()
	l.mu.Unlock()
}

// HandleRateLimit records a server-imposed penalty: every subsequent Wait
// blocks until retryAfter seconds from now have elapsed.
func (l *Limiter) HandleRateLimit(retryAfterSeconds int) {
	if retryAfterSeconds <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	until := l.now().Add(time.Duration(retryAfterSeconds) * time.Second)
	if until.After(l.blockedUntil) {
		l.blockedUntil = until
	}
}

// ShouldRotate reports whether the session request budget is exhausted and
// the caller should rotate identity before continuing.
func (l *Limiter) ShouldRotate() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxPerSession > 0 && l.requests >= l.maxPerSession
}

// ResetSession zeroes the per-session request count after a rotation.
func (l *Limiter) ResetSession() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = 0
}
