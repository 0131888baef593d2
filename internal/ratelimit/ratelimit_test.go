package ratelimit

import (
	"testing"
	"time"
)

// fakeClock drives the limiter deterministically: sleeps advance the clock
// instead of suspending the test.
type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	sleeps time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.sleeps += d
	c.now = c.now.Add(d)
}

func newTestLimiter(minDelay, maxDelay time.Duration, maxPerSession int) (*Limiter, *fakeClock) {
	clock := newFakeClock()
	l := New(minDelay, maxDelay, maxPerSession)
	l.now = clock.Now
	l.sleep = clock.Sleep
	return l, clock
}

func TestWait(t *testing.T) {
	t.Run("first call does not block", func(t *testing.T) {
		l, clock := newTestLimiter(time.Second, time.Second, 0)
		l.Wait()
		if clock.sleeps != 0 {
			t.Errorf("expected no sleep on first call, slept %v", clock.sleeps)
		}
	})

	t.Run("enforces spacing between calls", func(t *testing.T) {
		l, clock := newTestLimiter(time.Second, time.Second, 0)
		l.Wait()
		l.Wait()
		if clock.sleeps != time.Second {
			t.Errorf("expected 1s total sleep, got %v", clock.sleeps)
		}
	})

	t.Run("jitter stays within bounds", func(t *testing.T) {
		l, clock := newTestLimiter(time.Second, 3*time.Second, 0)
		l.Wait()
		for i := 0; i < 20; i++ {
			before := clock.sleeps
			l.Wait()
			pause := clock.sleeps - before
			if pause < time.Second || pause > 3*time.Second {
				t.Fatalf("pause %v outside [1s, 3s]", pause)
			}
		}
	})

	t.Run("elapsed time shortens the pause", func(t *testing.T) {
		l, clock := newTestLimiter(2*time.Second, 2*time.Second, 0)
		l.Wait()
		clock.now = clock.now.Add(90 * time.Minute)
		before := clock.sleeps
		l.Wait()
		if pause := clock.sleeps - before; pause != 0 {
			t.Errorf("expected no pause after long idle, got %v", pause)
		}
	})
}

func TestHandleRateLimit(t *testing.T) {
	l, clock := newTestLimiter(0, 0, 0)

	l.Wait()
	l.HandleRateLimit(30)

	before := clock.sleeps
	l.Wait()
	if pause := clock.sleeps - before; pause != 30*time.Second {
		t.Errorf("expected 30s penalty pause, got %v", pause)
	}

	// Penalty is a one-time window, not a new floor.
	before = clock.sleeps
	l.Wait()
	if pause := clock.sleeps - before; pause != 0 {
		t.Errorf("expected no pause after penalty passed, got %v", pause)
	}
}

func TestHandleRateLimitIgnoresNonPositive(t *testing.T) {
	l, clock := newTestLimiter(0, 0, 0)
	l.HandleRateLimit(0)
	l.HandleRateLimit(-5)
	l.Wait()
	if clock.sleeps != 0 {
		t.Errorf("expected no pause, got %v", clock.sleeps)
	}
}

func TestShouldRotate(t *testing.T) {
	t.Run("signals after the session budget", func(t *testing.T) {
		l, _ := newTestLimiter(0, 0, 3)
		for i := 0; i < 3; i++ {
			if l.ShouldRotate() {
				t.Fatalf("rotation signalled too early at call %d", i)
			}
			l.Wait()
		}
		if !l.ShouldRotate() {
			t.Error("expected rotation after 3 calls")
		}
	})

	t.Run("reset clears the session", func(t *testing.T) {
		l, _ := newTestLimiter(0, 0, 1)
		l.Wait()
		if !l.ShouldRotate() {
			t.Fatal("expected rotation signal")
		}
		l.ResetSession()
		if l.ShouldRotate() {
			t.Error("expected no rotation signal after reset")
		}
	})

	t.Run("disabled with non-positive budget", func(t *testing.T) {
		l, _ := newTestLimiter(0, 0, 0)
		for i := 0; i < 100; i++ {
			l.Wait()
		}
		if l.ShouldRotate() {
			t.Error("expected rotation to be disabled")
		}
	})
}
