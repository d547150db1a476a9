// Package ticker provides schedulers that drive a game session's steps.
//
// Both schedulers deliver callbacks on the caller's goroutine: Manual when
// the owner calls Fire, Realtime when the owner's event loop receives from C
// and calls Fire. Neither starts goroutines, so the session keeps a single
// execution context.
package ticker

import "time"

// Manual is a scheduler fired explicitly. It is used by tests and by
// headless replays that step as fast as possible.
type Manual struct {
	interval time.Duration
	fn       func()
	arms     int
}

// NewManual creates an unarmed manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// Arm replaces the armed callback.
func (m *Manual) Arm(interval time.Duration, fn func()) {
	m.interval = interval
	m.fn = fn
	m.arms++
}

// Stop disarms the scheduler.
func (m *Manual) Stop() {
	m.fn = nil
}

// Fire invokes the armed callback once. It reports whether a callback ran.
func (m *Manual) Fire() bool {
	if m.fn == nil {
		return false
	}
	m.fn()
	return true
}

// FireN fires up to n times, stopping early when the scheduler is disarmed.
// It returns the number of callbacks that ran.
func (m *Manual) FireN(n int) int {
	fired := 0
	for i := 0; i < n; i++ {
		if !m.Fire() {
			break
		}
		fired++
	}
	return fired
}

// Armed reports whether a callback is armed.
func (m *Manual) Armed() bool {
	return m.fn != nil
}

// Interval returns the interval of the last Arm call.
func (m *Manual) Interval() time.Duration {
	return m.interval
}

// Arms returns how many times Arm was called.
func (m *Manual) Arms() int {
	return m.arms
}

// Realtime is a scheduler backed by a time.Ticker. Only one ticker exists at
// a time; arming stops the previous one first.
//
// The owner selects on C() in its event loop and calls Fire for every
// receive. C returns nil while disarmed, which blocks forever in a select.
type Realtime struct {
	t        *time.Ticker
	interval time.Duration
	fn       func()
}

// NewRealtime creates an unarmed realtime scheduler.
func NewRealtime() *Realtime {
	return &Realtime{}
}

// Arm stops any running ticker and starts a new one.
func (r *Realtime) Arm(interval time.Duration, fn func()) {
	r.Stop()
	r.t = time.NewTicker(interval)
	r.interval = interval
	r.fn = fn
}

// Stop stops the ticker and drops the callback.
func (r *Realtime) Stop() {
	if r.t != nil {
		r.t.Stop()
		r.t = nil
	}
	r.fn = nil
}

// C returns the current tick channel, or nil when disarmed.
func (r *Realtime) C() <-chan time.Time {
	if r.t == nil {
		return nil
	}
	return r.t.C
}

// Fire invokes the armed callback, if any.
func (r *Realtime) Fire() {
	if r.fn != nil {
		r.fn()
	}
}

// Armed reports whether a ticker is running.
func (r *Realtime) Armed() bool {
	return r.t != nil
}

// Interval returns the interval of the running ticker.
func (r *Realtime) Interval() time.Duration {
	return r.interval
}
