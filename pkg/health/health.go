// Package health provides a background backend-connectivity monitor.
//
// The check runs in its own goroutine at a configurable interval and uses
// failure/success thresholds to avoid flapping: the backend must fail
// consecutively failureThreshold times before being marked unreachable, and
// succeed successThreshold times before being marked reachable again.
package health

import (
	"context"
	"sync/atomic"
	"time"
)

// CheckFunc probes the backend. It returns nil when the backend answered.
type CheckFunc func(ctx context.Context) error

// Monitor periodically runs a single connectivity check.
type Monitor struct {
	check            CheckFunc
	interval         time.Duration
	timeout          time.Duration
	failureThreshold int
	successThreshold int
	onChange         func(healthy bool, err error)

	// healthy is read from arbitrary goroutines; written only by run().
	healthy atomic.Bool

	// lastErr stores the most recent check error. Read from arbitrary
	// goroutines; written only by run().
	lastErr atomic.Pointer[error]

	// counters are only accessed from the single run() goroutine.
	consecutiveFails int
	consecutiveOK    int

	cancel context.CancelFunc
}

// Option customizes a Monitor.
type Option func(*Monitor)

// WithInterval sets how often the check runs. Defaults to 30s.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithTimeout bounds a single check execution. Defaults to 5s.
func WithTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithThresholds sets the consecutive failure and success counts required to
// flip the reported state. Defaults to 3 failures and 1 success.
func WithThresholds(failures, successes int) Option {
	return func(m *Monitor) {
		if failures > 0 {
			m.failureThreshold = failures
		}
		if successes > 0 {
			m.successThreshold = successes
		}
	}
}

// WithOnChange registers a callback invoked from the monitor goroutine every
// time the reported state flips.
func WithOnChange(fn func(healthy bool, err error)) Option {
	return func(m *Monitor) { m.onChange = fn }
}

// NewMonitor builds a monitor over the given check. The backend is assumed
// reachable until proven otherwise.
func NewMonitor(check CheckFunc, opts ...Option) *Monitor {
	m := &Monitor{
		check:            check,
		interval:         30 * time.Second,
		timeout:          5 * time.Second,
		failureThreshold: 3,
		successThreshold: 1,
	}
	m.healthy.Store(true)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Healthy reports the current connectivity state.
func (m *Monitor) Healthy() bool {
	return m.healthy.Load()
}

// LastError returns the most recent check error, or nil.
func (m *Monitor) LastError() error {
	if p := m.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// Start begins running the check in a background goroutine. The first check
// fires immediately.
func (m *Monitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.run(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.run(ctx)
			}
		}
	}()
}

// Stop cancels the background goroutine. Safe to call multiple times.
func (m *Monitor) Stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// run executes the check once and updates thresholds. Called from the single
// monitor goroutine only.
func (m *Monitor) run(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.check(checkCtx)
	m.lastErr.Store(&err)

	if err != nil {
		m.consecutiveOK = 0
		m.consecutiveFails++
		if m.consecutiveFails >= m.failureThreshold && m.healthy.Load() {
			m.healthy.Store(false)
			if m.onChange != nil {
				m.onChange(false, err)
			}
		}
		return
	}

	m.consecutiveFails = 0
	m.consecutiveOK++
	if m.consecutiveOK >= m.successThreshold && !m.healthy.Load() {
		m.healthy.Store(true)
		if m.onChange != nil {
			m.onChange(true, nil)
		}
	}
}
