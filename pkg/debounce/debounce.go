// Package debounce provides per-key cancellable delayed tasks. Scheduling a
// task for a key cancels any task still pending for that key, so only the
// last scheduled function runs once the delay elapses. This backs
// search-as-you-type and uniqueness probes that must not fire on every
// keystroke.
package debounce

import (
	"sync"
	"time"
)

// Debouncer schedules at most one pending task per key.
type Debouncer struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

// New creates an empty Debouncer.
func New() *Debouncer {
	return &Debouncer{timers: make(map[string]*time.Timer)}
}

// Do schedules fn to run after delay, cancelling any task still pending for
// the same key. fn runs on its own goroutine.
func (d *Debouncer) Do(key string, delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.timers, key)
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			fn()
		}
	})
}

// Cancel drops the pending task for key, if any. It reports whether a task
// was pending. A task whose timer already fired cannot be cancelled.
func (d *Debouncer) Cancel(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.timers[key]
	if !ok {
		return false
	}
	delete(d.timers, key)
	return t.Stop()
}

// Stop cancels every pending task and rejects future scheduling.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}

// Pending returns the number of scheduled tasks that have not yet fired.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}
