// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid field-change triggers into one trailing-edge
// invocation, so a resolution pass starts only after the user pauses
// typing. Trigger replaces any pending invocation; Cancel abandons it, for
// form reset or navigation.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
}

// NewDebouncer returns a debouncer with the given interval. A zero or
// negative interval fires on the next trigger without delay coalescing.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules fn to run after the debounce interval, replacing any
// previously scheduled call. fn runs on its own goroutine.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.interval <= 0 {
		go fn()
		return
	}
	d.timer = time.AfterFunc(d.interval, fn)
}

// Cancel drops any pending invocation.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
