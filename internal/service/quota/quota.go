// Package quota tracks the upstream completion API's request budget with a
// sliding window. The counter is advisory only: it reports remaining quota
// for display and never blocks a call. Enforcement, if any, belongs to the
// provider itself.
package quota

import (
	"sync"
	"time"
)

// Window is a sliding-window request counter. Safe for concurrent use.
type Window struct {
	mu     sync.Mutex
	limit  int
	span   time.Duration
	stamps []time.Time
	now    func() time.Time
}

// NewWindow constructs a counter for limit requests per span.
func NewWindow(limit int, span time.Duration) *Window {
	return &Window{limit: limit, span: span, now: time.Now}
}

// NewWindowAt constructs a counter with an injected clock.
func NewWindowAt(limit int, span time.Duration, now func() time.Time) *Window {
	return &Window{limit: limit, span: span, now: now}
}

// Record notes one upstream request at the current time.
func (w *Window) Record() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(w.now())
	w.stamps = append(w.stamps, w.now())
}

// Remaining reports how much of the budget is left in the current window.
// Never negative.
func (w *Window) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(w.now())
	rem := w.limit - len(w.stamps)
	if rem < 0 {
		rem = 0
	}
	return rem
}

// Used reports how many requests fall inside the current window.
func (w *Window) Used() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(w.now())
	return len(w.stamps)
}

// Limit returns the configured budget.
func (w *Window) Limit() int { return w.limit }

// prune drops stamps that slid out of the window. Caller holds the lock.
func (w *Window) prune(now time.Time) {
	cutoff := now.Add(-w.span)
	i := 0
	for i < len(w.stamps) && !w.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.stamps = append(w.stamps[:0], w.stamps[i:]...)
	}
}
