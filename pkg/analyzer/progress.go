package analyzer

import (
	"context"
	"sync"
	"sync/atomic"
)

// ProgressFunc is called to report analysis progress.
// phase names the running phase, current is the number of files processed in
// that phase, total is the phase's file count and path is the file just done.
type ProgressFunc func(phase Phase, current, total int, path string)

// Tracker tracks per-phase progress across the detection and verification
// passes. It is safe for concurrent use from multiple goroutines.
type Tracker struct {
	mu       sync.RWMutex
	phase    Phase
	total    atomic.Int32
	current  atomic.Int32
	callback ProgressFunc
}

// NewTracker creates a new progress tracker with the given callback.
func NewTracker(callback ProgressFunc) *Tracker {
	return &Tracker{callback: callback}
}

// Start begins a new phase with total items, resetting the counters.
func (t *Tracker) Start(phase Phase, total int) {
	t.mu.Lock()
	t.phase = phase
	t.mu.Unlock()
	t.current.Store(0)
	t.total.Store(int32(total))
}

// Add increments the total count of the current phase by n.
func (t *Tracker) Add(n int) {
	t.total.Add(int32(n))
}

// Tick marks one item of the current phase as completed.
func (t *Tracker) Tick(path string) {
	current := int(t.current.Add(1))
	total := int(t.total.Load())
	if t.callback != nil {
		t.callback(t.Phase(), current, total, path)
	}
}

// Phase returns the running phase.
func (t *Tracker) Phase() Phase {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.phase
}

// Current returns the current progress count.
func (t *Tracker) Current() int {
	return int(t.current.Load())
}

// Total returns the total count.
func (t *Tracker) Total() int {
	return int(t.total.Load())
}

type trackerKey struct{}

// WithTracker returns a context that carries a progress tracker.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext extracts the progress tracker from the context.
// Returns nil if no tracker was set.
func TrackerFromContext(ctx context.Context) *Tracker {
	if t, ok := ctx.Value(trackerKey{}).(*Tracker); ok {
		return t
	}
	return nil
}
