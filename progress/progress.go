// Package progress provides a console adapter for the object.Progress
// sink, rendering a live terminal bar for the writer's discovery and
// serialization phases (§6).
package progress

import (
	"sync"

	"github.com/pterm/pterm"
)

// Bar is an object.Progress adapter backed by a pterm progress bar. The
// zero value is ready to use; New returns one.
type Bar struct {
	mu        sync.Mutex
	bar       *pterm.ProgressbarPrinter
	cancelled bool
}

// New returns a Bar ready to report a single task. Call BeginTask to start
// rendering.
func New() *Bar {
	return &Bar{}
}

// BeginTask starts (or restarts) the bar for a new named phase with the
// given expected total.
func (b *Bar) BeginTask(name string, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		_, _ = b.bar.Stop()
	}
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle(name).
		WithRemoveWhenDone(true).
		Start()
	b.bar = bar
}

// Update advances the bar to n out of the current task's total.
func (b *Bar) Update(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar == nil {
		return
	}
	if delta := n - b.bar.Current; delta > 0 {
		b.bar.Add(delta)
	}
}

// Cancel marks the bar cancelled; subsequent IsCancelled calls return true.
// Intended to be wired to a signal handler by the caller.
func (b *Bar) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancelled = true
}

// IsCancelled reports whether Cancel has been called.
func (b *Bar) IsCancelled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancelled
}
