package ui

import "sync"

// Indicator is the process-wide loading flag. Overlapping operations share
// it; whichever releases first hides it.
type Indicator struct {
	mu      sync.Mutex
	visible bool

	// OnChange, if set, is called whenever visibility is set.
	OnChange func(visible bool)
}

// Acquire shows the indicator and returns the func that hides it.
// Callers defer the release so it runs on every path.
func (i *Indicator) Acquire() (release func()) {
	i.set(true)
	return func() { i.set(false) }
}

// Visible reports whether the indicator is shown.
func (i *Indicator) Visible() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.visible
}

func (i *Indicator) set(v bool) {
	i.mu.Lock()
	i.visible = v
	fn := i.OnChange
	i.mu.Unlock()
	if fn != nil {
		fn(v)
	}
}
