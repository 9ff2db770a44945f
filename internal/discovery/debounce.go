package discovery

import (
	"sync"
	"time"
)

// Debounce windows for the interactive triggers.
const (
	ScrollDebounce     = 150 * time.Millisecond
	SuggestionDebounce = 250 * time.Millisecond
)

// Debouncer coalesces bursts of triggers into a single signal, sent once
// the window passes without another trigger. Each Trigger cancels the
// pending one and restarts the window. The signal is a value on C, or a
// call to the function given to NewDebouncerFunc.
type Debouncer struct {
	window time.Duration
	c      chan struct{}
	fn     func()

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window: window,
		c:      make(chan struct{}, 1),
	}
}

// NewDebouncerFunc creates a debouncer that calls fn, on its own goroutine,
// instead of signalling on C.
func NewDebouncerFunc(window time.Duration, fn func()) *Debouncer {
	d := NewDebouncer(window)
	d.fn = fn
	return d
}

// C delivers one value per settled burst. Signals are not queued: if the
// previous one hasn't been received yet, the new one is dropped.
func (d *Debouncer) C() <-chan struct{} {
	return d.c
}

// Trigger (re)starts the quiet window.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.window, func() { d.fire(seq) })
}

// Stop cancels a pending signal.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	current := seq == d.seq
	d.mu.Unlock()
	if !current {
		return
	}
	if d.fn != nil {
		d.fn()
		return
	}

	select {
	case d.c <- struct{}{}:
	default:
	}
}

// NearBottomThreshold is how many rows from the end of a list the cursor has
// to be before the next page is requested.
const NearBottomThreshold = 5

// NearBottom reports whether index is within threshold rows of the end of a
// list of the given length.
func NearBottom(index, length, threshold int) bool {
	if length == 0 {
		return false
	}
	return length-1-index < threshold
}
