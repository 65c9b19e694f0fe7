package listctl

import (
	"strings"
	"sync"
	"time"
)

// DefaultSearchDelay is the quiet period before search text is committed.
const DefaultSearchDelay = 300 * time.Millisecond

// Debouncer coalesces rapid search edits. Every Change returns a sequence number; the
// caller schedules a tick carrying it (tea.Tick in the TUI) and hands it back to Fire.
// Only the tick for the latest change commits.
type Debouncer struct {
	Delay time.Duration

	seq     uint64
	pending bool
	value   string
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	return &Debouncer{Delay: delay}
}

func (d *Debouncer) Change(v string) uint64 {
	d.seq++
	d.pending = true
	d.value = v
	return d.seq
}

// Fire returns the committed value when seq is still the latest change.
func (d *Debouncer) Fire(seq uint64) (string, bool) {
	if !d.pending || seq != d.seq {
		return "", false
	}
	d.pending = false
	return strings.TrimSpace(d.value), true
}

func (d *Debouncer) Pending() bool { return d.pending }

// Cancel drops the pending change; ticks already scheduled will not fire.
func (d *Debouncer) Cancel() {
	d.seq++
	d.pending = false
}

// TimerDebouncer runs fn with the last value notified once no Notify has arrived for
// the delay. It is safe for concurrent use.
type TimerDebouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	value   T
	stopped bool
}

func NewTimerDebouncer[T any](delay time.Duration, fn func(T)) *TimerDebouncer[T] {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	return &TimerDebouncer[T]{delay: delay, fn: fn}
}

func (d *TimerDebouncer[T]) Notify(v T) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.gen++
	d.value = v
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *TimerDebouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.mu.Unlock()
	d.fn(v)
}

// Flush runs fn immediately with the pending value, if any.
func (d *TimerDebouncer[T]) Flush() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if d.stopped || d.timer == nil || !d.timer.Stop() {
		d.mu.Unlock()
		return
	}
	d.gen++
	v := d.value
	d.mu.Unlock()
	d.fn(v)
}

// Stop cancels any pending call. Later Notify calls are ignored.
func (d *TimerDebouncer[T]) Stop() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
}
