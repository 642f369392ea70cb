package listing

import (
	"sync"
	"time"
)

// DefaultDebounce is the delay between the last filter edit and the fetch.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer delays a trigger until no new trigger has arrived for the
// configured delay.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	seq     uint64
	timer   *time.Timer
	pending func()
}

// NewDebouncer returns a Debouncer with the given delay. A non-positive
// delay uses DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, replacing and restarting any pending trigger.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(seq)
	})
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Flush runs the pending trigger now, on the caller's goroutine. It reports
// whether anything was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.take()
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Stop drops the pending trigger. It reports whether anything was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.take() != nil
}

// Pending reports whether a trigger is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) take() func() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	fn := d.pending
	d.pending = nil
	d.seq++
	return fn
}
