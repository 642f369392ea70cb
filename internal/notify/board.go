package notify

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 3 * time.Second

// Board holds the single notice currently on screen. A new notice replaces
// the old one, and each notice dismisses itself after the TTL.
type Board struct {
	ttl     time.Duration
	nowFunc func() time.Time

	mu      sync.Mutex
	seq     uint64
	current *Notice
	timer   *time.Timer
	onClear func()
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(d time.Duration) BoardOption {
	return func(b *Board) {
		if d > 0 {
			b.ttl = d
		}
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) BoardOption {
	return func(b *Board) {
		b.nowFunc = f
	}
}

// WithOnClear registers a callback run when a notice self-dismisses.
func WithOnClear(fn func()) BoardOption {
	return func(b *Board) {
		b.onClear = fn
	}
}

// NewBoard creates an empty Board.
func NewBoard(opts ...BoardOption) *Board {
	b := &Board{ttl: DefaultTTL, nowFunc: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Notify shows n, replacing any visible notice and restarting the TTL.
func (b *Board) Notify(_ context.Context, n Notice) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = b.nowFunc()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	b.seq++
	seq := b.seq
	b.current = &n
	b.timer = time.AfterFunc(b.ttl, func() {
		b.expire(seq)
	})
	return nil
}

func (b *Board) expire(seq uint64) {
	b.mu.Lock()
	if seq != b.seq || b.current == nil {
		b.mu.Unlock()
		return
	}
	b.current = nil
	b.timer = nil
	onClear := b.onClear
	b.mu.Unlock()

	if onClear != nil {
		onClear()
	}
}

// Current returns the visible notice, if any.
func (b *Board) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Notice{}, false
	}
	return *b.current, true
}

// Dismiss clears the visible notice immediately.
func (b *Board) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.seq++
	b.current = nil
}
