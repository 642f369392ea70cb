// Package saved tracks which listing items the user has saved and toggles
// them optimistically against the backend.
package saved

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/donaldgifford/trip-market/internal/api/client"
	"github.com/donaldgifford/trip-market/internal/listing"
	"github.com/donaldgifford/trip-market/internal/metrics"
	"github.com/donaldgifford/trip-market/internal/notify"
	"github.com/donaldgifford/trip-market/pkg/logger"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

var (
	// ErrPending is returned when a toggle for the same item is in flight.
	ErrPending = errors.New("save already in progress")
	// ErrRejected is returned when the server answers {success:false}.
	ErrRejected = errors.New("server rejected the change")
)

// ItemState is the saved state of one item as shown to the user.
type ItemState int

// ItemState constants.
const (
	Unsaved ItemState = iota
	Saved
	Pending
)

func (s ItemState) String() string {
	switch s {
	case Unsaved:
		return "unsaved"
	case Saved:
		return "saved"
	case Pending:
		return "pending"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ToggleFunc flips an item on the server and reports whether it succeeded.
type ToggleFunc func(ctx context.Context, id string) (bool, error)

// ListFunc returns the IDs of all saved items.
type ListFunc func(ctx context.Context) ([]string, error)

// Option configures a Toggler.
type Option func(*Toggler)

// WithNotifier sets where failure notices go.
func WithNotifier(n notify.Notifier) Option {
	return func(t *Toggler) {
		t.notifier = n
	}
}

// WithLogger sets the toggler's logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Toggler) {
		t.log = l
	}
}

// WithOnChange registers a callback run after every change to the saved or
// pending sets.
func WithOnChange(fn func()) Option {
	return func(t *Toggler) {
		t.onChange = fn
	}
}

// Toggler owns the saved set for one resource.
type Toggler struct {
	resource domain.Resource
	toggle   ToggleFunc
	list     ListFunc
	notifier notify.Notifier
	log      *slog.Logger
	onChange func()

	mu      sync.Mutex
	saved   map[string]struct{}
	pending map[string]struct{}
}

// New creates a Toggler for resource.
func New(resource domain.Resource, toggle ToggleFunc, list ListFunc, opts ...Option) *Toggler {
	t := &Toggler{
		resource: resource,
		toggle:   toggle,
		list:     list,
		saved:    make(map[string]struct{}),
		pending:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = logger.Component(t.log, "toggler").With("resource", string(resource))
	if t.notifier == nil {
		t.notifier = notify.NewNoOpNotifier(t.log)
	}
	return t
}

// NewFromClient wires a Toggler to the save endpoints of c.
func NewFromClient(c *client.Client, resource domain.Resource, opts ...Option) *Toggler {
	return New(resource,
		func(ctx context.Context, id string) (bool, error) {
			return c.ToggleSave(ctx, resource, id)
		},
		func(ctx context.Context) ([]string, error) {
			return c.SavedIDs(ctx, resource)
		},
		opts...,
	)
}

// State returns the displayed state of id.
func (t *Toggler) State(id string) ItemState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.pending[id]; ok {
		return Pending
	}
	if _, ok := t.saved[id]; ok {
		return Saved
	}
	return Unsaved
}

// IsSaved reports whether id is shown as saved. A pending item reports its
// optimistic value.
func (t *Toggler) IsSaved(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.saved[id]
	return ok
}

// IDs returns the saved IDs in sorted order.
func (t *Toggler) IDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.saved))
	for id := range t.saved {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Toggle flips id immediately and then asks the server to do the same. On
// failure the flip is reverted and a notice is shown. It returns the saved
// state the item ends up in.
func (t *Toggler) Toggle(ctx context.Context, id string) (bool, error) {
	t.mu.Lock()
	if _, busy := t.pending[id]; busy {
		_, was := t.saved[id]
		t.mu.Unlock()
		t.record("rejected_pending")
		return was, ErrPending
	}
	_, wasSaved := t.saved[id]
	t.set(id, !wasSaved)
	t.pending[id] = struct{}{}
	t.mu.Unlock()
	t.changed()

	ok, err := t.toggle(ctx, id)
	if err == nil && !ok {
		err = ErrRejected
	}

	t.mu.Lock()
	delete(t.pending, id)
	if err != nil {
		t.set(id, wasSaved)
	}
	t.mu.Unlock()
	t.changed()

	if err != nil {
		t.record("failed")
		t.log.Warn("toggle failed", "id", id, "error", err)
		if nerr := t.notifier.Notify(ctx, notify.Notice{
			Level: notify.LevelError,
			Text:  failureText(t.resource, wasSaved, err),
		}); nerr != nil {
			t.log.Debug("notice not delivered", "error", nerr)
		}
		return wasSaved, fmt.Errorf("toggling %s %s: %w", t.resource, id, err)
	}

	if wasSaved {
		t.record("unsaved")
	} else {
		t.record("saved")
	}

	if err := t.Reconcile(ctx); err != nil {
		t.log.Debug("reconcile after toggle failed", "error", err)
	}
	return t.IsSaved(id), nil
}

// Reconcile replaces the saved set with the server's copy. Items with a
// toggle in flight keep their optimistic value.
func (t *Toggler) Reconcile(ctx context.Context) error {
	if t.list == nil {
		return nil
	}
	ids, err := t.list(ctx)
	if err != nil {
		return fmt.Errorf("listing saved %s: %w", t.resource.Plural(), err)
	}

	t.mu.Lock()
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	for id := range t.pending {
		if _, ok := t.saved[id]; ok {
			next[id] = struct{}{}
		} else {
			delete(next, id)
		}
	}
	t.saved = next
	t.mu.Unlock()
	t.changed()
	return nil
}

// set must be called with t.mu held.
func (t *Toggler) set(id string, saved bool) {
	if saved {
		t.saved[id] = struct{}{}
	} else {
		delete(t.saved, id)
	}
}

func (t *Toggler) changed() {
	if t.onChange != nil {
		t.onChange()
	}
}

func (t *Toggler) record(outcome string) {
	metrics.SaveTogglesTotal.WithLabelValues(string(t.resource), outcome).Inc()
}

func failureText(resource domain.Resource, wasSaved bool, err error) string {
	action := "save"
	if wasSaved {
		action = "remove"
	}
	return fmt.Sprintf("Could not %s %s: %s", action, resource, listing.ErrorMessage(err))
}
