// Package listing fetches listing collections and tracks their loading,
// error and result state.
package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/donaldgifford/trip-market/internal/api/client"
	"github.com/donaldgifford/trip-market/internal/metrics"
	"github.com/donaldgifford/trip-market/pkg/logger"
)

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 10 * time.Second

// MsgTimeout is the banner shown when a fetch exceeds its timeout.
const MsgTimeout = "request timed out"

// FetchFunc loads one listing collection for the given query.
type FetchFunc[T any] func(ctx context.Context, q url.Values) ([]T, error)

// State is a snapshot of the fetcher.
type State[T any] struct {
	Items      []T
	Loading    bool
	Err        error
	ErrMessage string
	Generation uint64
}

// Failed reports whether the last applied fetch failed.
func (s State[T]) Failed() bool {
	return s.Err != nil
}

// Outcome is how a single Fetch call ended.
type Outcome string

// Outcome constants.
const (
	OutcomeOK       Outcome = "ok"
	OutcomeError    Outcome = "error"
	OutcomeStale    Outcome = "stale"
	OutcomeCanceled Outcome = "canceled"
)

// Option configures a Fetcher.
type Option func(*options)

type options struct {
	timeout  time.Duration
	log      *slog.Logger
	resource string
}

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the fetcher's logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithResource sets the resource label used in logs and metrics.
func WithResource(name string) Option {
	return func(o *options) {
		o.resource = name
	}
}

// Fetcher runs fetches for one listing page. Starting a fetch cancels the
// one in flight, and a response is applied only if no newer fetch has
// started since, so the shown results always match the latest request.
type Fetcher[T any] struct {
	fetch    FetchFunc[T]
	timeout  time.Duration
	log      *slog.Logger
	resource string

	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	state    State[T]
	onChange func(State[T])
}

// New creates a Fetcher around fetch.
func New[T any](fetch FetchFunc[T], opts ...Option) *Fetcher[T] {
	o := options{timeout: DefaultTimeout, resource: "listing"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Fetcher[T]{
		fetch:    fetch,
		timeout:  o.timeout,
		log:      logger.Component(o.log, "fetcher").With("resource", o.resource),
		resource: o.resource,
		state:    State[T]{Items: []T{}},
	}
}

// OnChange registers fn to receive every state transition. fn is called
// without the fetcher lock held.
func (f *Fetcher[T]) OnChange(fn func(State[T])) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// State returns the current snapshot.
func (f *Fetcher[T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Fetch runs one fetch to completion and returns the state afterwards along
// with how this call ended. A superseded call returns OutcomeStale and
// leaves the state to the newer fetch.
func (f *Fetcher[T]) Fetch(ctx context.Context, q url.Values) (State[T], Outcome) {
	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	gen := f.gen
	f.cancel = cancel
	f.state.Loading = true
	f.state.Generation = gen
	loading := f.state
	notify := f.onChange
	f.mu.Unlock()

	if notify != nil {
		notify(loading)
	}

	start := time.Now()
	items, err := f.fetch(fetchCtx, q)
	metrics.ListingFetchDuration.Observe(time.Since(start).Seconds())

	f.mu.Lock()
	if gen != f.gen {
		current := f.state
		f.mu.Unlock()
		f.record(OutcomeStale)
		f.log.Debug("discarding stale response", "generation", gen, "current", current.Generation)
		return current, OutcomeStale
	}
	f.cancel = nil

	var outcome Outcome
	switch {
	case err == nil:
		if items == nil {
			items = []T{}
		}
		f.state = State[T]{Items: items, Generation: gen}
		outcome = OutcomeOK
	case errors.Is(err, context.Canceled):
		// Caller went away or Cancel was called: keep what is shown.
		f.state.Loading = false
		outcome = OutcomeCanceled
	default:
		f.state = State[T]{
			Items:      []T{},
			Err:        err,
			ErrMessage: ErrorMessage(err),
			Generation: gen,
		}
		outcome = OutcomeError
	}
	result := f.state
	notify = f.onChange
	f.mu.Unlock()

	f.record(outcome)
	if outcome == OutcomeError {
		f.log.Warn("fetch failed", "error", err, "generation", gen)
	} else {
		f.log.Debug("fetch finished", "outcome", outcome, "count", len(result.Items), "generation", gen)
	}

	if notify != nil {
		notify(result)
	}
	return result, outcome
}

// Cancel aborts the fetch in flight, if any.
func (f *Fetcher[T]) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

func (f *Fetcher[T]) record(o Outcome) {
	metrics.ListingFetchesTotal.WithLabelValues(f.resource, string(o)).Inc()
}

// ErrorMessage renders a fetch error as banner text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return MsgTimeout
	}
	var he *client.HTTPError
	if errors.As(err, &he) {
		if he.Message == "" {
			return fmt.Sprintf("server returned HTTP %d", he.Status)
		}
		return he.Message
	}
	return err.Error()
}
