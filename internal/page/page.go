// Package page implements the listing page controller shared by the
// activity, itinerary and product pages. It owns the filter state and drives
// fetching, pagination, price display and saving.
package page

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/donaldgifford/trip-market/internal/listing"
	"github.com/donaldgifford/trip-market/internal/notify"
	"github.com/donaldgifford/trip-market/internal/saved"
	"github.com/donaldgifford/trip-market/pkg/currency"
	"github.com/donaldgifford/trip-market/pkg/logger"
	"github.com/donaldgifford/trip-market/pkg/paginate"
	"github.com/donaldgifford/trip-market/pkg/query"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// ErrCannotSave is returned when the current role has no saved set.
var ErrCannotSave = errors.New("only tourists can save items")

// Field keys for inline validation messages.
const (
	FieldPrice  = "price"
	FieldDates  = "dates"
	FieldRating = "rating"
)

// Option configures a Page.
type Option func(*settings)

type settings struct {
	log       *slog.Logger
	pageSize  int
	debounce  time.Duration
	maxPrice  float64
	pref      domain.UserPreference
	rates     domain.RateTable
	toggler   *saved.Toggler
	notices   *notify.Board
	onRender  func(View)
	fetchOpts []listing.Option
}

// WithLogger sets the page's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithPageSize sets how many rows a page shows.
func WithPageSize(n int) Option {
	return func(s *settings) { s.pageSize = n }
}

// WithDebounce sets the delay between a filter edit and the refetch.
func WithDebounce(d time.Duration) Option {
	return func(s *settings) { s.debounce = d }
}

// WithMaxPrice sets the ceiling of the price filter.
func WithMaxPrice(v float64) Option {
	return func(s *settings) { s.maxPrice = v }
}

// WithPreference sets the role and preferred currency.
func WithPreference(p domain.UserPreference) Option {
	return func(s *settings) { s.pref = p }
}

// WithRates sets the exchange-rate table used for price display.
func WithRates(t domain.RateTable) Option {
	return func(s *settings) { s.rates = t }
}

// WithToggler enables saving through t.
func WithToggler(t *saved.Toggler) Option {
	return func(s *settings) { s.toggler = t }
}

// WithNoticeBoard sets the board transient notices are shown on.
func WithNoticeBoard(b *notify.Board) Option {
	return func(s *settings) { s.notices = b }
}

// WithOnRender registers a callback receiving a fresh View after every
// state change, including changes made on background goroutines.
func WithOnRender(fn func(View)) Option {
	return func(s *settings) { s.onRender = fn }
}

// WithFetchOptions passes options through to the listing fetcher.
func WithFetchOptions(opts ...listing.Option) Option {
	return func(s *settings) { s.fetchOpts = append(s.fetchOpts, opts...) }
}

// Page is the controller for one listing page.
type Page[T domain.Item] struct {
	resource  domain.Resource
	fetcher   *listing.Fetcher[T]
	debouncer *listing.Debouncer
	toggler   *saved.Toggler
	notices   *notify.Board
	pref      domain.UserPreference
	converter currency.Converter
	log       *slog.Logger
	onRender  func(View)

	mu          sync.Mutex
	filters     domain.FilterState
	maxPrice    float64
	pageNum     int
	pageSize    int
	fieldErrors map[string]string
	closed      bool
}

// New creates a page for resource that loads items with fetch.
func New[T domain.Item](resource domain.Resource, fetch listing.FetchFunc[T], opts ...Option) *Page[T] {
	s := settings{pageSize: paginate.DefaultPageSize}
	for _, opt := range opts {
		opt(&s)
	}

	log := logger.Component(s.log, "page").With("resource", string(resource))
	notices := s.notices
	if notices == nil {
		notices = notify.NewBoard()
	}
	if s.rates == nil {
		s.rates = domain.RateTable{}
	}

	target := domain.Currency{Code: s.pref.DisplayCurrency()}
	if s.pref.Role.ConvertsPrices() && s.pref.PreferredCurrency != nil {
		target = *s.pref.PreferredCurrency
	}

	fetchOpts := append([]listing.Option{
		listing.WithLogger(s.log),
		listing.WithResource(string(resource)),
	}, s.fetchOpts...)

	p := &Page[T]{
		resource:    resource,
		fetcher:     listing.New(fetch, fetchOpts...),
		debouncer:   listing.NewDebouncer(s.debounce),
		notices:     notices,
		pref:        s.pref,
		converter:   currency.NewConverter(s.rates, target),
		log:         log,
		onRender:    s.onRender,
		filters:     domain.NewFilterState(s.maxPrice),
		maxPrice:    s.maxPrice,
		pageNum:     1,
		pageSize:    s.pageSize,
		fieldErrors: map[string]string{},
	}
	if s.pref.Role.CanSave() {
		p.toggler = s.toggler
	}
	return p
}

// Resource returns the resource the page lists.
func (p *Page[T]) Resource() domain.Resource {
	return p.resource
}

// Preference returns the role and currency the page renders for.
func (p *Page[T]) Preference() domain.UserPreference {
	return p.pref
}

// MaxPrice returns the ceiling of the price filter.
func (p *Page[T]) MaxPrice() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxPrice
}

// Filters returns a copy of the current filter state.
func (p *Page[T]) Filters() domain.FilterState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filters.Clone()
}

// Query returns the query the next fetch will send.
func (p *Page[T]) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return query.Encode(p.filters, p.maxPrice)
}

// Refresh fetches immediately with the current filters, dropping any
// pending debounced fetch, and returns the resulting view.
func (p *Page[T]) Refresh(ctx context.Context) View {
	p.debouncer.Stop()
	p.fetch(ctx)
	return p.View()
}

// Flush runs a pending debounced fetch now. It reports whether one was
// pending.
func (p *Page[T]) Flush() bool {
	return p.debouncer.Flush()
}

// Close stops pending and in-flight fetches.
func (p *Page[T]) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.debouncer.Stop()
	p.fetcher.Cancel()
}

func (p *Page[T]) fetch(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	q := query.Build(p.filters, p.maxPrice)
	p.mu.Unlock()

	p.log.Debug("fetching", "query", q.Encode())
	p.fetcher.Fetch(ctx, q)
	p.render()
}

// edit applies fn to the filters under the lock, records its inline
// message under field, resets to page 1 and schedules a refetch.
func (p *Page[T]) edit(field string, fn func(f *domain.FilterState) string) string {
	p.mu.Lock()
	msg := fn(&p.filters)
	if field != "" {
		if msg == "" {
			delete(p.fieldErrors, field)
		} else {
			p.fieldErrors[field] = msg
		}
	}
	p.pageNum = 1
	p.mu.Unlock()

	p.debouncer.Trigger(func() {
		p.fetch(context.Background())
	})
	p.render()
	return msg
}

// SetSearch sets the search term.
func (p *Page[T]) SetSearch(term string) {
	p.edit("", func(f *domain.FilterState) string {
		f.SetSearch(term)
		return ""
	})
}

// SetPriceRange replaces both price bounds.
func (p *Page[T]) SetPriceRange(lower, upper float64) string {
	return p.edit(FieldPrice, func(f *domain.FilterState) string {
		return f.SetPriceRange(lower, upper)
	})
}

// SetMinPrice edits the lower price bound.
func (p *Page[T]) SetMinPrice(v float64) string {
	return p.edit(FieldPrice, func(f *domain.FilterState) string {
		return f.SetMinPrice(v)
	})
}

// SetMaxPrice edits the upper price bound.
func (p *Page[T]) SetMaxPrice(v float64) string {
	return p.edit(FieldPrice, func(f *domain.FilterState) string {
		return f.SetMaxPrice(v)
	})
}

// SetStartDate edits the lower date bound; nil clears it.
func (p *Page[T]) SetStartDate(t *time.Time) string {
	return p.edit(FieldDates, func(f *domain.FilterState) string {
		return f.SetStartDate(t)
	})
}

// SetEndDate edits the upper date bound; nil clears it.
func (p *Page[T]) SetEndDate(t *time.Time) string {
	return p.edit(FieldDates, func(f *domain.FilterState) string {
		return f.SetEndDate(t)
	})
}

// ToggleCategory adds or removes a category.
func (p *Page[T]) ToggleCategory(id string) {
	p.edit("", func(f *domain.FilterState) string {
		f.ToggleCategory(id)
		return ""
	})
}

// ToggleType adds or removes a type.
func (p *Page[T]) ToggleType(t string) {
	p.edit("", func(f *domain.FilterState) string {
		f.ToggleType(t)
		return ""
	})
}

// SetMinRating sets the minimum rating.
func (p *Page[T]) SetMinRating(r float64) string {
	return p.edit(FieldRating, func(f *domain.FilterState) string {
		return f.SetMinRating(r)
	})
}

// SetSort sets the sort field and direction.
func (p *Page[T]) SetSort(field domain.SortField, dir domain.SortDirection) {
	p.edit("", func(f *domain.FilterState) string {
		f.SetSort(field, dir)
		return ""
	})
}

// SetFilters replaces the whole filter state, e.g. one parsed from CLI
// flags.
func (p *Page[T]) SetFilters(fs domain.FilterState) {
	p.mu.Lock()
	p.fieldErrors = map[string]string{}
	p.mu.Unlock()
	p.edit("", func(f *domain.FilterState) string {
		*f = fs.Clone()
		return ""
	})
}

// ClearFilters restores the default filters.
func (p *Page[T]) ClearFilters() {
	p.mu.Lock()
	p.fieldErrors = map[string]string{}
	ceiling := p.maxPrice
	p.mu.Unlock()
	p.edit("", func(f *domain.FilterState) string {
		f.Reset(ceiling)
		return ""
	})
}

// GoTo shows page n, clamped to the available pages.
func (p *Page[T]) GoTo(n int) {
	items := p.fetcher.State().Items

	p.mu.Lock()
	p.pageNum = paginate.Slice(items, p.pageSize, n).Number
	p.mu.Unlock()
	p.render()
}

// Next shows the next page, if any.
func (p *Page[T]) Next() {
	p.mu.Lock()
	n := p.pageNum + 1
	p.mu.Unlock()
	p.GoTo(n)
}

// Prev shows the previous page, if any.
func (p *Page[T]) Prev() {
	p.mu.Lock()
	n := p.pageNum - 1
	p.mu.Unlock()
	p.GoTo(n)
}

// ToggleSave flips the saved state of item id.
func (p *Page[T]) ToggleSave(ctx context.Context, id string) (bool, error) {
	if p.toggler == nil {
		return false, ErrCannotSave
	}
	defer p.render()
	return p.toggler.Toggle(ctx, id)
}

// SetRates swaps the exchange-rate table used for converted prices and
// re-renders.
func (p *Page[T]) SetRates(t domain.RateTable) {
	p.mu.Lock()
	p.converter = p.converter.WithTable(t)
	p.mu.Unlock()
	p.render()
}

// DismissNotice hides the visible notice.
func (p *Page[T]) DismissNotice() {
	p.notices.Dismiss()
	p.render()
}

func (p *Page[T]) render() {
	if p.onRender != nil {
		p.onRender(p.View())
	}
}
