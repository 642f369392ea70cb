package page

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/donaldgifford/trip-market/internal/api/client"
	"github.com/donaldgifford/trip-market/internal/listing"
	"github.com/donaldgifford/trip-market/internal/notify"
	"github.com/donaldgifford/trip-market/internal/rates"
	"github.com/donaldgifford/trip-market/internal/saved"
	"github.com/donaldgifford/trip-market/internal/session"
	"github.com/donaldgifford/trip-market/pkg/logger"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// Env carries the collaborators shared by every listing page of a session.
type Env struct {
	Client    *client.Client
	Session   session.Session
	Rates     *rates.Cache
	Logger    *slog.Logger
	PageSize  int
	Debounce  time.Duration
	Timeout   time.Duration
	NoticeTTL time.Duration
	OnRender  func(View)
	Now       func() time.Time
}

// Activities opens the activity listing page.
func Activities(ctx context.Context, env Env) (*Page[domain.Activity], error) {
	return open(ctx, env, domain.ResourceActivity, env.Client.ListActivities)
}

// Itineraries opens the itinerary listing page.
func Itineraries(ctx context.Context, env Env) (*Page[domain.Itinerary], error) {
	return open(ctx, env, domain.ResourceItinerary, env.Client.ListItineraries)
}

// Products opens the product listing page.
func Products(ctx context.Context, env Env) (*Page[domain.Product], error) {
	return open(ctx, env, domain.ResourceProduct, env.Client.ListProducts)
}

// open loads everything a page needs before its first fetch: the price
// ceiling, the display preference, the rate table and the saved set. Only an
// expired session is fatal; the rest degrade to defaults with a warning.
func open[T domain.Item](
	ctx context.Context,
	env Env,
	resource domain.Resource,
	list func(context.Context, domain.Role, url.Values) ([]T, error),
) (*Page[T], error) {
	now := env.Now
	if now == nil {
		now = time.Now
	}
	if err := env.Session.Validate(now()); err != nil {
		return nil, err
	}

	log := logger.Component(env.Logger, "page").With("resource", string(resource))
	role := env.Session.Role

	maxPrice, err := env.Client.MaxPrice(ctx, role, resource)
	if err != nil {
		log.Warn("max price unavailable, price filter disabled", "error", err)
		maxPrice = 0
	}

	pref, err := env.Session.LoadPreference(ctx, env.Client)
	if err != nil {
		log.Warn("preferred currency unavailable, showing base currency", "error", err)
	}

	table := domain.RateTable{}
	if pref.Role.ConvertsPrices() && env.Rates != nil {
		if table, err = env.Rates.Table(ctx); err != nil {
			log.Warn("exchange rates unavailable, showing unconverted prices", "error", err)
		}
	}

	// The page is created after its collaborators, so their callbacks
	// reach it through this pointer.
	var p *Page[T]
	rerender := func() {
		if p != nil {
			p.render()
		}
	}

	board := notify.NewBoard(notify.WithTTL(env.NoticeTTL), notify.WithOnClear(rerender))

	opts := []Option{
		WithLogger(env.Logger),
		WithPageSize(env.PageSize),
		WithDebounce(env.Debounce),
		WithMaxPrice(maxPrice),
		WithPreference(pref),
		WithRates(table),
		WithNoticeBoard(board),
		WithOnRender(env.OnRender),
		WithFetchOptions(listing.WithTimeout(env.Timeout)),
	}

	if role.CanSave() {
		tg := saved.NewFromClient(env.Client, resource,
			saved.WithNotifier(board),
			saved.WithLogger(env.Logger),
			saved.WithOnChange(rerender),
		)
		if err := tg.Reconcile(ctx); err != nil {
			log.Warn("saved items unavailable", "error", err)
		}
		opts = append(opts, WithToggler(tg))
	}

	p = New(resource, func(ctx context.Context, q url.Values) ([]T, error) {
		return list(ctx, role, q)
	}, opts...)
	return p, nil
}
