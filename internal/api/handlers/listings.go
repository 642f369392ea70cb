package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/trip-market/internal/catalog"
	"github.com/donaldgifford/trip-market/pkg/logger"
	"github.com/donaldgifford/trip-market/pkg/query"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// ListingsHandler serves the per-role listing and max-price endpoints.
type ListingsHandler struct {
	catalog *catalog.Catalog
	auth    *Authorizer
	latency time.Duration
	log     *slog.Logger
}

// ListingsOption configures a ListingsHandler.
type ListingsOption func(*ListingsHandler)

// WithLatency delays every listing response by d.
func WithLatency(d time.Duration) ListingsOption {
	return func(h *ListingsHandler) { h.latency = d }
}

// WithAuthorizer checks tokens on tourist listings.
func WithAuthorizer(a *Authorizer) ListingsOption {
	return func(h *ListingsHandler) { h.auth = a }
}

// WithHandlerLogger sets the logger.
func WithHandlerLogger(l *slog.Logger) ListingsOption {
	return func(h *ListingsHandler) { h.log = l }
}

// NewListingsHandler creates a new ListingsHandler.
func NewListingsHandler(c *catalog.Catalog, opts ...ListingsOption) *ListingsHandler {
	h := &ListingsHandler{catalog: c}
	for _, opt := range opts {
		opt(h)
	}
	h.log = logger.Component(h.log, "listings")
	return h
}

// --- Input/Output types ---

// ListingQueryInput carries the listing filter parameters. Values are parsed
// by the catalog so malformed numbers and dates come back as 400.
type ListingQueryInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token, checked on tourist endpoints"`
	SearchBy      string `query:"searchBy"       doc:"Case-insensitive search term"`
	MinPrice      string `query:"minPrice"       doc:"Lower price bound"             example:"10"`
	MaxPrice      string `query:"maxPrice"       doc:"Upper price bound"             example:"120"`
	Sort          string `query:"sort"           doc:"Sort field"                    enum:"price,rating,"`
	Asc           string `query:"asc"            doc:"1 ascending, -1 descending"    enum:"1,-1,"`
	Category      string `query:"category"       doc:"Comma-separated categories"`
	Types         string `query:"types"          doc:"Comma-separated tags"`
	MinRating     string `query:"minRating"      doc:"Minimum rating, 0 to 5"`
	StartDate     string `query:"startDate"      doc:"Earliest date, YYYY-MM-DD"     example:"2026-06-01"`
	EndDate       string `query:"endDate"        doc:"Latest date, YYYY-MM-DD"       example:"2026-06-30"`
}

func (in *ListingQueryInput) values() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set(query.ParamSearch, in.SearchBy)
	set(query.ParamMinPrice, in.MinPrice)
	set(query.ParamMaxPrice, in.MaxPrice)
	set(query.ParamSort, in.Sort)
	set(query.ParamAsc, in.Asc)
	set(query.ParamCategory, in.Category)
	set(query.ParamTypes, in.Types)
	set(query.ParamMinRating, in.MinRating)
	set(query.ParamStartDate, in.StartDate)
	set(query.ParamEndDate, in.EndDate)
	return q
}

// ListOutput is a bare JSON array of listings.
type ListOutput[T any] struct {
	Body []T
}

// MaxPriceInput is the input for the max-price endpoints.
type MaxPriceInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token, checked on tourist endpoints"`
}

// MaxPriceOutput is a bare JSON number.
type MaxPriceOutput struct {
	Body float64
}

// --- Handlers ---

// wait applies the configured response latency.
func (h *ListingsHandler) wait(ctx context.Context) error {
	if h.latency <= 0 {
		return nil
	}
	t := time.NewTimer(h.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (h *ListingsHandler) authorize(role domain.Role, header string) error {
	if role != domain.RoleTourist {
		return nil
	}
	return h.auth.Check(header)
}

func listHandler[T domain.Item](
	h *ListingsHandler,
	role domain.Role,
	resource domain.Resource,
	list func(domain.Role, catalog.Filter) []T,
) func(context.Context, *ListingQueryInput) (*ListOutput[T], error) {
	return func(ctx context.Context, input *ListingQueryInput) (*ListOutput[T], error) {
		if err := h.authorize(role, input.Authorization); err != nil {
			return nil, err
		}

		f, err := catalog.ParseFilter(input.values())
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		if err := h.wait(ctx); err != nil {
			return nil, huma.Error503ServiceUnavailable("request canceled")
		}

		items := list(role, f)
		h.log.Debug("listing served",
			"role", role.String(),
			"resource", string(resource),
			"count", len(items),
		)
		return &ListOutput[T]{Body: items}, nil
	}
}

func (h *ListingsHandler) maxPrice(role domain.Role, resource domain.Resource) func(context.Context, *MaxPriceInput) (*MaxPriceOutput, error) {
	return func(_ context.Context, input *MaxPriceInput) (*MaxPriceOutput, error) {
		if err := h.authorize(role, input.Authorization); err != nil {
			return nil, err
		}
		ceiling, err := h.catalog.MaxPrice(resource)
		if err != nil {
			return nil, huma.Error404NotFound(err.Error())
		}
		return &MaxPriceOutput{Body: ceiling}, nil
	}
}

// RegisterListingRoutes registers the listing and max-price endpoints for
// every role and resource.
func RegisterListingRoutes(api huma.API, h *ListingsHandler) {
	for _, role := range domain.Roles {
		registerList(api, h, role, domain.ResourceActivity, h.catalog.Activities)
		registerList(api, h, role, domain.ResourceItinerary, h.catalog.Itineraries)
		registerList(api, h, role, domain.ResourceProduct, h.catalog.Products)

		for _, r := range domain.Resources {
			huma.Register(api, huma.Operation{
				OperationID: fmt.Sprintf("max-price-%s-%s", role, r),
				Method:      http.MethodGet,
				Path:        fmt.Sprintf("/%s/max-price-%s", role.PathPrefix(), r),
				Summary:     fmt.Sprintf("Highest %s price", r),
				Description: fmt.Sprintf("Returns the highest %s price as a bare number, the ceiling of the price filter.", r),
				Tags:        []string{role.String()},
				Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
			}, h.maxPrice(role, r))
		}
	}
}

func registerList[T domain.Item](
	api huma.API,
	h *ListingsHandler,
	role domain.Role,
	resource domain.Resource,
	list func(domain.Role, catalog.Filter) []T,
) {
	huma.Register(api, huma.Operation{
		OperationID: fmt.Sprintf("list-%s-%s", role, resource.Plural()),
		Method:      http.MethodGet,
		Path:        fmt.Sprintf("/%s/%s", role.PathPrefix(), resource.Plural()),
		Summary:     fmt.Sprintf("List %s", resource.Plural()),
		Description: fmt.Sprintf("Returns %s visible to %s users, filtered and sorted by the query parameters.", resource.Plural(), role),
		Tags:        []string{role.String()},
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, listHandler(h, role, resource, list))
}
