package handlers

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/trip-market/internal/catalog"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// CurrencyHandler serves exchange rates, currency lookup and the profile.
type CurrencyHandler struct {
	catalog *catalog.Catalog
	rates   domain.RateTable
	auth    *Authorizer
}

// NewCurrencyHandler creates a new CurrencyHandler. Rate codes are
// upper-cased.
func NewCurrencyHandler(c *catalog.Catalog, rates map[string]float64, auth *Authorizer) *CurrencyHandler {
	table := make(domain.RateTable, len(rates))
	for code, r := range rates {
		table[strings.ToUpper(code)] = r
	}
	return &CurrencyHandler{catalog: c, rates: table, auth: auth}
}

// --- Input/Output types ---

// RatesOutput is the exchange-rate table relative to USD.
type RatesOutput struct {
	Body struct {
		Rates domain.RateTable `json:"rates" doc:"Rate per currency code, USD is 1"`
	}
}

// GetCurrencyInput is the input for currency lookup.
type GetCurrencyInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token, checked on tourist endpoints"`
	ID            string `path:"id"              doc:"Currency ID"`
}

// GetCurrencyOutput is the response for currency lookup.
type GetCurrencyOutput struct {
	Body domain.Currency
}

// ProfileInput is the input for reading the profile.
type ProfileInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token, checked on tourist endpoints"`
}

// ProfileOutput is the response for the profile endpoints.
type ProfileOutput struct {
	Body domain.Profile
}

// UpdateProfileInput changes the preferred currency.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token, checked on tourist endpoints"`
	Body          struct {
		Currency string `json:"currency" doc:"Currency ID or ISO code; empty clears the preference"`
	}
}

// --- Handlers ---

// Rates returns the exchange-rate table.
func (h *CurrencyHandler) Rates(_ context.Context, _ *struct{}) (*RatesOutput, error) {
	resp := &RatesOutput{}
	resp.Body.Rates = maps.Clone(h.rates)
	return resp, nil
}

func (h *CurrencyHandler) authorize(role domain.Role, header string) error {
	if role != domain.RoleTourist {
		return nil
	}
	return h.auth.Check(header)
}

func (h *CurrencyHandler) getCurrency(role domain.Role) func(context.Context, *GetCurrencyInput) (*GetCurrencyOutput, error) {
	return func(_ context.Context, input *GetCurrencyInput) (*GetCurrencyOutput, error) {
		if err := h.authorize(role, input.Authorization); err != nil {
			return nil, err
		}
		cur, err := h.catalog.Currency(input.ID)
		if err != nil {
			return nil, huma.Error404NotFound("currency not found")
		}
		return &GetCurrencyOutput{Body: cur}, nil
	}
}

func (h *CurrencyHandler) getProfile(role domain.Role) func(context.Context, *ProfileInput) (*ProfileOutput, error) {
	return func(_ context.Context, input *ProfileInput) (*ProfileOutput, error) {
		if err := h.authorize(role, input.Authorization); err != nil {
			return nil, err
		}
		return &ProfileOutput{Body: h.catalog.Profile()}, nil
	}
}

func (h *CurrencyHandler) updateProfile(role domain.Role) func(context.Context, *UpdateProfileInput) (*ProfileOutput, error) {
	return func(_ context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
		if err := h.authorize(role, input.Authorization); err != nil {
			return nil, err
		}

		id := strings.TrimSpace(input.Body.Currency)
		if id != "" {
			if _, err := h.catalog.Currency(id); err != nil {
				cur, codeErr := h.catalog.CurrencyByCode(id)
				if codeErr != nil {
					return nil, huma.Error422UnprocessableEntity(fmt.Sprintf("unknown currency %q", id))
				}
				id = cur.ID
			}
		}

		if err := h.catalog.SetProfileCurrency(id); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, huma.Error422UnprocessableEntity(err.Error())
			}
			return nil, huma.Error500InternalServerError("updating profile: " + err.Error())
		}
		return &ProfileOutput{Body: h.catalog.Profile()}, nil
	}
}

// RegisterCurrencyRoutes registers the rates, currency and profile
// endpoints.
func RegisterCurrencyRoutes(api huma.API, h *CurrencyHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-rates",
		Method:      http.MethodGet,
		Path:        "/rates",
		Summary:     "Get exchange rates",
		Description: "Returns the exchange-rate table relative to USD.",
		Tags:        []string{"currency"},
	}, h.Rates)

	for _, role := range domain.Roles {
		if !role.HasProfile() {
			continue
		}
		prefix := role.PathPrefix()

		huma.Register(api, huma.Operation{
			OperationID: fmt.Sprintf("get-currency-%s", role),
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("/%s/getCurrency/{id}", prefix),
			Summary:     "Get a currency",
			Description: "Resolves a currency ID to its code and symbol.",
			Tags:        []string{role.String()},
			Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
		}, h.getCurrency(role))

		huma.Register(api, huma.Operation{
			OperationID: fmt.Sprintf("get-profile-%s", role),
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("/%s/profile", prefix),
			Summary:     "Get the profile",
			Description: "Returns the signed-in user's profile.",
			Tags:        []string{role.String()},
			Errors:      []int{http.StatusUnauthorized},
		}, h.getProfile(role))

		huma.Register(api, huma.Operation{
			OperationID: fmt.Sprintf("update-profile-%s", role),
			Method:      http.MethodPatch,
			Path:        fmt.Sprintf("/%s/profile", prefix),
			Summary:     "Update the preferred currency",
			Description: "Sets the preferred display currency by ID or ISO code.",
			Tags:        []string{role.String()},
			Errors:      []int{http.StatusUnauthorized, http.StatusUnprocessableEntity},
		}, h.updateProfile(role))
	}
}
