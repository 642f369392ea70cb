package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/trip-market/internal/catalog"
	"github.com/donaldgifford/trip-market/pkg/logger"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// SavedHandler serves the tourist save toggle and saved-items endpoints.
type SavedHandler struct {
	catalog *catalog.Catalog
	auth    *Authorizer
	log     *slog.Logger
}

// NewSavedHandler creates a new SavedHandler.
func NewSavedHandler(c *catalog.Catalog, auth *Authorizer, log *slog.Logger) *SavedHandler {
	return &SavedHandler{catalog: c, auth: auth, log: logger.Component(log, "saved")}
}

// --- Input/Output types ---

// ToggleSaveInput is the input for the save toggle.
type ToggleSaveInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id"              doc:"Item ID"`
}

// ToggleSaveOutput reports whether the toggle was accepted.
type ToggleSaveOutput struct {
	Body struct {
		Success bool `json:"success" doc:"Whether the toggle was applied"`
		Saved   bool `json:"saved"   doc:"Saved state after the toggle"`
	}
}

// SavedInput is the input for the saved-items endpoints.
type SavedInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
}

// SavedOutput is a bare JSON array of saved items.
type SavedOutput struct {
	Body []any
}

// --- Handlers ---

func (h *SavedHandler) toggle(resource domain.Resource) func(context.Context, *ToggleSaveInput) (*ToggleSaveOutput, error) {
	return func(_ context.Context, input *ToggleSaveInput) (*ToggleSaveOutput, error) {
		if err := h.auth.Check(input.Authorization); err != nil {
			return nil, err
		}

		saved, err := h.catalog.ToggleSaved(resource, input.ID)
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, huma.Error404NotFound(fmt.Sprintf("%s not found", resource))
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("toggling saved state: " + err.Error())
		}

		h.log.Info("saved state toggled", "resource", string(resource), "id", input.ID, "saved", saved)

		resp := &ToggleSaveOutput{}
		resp.Body.Success = true
		resp.Body.Saved = saved
		return resp, nil
	}
}

func (h *SavedHandler) list(resource domain.Resource) func(context.Context, *SavedInput) (*SavedOutput, error) {
	return func(_ context.Context, input *SavedInput) (*SavedOutput, error) {
		if err := h.auth.Check(input.Authorization); err != nil {
			return nil, err
		}
		items, err := h.catalog.Saved(resource)
		if err != nil {
			return nil, huma.Error404NotFound(err.Error())
		}
		resp := &SavedOutput{Body: make([]any, 0, len(items))}
		for _, it := range items {
			resp.Body = append(resp.Body, it)
		}
		return resp, nil
	}
}

// RegisterSavedRoutes registers the tourist save endpoints for every
// resource.
func RegisterSavedRoutes(api huma.API, h *SavedHandler) {
	prefix := domain.RoleTourist.PathPrefix()
	for _, r := range domain.Resources {
		huma.Register(api, huma.Operation{
			OperationID: fmt.Sprintf("toggle-save-%s", r),
			Method:      http.MethodPost,
			Path:        fmt.Sprintf("/%s/save-%s/{id}", prefix, r),
			Summary:     fmt.Sprintf("Toggle a saved %s", r),
			Description: fmt.Sprintf("Adds the %s to the tourist's saved set, or removes it if already saved.", r),
			Tags:        []string{"saved"},
			Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
		}, h.toggle(r))

		huma.Register(api, huma.Operation{
			OperationID: fmt.Sprintf("list-saved-%s", r.Plural()),
			Method:      http.MethodGet,
			Path:        fmt.Sprintf("/%s/saved-%s", prefix, r.Plural()),
			Summary:     fmt.Sprintf("List saved %s", r.Plural()),
			Description: fmt.Sprintf("Returns the tourist's saved %s.", r.Plural()),
			Tags:        []string{"saved"},
			Errors:      []int{http.StatusUnauthorized},
		}, h.list(r))
	}
}
