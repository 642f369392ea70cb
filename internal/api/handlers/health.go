package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ReadyFunc reports whether the backend can serve listings.
type ReadyFunc func(ctx context.Context) error

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	ready ReadyFunc
}

// NewHealthHandler creates a new HealthHandler. A nil ready func is always
// ready.
func NewHealthHandler(ready ReadyFunc) *HealthHandler {
	return &HealthHandler{ready: ready}
}

// Healthz returns 200 if the process is running.
//
// @Summary Liveness check
// @Description Returns 200 if the process is running.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /healthz [get]
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if the catalog is loaded, 503 otherwise.
//
// @Summary Readiness check
// @Description Returns 200 if the catalog is loaded, 503 otherwise.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 503 {object} StatusResponse
// @Router /readyz [get]
func (h *HealthHandler) Readyz(c echo.Context) error {
	if h.ready != nil {
		if err := h.ready(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable", Reason: err.Error()})
		}
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
