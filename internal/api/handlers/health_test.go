package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/trip-market/internal/api/handlers"
)

func TestHealthz(t *testing.T) {
	t.Parallel()

	h := handlers.NewHealthHandler(nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Healthz(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ready      handlers.ReadyFunc
		wantStatus int
		wantBody   string
	}{
		{
			name:       "nil check is ready",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready"}`,
		},
		{
			name:       "returns 200 when check succeeds",
			ready:      func(context.Context) error { return nil },
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready"}`,
		},
		{
			name:       "returns 503 when check fails",
			ready:      func(context.Context) error { return errors.New("catalog empty") },
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable","reason":"catalog empty"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewHealthHandler(tt.ready)

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.Readyz(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
