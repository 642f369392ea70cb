package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		path       string
		handler    echo.HandlerFunc
		wantStatus int
		wantBody   string
		wantLog    []string
	}{
		{
			name:   "no panic",
			method: http.MethodGet,
			path:   "/guest/activities",
			handler: func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name:   "string panic",
			method: http.MethodGet,
			path:   "/panic",
			handler: func(_ echo.Context) error {
				panic("catalog exploded")
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"detail":"internal server error"`,
			wantLog:    []string{"panic recovered", "catalog exploded", "path=/panic", "request_id=req-123"},
		},
		{
			name:   "non-string panic",
			method: http.MethodPost,
			path:   "/tourist/save-product/p1",
			handler: func(_ echo.Context) error {
				panic(42)
			},
			wantStatus: http.StatusInternalServerError,
			wantLog:    []string{"error=42", "method=POST", "stack="},
		},
		{
			name:   "panic after write keeps the response",
			method: http.MethodGet,
			path:   "/tourist/products",
			handler: func(c echo.Context) error {
				c.Response().WriteHeader(http.StatusAccepted)
				panic("late")
			},
			wantStatus: http.StatusAccepted,
			wantLog:    []string{"late"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := slog.New(slog.NewTextHandler(&buf, nil))

			e := echo.New()
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.Set(RequestIDKey, "req-123")

			err := Recovery(log)(tt.handler)(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}

			if len(tt.wantLog) == 0 {
				assert.Empty(t, buf.String())
				return
			}
			for _, want := range tt.wantLog {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRecovery_ProblemContentType(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.Use(Recovery(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	e.GET("/boom", func(_ echo.Context) error { panic("boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get(echo.HeaderContentType))
	assert.JSONEq(t, `{"title":"Internal Server Error","status":500,"detail":"internal server error"}`, rec.Body.String())
}

func TestRecovery_AbortHandlerRepanics(t *testing.T) {
	t.Parallel()

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", http.NoBody), httptest.NewRecorder())

	h := Recovery(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))(func(_ echo.Context) error {
		panic(http.ErrAbortHandler)
	})
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() { _ = h(c) })
}
