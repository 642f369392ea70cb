package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mw "github.com/donaldgifford/trip-market/internal/api/middleware"
)

func TestCookieBearer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{name: "cookie copied", cookie: "abc", want: "Bearer abc"},
		{name: "header wins", header: "Bearer xyz", cookie: "abc", want: "Bearer xyz"},
		{name: "nothing set", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/tourist/activities", http.NoBody)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "jwt", Value: tt.cookie})
			}
			c := e.NewContext(req, httptest.NewRecorder())

			var got string
			h := mw.CookieBearer("jwt")(func(c echo.Context) error {
				got = c.Request().Header.Get(echo.HeaderAuthorization)
				return nil
			})
			require.NoError(t, h(c))
			assert.Equal(t, tt.want, got)
		})
	}
}
