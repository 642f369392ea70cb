package middleware

import (
	"github.com/labstack/echo/v4"
)

// CookieBearer returns Echo middleware that copies the named session cookie
// into the Authorization header when the request has none, so browser
// sessions and bearer clients pass the same token check.
func CookieBearer(name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Header.Get(echo.HeaderAuthorization) == "" {
				if ck, err := req.Cookie(name); err == nil && ck.Value != "" {
					req.Header.Set(echo.HeaderAuthorization, "Bearer "+ck.Value)
				}
			}
			return next(c)
		}
	}
}
