package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
)

// Recovery returns Echo middleware that turns a handler panic into a logged
// stack trace and a problem+json 500. Nothing is written if the handler had
// already committed a response.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				reqID, _ := c.Get(RequestIDKey).(string)
				log.Error("panic recovered",
					"error", fmt.Sprint(r),
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"request_id", reqID,
					"stack", string(debug.Stack()),
				)

				if c.Response().Committed {
					return
				}
				err = writeProblem(c, http.StatusInternalServerError, "internal server error")
			}()
			return next(c)
		}
	}
}

// writeProblem answers with an RFC 9457 body shaped like huma's errors.
func writeProblem(c echo.Context, status int, detail string) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/problem+json")
	return c.JSON(status, map[string]any{
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
