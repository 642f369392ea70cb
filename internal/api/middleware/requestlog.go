package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/trip-market/internal/api/client"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// RequestIDKey is the echo context key holding the request ID.
const RequestIDKey = "request_id"

// probePaths are logged on their first success and on every failure.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It generates a request ID if none is provided and propagates it through
// the response header and echo context. Listing requests also log the
// caller's role and the raw filter query.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var probed sync.Map

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqID := req.Header.Get(client.RequestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set(RequestIDKey, reqID)
			c.Response().Header().Set(client.RequestIDHeader, reqID)

			err := next(c)

			status := c.Response().Status
			path := req.URL.Path

			if _, probe := probePaths[path]; probe && status < http.StatusBadRequest {
				if _, seen := probed.LoadOrStore(path, true); seen {
					return err
				}
			}

			level := slog.LevelInfo
			if status >= http.StatusBadRequest {
				level = slog.LevelWarn
			}

			attrs := []any{
				"method", req.Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			}
			if role, ok := pathRole(path); ok {
				attrs = append(attrs, "role", role.String())
			}
			if req.URL.RawQuery != "" {
				attrs = append(attrs, "query", req.URL.RawQuery)
			}

			log.Log(req.Context(), level, "request", attrs...)
			return err
		}
	}
}

// pathRole reads the role from the first path segment, e.g. /tourist/...
func pathRole(path string) (domain.Role, bool) {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if seg == "" {
		return domain.RoleGuest, false
	}
	role, err := domain.ParseRole(seg)
	if err != nil {
		return domain.RoleGuest, false
	}
	return role, true
}
