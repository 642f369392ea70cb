// Package session reads who is browsing from the auth cookies and loads
// their display preferences.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/donaldgifford/trip-market/internal/api/client"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// Cookie names set by the login flow.
const (
	TokenCookie = "jwt"
	RoleCookie  = "role"
)

// ErrSessionExpired is returned when the token's exp claim is in the past.
var ErrSessionExpired = errors.New("session expired, please log in again")

// Session is the caller's identity as far as the listing pages need it.
type Session struct {
	Token     string
	Role      domain.Role
	ExpiresAt *time.Time
}

// New builds a Session from raw token and role values. A token that is a
// JWT has its exp claim read; the signature is not verified, that is the
// backend's job.
func New(token, role string) (Session, error) {
	r, err := domain.ParseRole(role)
	if err != nil {
		return Session{}, err
	}
	s := Session{Token: strings.TrimSpace(token), Role: r}
	if s.Token != "" {
		s.ExpiresAt = expiry(s.Token)
	}
	return s, nil
}

// FromCookies builds a Session from the jwt and role cookies.
func FromCookies(cookies []*http.Cookie) (Session, error) {
	var token, role string
	for _, c := range cookies {
		switch c.Name {
		case TokenCookie:
			token = c.Value
		case RoleCookie:
			role = c.Value
		}
	}
	return New(token, role)
}

// FromRequest builds a Session from the cookies on r.
func FromRequest(r *http.Request) (Session, error) {
	return FromCookies(r.Cookies())
}

// FromCookieHeader parses a raw Cookie header such as
// "jwt=eyJ...; role=tourist".
func FromCookieHeader(header string) (Session, error) {
	cookies, err := http.ParseCookie(header)
	if err != nil {
		return Session{}, fmt.Errorf("parsing cookie header: %w", err)
	}
	return FromCookies(cookies)
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Validate returns ErrSessionExpired if the token expired before now.
func (s Session) Validate(now time.Time) error {
	if s.ExpiresAt != nil && !now.Before(*s.ExpiresAt) {
		return fmt.Errorf("%w (expired %s)", ErrSessionExpired, s.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

// ClientOptions returns the client options that authenticate as s.
func (s Session) ClientOptions() []client.Option {
	if s.Token == "" {
		return nil
	}
	return []client.Option{client.WithToken(s.Token)}
}

func expiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}
