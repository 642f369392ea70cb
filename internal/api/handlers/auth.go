package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Authorizer checks bearer tokens on tourist endpoints. Tokens are HS256
// JWTs signed with the configured secret. A nil Authorizer or one with no
// secret lets every request through.
type Authorizer struct {
	secret []byte
	now    func() time.Time
}

// NewAuthorizer creates an Authorizer. An empty secret disables checking.
func NewAuthorizer(secret string) *Authorizer {
	return &Authorizer{secret: []byte(secret), now: time.Now}
}

// Enabled reports whether tokens are checked.
func (a *Authorizer) Enabled() bool {
	return a != nil && len(a.secret) > 0
}

// Mint signs a token for subject with the given role, valid for ttl.
func (a *Authorizer) Mint(subject, role string, ttl time.Duration) (string, error) {
	if !a.Enabled() {
		return "", errors.New("no signing secret configured")
	}
	now := a.now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}

// Check validates an Authorization header value.
func (a *Authorizer) Check(header string) error {
	if !a.Enabled() {
		return nil
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return huma.Error401Unauthorized("missing bearer token")
	}

	_, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return huma.Error401Unauthorized("session expired, please log in again")
		}
		return huma.Error401Unauthorized("invalid token")
	}
	return nil
}
