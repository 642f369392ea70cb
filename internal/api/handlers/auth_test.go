package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.True(t, errors.As(err, &se), "expected a huma status error, got %v", err)
	return se.GetStatus()
}

func TestAuthorizer_Check(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	a := NewAuthorizer("secret")
	a.now = func() time.Time { return now }

	valid, err := a.Mint("u1", "tourist", time.Hour)
	require.NoError(t, err)

	expired, err := a.Mint("u1", "tourist", -time.Minute)
	require.NoError(t, err)

	other := NewAuthorizer("other")
	other.now = a.now
	foreign, err := other.Mint("u1", "tourist", time.Hour)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantErr bool
		wantMsg string
	}{
		{name: "valid token", header: "Bearer " + valid},
		{name: "missing header", header: "", wantErr: true, wantMsg: "missing bearer token"},
		{name: "wrong scheme", header: "Basic " + valid, wantErr: true, wantMsg: "missing bearer token"},
		{name: "expired", header: "Bearer " + expired, wantErr: true, wantMsg: "session expired"},
		{name: "wrong secret", header: "Bearer " + foreign, wantErr: true, wantMsg: "invalid token"},
		{name: "no exp claim", header: "Bearer " + noExp, wantErr: true, wantMsg: "invalid token"},
		{name: "garbage", header: "Bearer not.a.jwt", wantErr: true, wantMsg: "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := a.Check(tt.header)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestAuthorizer_Disabled(t *testing.T) {
	t.Parallel()

	var nilAuth *Authorizer
	assert.False(t, nilAuth.Enabled())
	assert.NoError(t, nilAuth.Check(""))

	empty := NewAuthorizer("")
	assert.False(t, empty.Enabled())
	assert.NoError(t, empty.Check("Bearer whatever"))

	_, err := empty.Mint("u1", "tourist", time.Hour)
	assert.Error(t, err)
}
