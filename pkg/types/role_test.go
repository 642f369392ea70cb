package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/trip-market/pkg/types"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    domain.Role
		wantErr bool
	}{
		{input: "", want: domain.RoleGuest},
		{input: "guest", want: domain.RoleGuest},
		{input: "Tourist", want: domain.RoleTourist},
		{input: " advertiser ", want: domain.RoleAdvertiser},
		{input: "seller", want: domain.RoleSeller},
		{input: "admin", want: domain.RoleAdmin},
		{input: "tourguide", want: domain.RoleGuest, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := domain.ParseRole(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnknownRole)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_Capabilities(t *testing.T) {
	t.Parallel()

	for _, r := range domain.Roles {
		assert.Equal(t, r == domain.RoleTourist, r.CanSave(), r.String())
		assert.Equal(t, r == domain.RoleTourist, r.ConvertsPrices(), r.String())
		assert.Equal(t, r != domain.RoleGuest, r.HasProfile(), r.String())
		assert.Equal(t, r.String(), r.PathPrefix())
	}

	unknown := domain.Role(42)
	assert.False(t, unknown.CanSave())
	assert.Equal(t, "guest", unknown.PathPrefix())
}

func TestUserPreference_DisplayCurrency(t *testing.T) {
	t.Parallel()

	eur := &domain.Currency{Code: "eur", Symbol: "€"}

	assert.Equal(t, "EUR", domain.UserPreference{Role: domain.RoleTourist, PreferredCurrency: eur}.DisplayCurrency())
	assert.Equal(t, "USD", domain.UserPreference{Role: domain.RoleTourist}.DisplayCurrency())
	assert.Equal(t, "USD", domain.UserPreference{Role: domain.RoleGuest, PreferredCurrency: eur}.DisplayCurrency())
}

func TestParseResource(t *testing.T) {
	t.Parallel()

	r, ok := domain.ParseResource("Activities")
	require.True(t, ok)
	assert.Equal(t, domain.ResourceActivity, r)

	r, ok = domain.ParseResource("itinerary")
	require.True(t, ok)
	assert.Equal(t, "itineraries", r.Plural())

	_, ok = domain.ParseResource("hotels")
	assert.False(t, ok)
}
