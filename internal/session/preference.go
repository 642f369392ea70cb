package session

import (
	"context"
	"fmt"

	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// ProfileAPI is the subset of the API client used to resolve preferences.
type ProfileAPI interface {
	GetProfile(ctx context.Context, role domain.Role) (*domain.Profile, error)
	GetCurrency(ctx context.Context, role domain.Role, id string) (*domain.Currency, error)
}

// LoadPreference resolves the preferred display currency for s. Roles that
// do not convert prices get the base currency without any request. On error
// the returned preference is still usable and falls back to the base
// currency.
func (s Session) LoadPreference(ctx context.Context, api ProfileAPI) (domain.UserPreference, error) {
	pref := domain.UserPreference{Role: s.Role}
	if !s.Role.ConvertsPrices() || !s.Role.HasProfile() {
		return pref, nil
	}

	profile, err := api.GetProfile(ctx, s.Role)
	if err != nil {
		return pref, fmt.Errorf("loading profile: %w", err)
	}
	if profile.CurrencyID == "" {
		return pref, nil
	}

	cur, err := api.GetCurrency(ctx, s.Role, profile.CurrencyID)
	if err != nil {
		return pref, fmt.Errorf("loading currency %s: %w", profile.CurrencyID, err)
	}
	pref.PreferredCurrency = cur
	return pref, nil
}
