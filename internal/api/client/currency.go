package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// ErrNoProfile is returned when a role has no profile endpoint.
var ErrNoProfile = errors.New("role has no profile")

// Rates returns the exchange-rate table relative to the base currency.
func (c *Client) Rates(ctx context.Context) (domain.RateTable, error) {
	var resp struct {
		Rates domain.RateTable `json:"rates"`
	}
	if err := c.get(ctx, "rates", "/rates", &resp); err != nil {
		return nil, err
	}
	if resp.Rates == nil {
		resp.Rates = domain.RateTable{}
	}
	return resp.Rates, nil
}

// GetCurrency resolves a currency ID to its code and symbol.
func (c *Client) GetCurrency(ctx context.Context, role domain.Role, id string) (*domain.Currency, error) {
	var cur domain.Currency
	path := fmt.Sprintf("/%s/getCurrency/%s", role.PathPrefix(), url.PathEscape(id))
	if err := c.get(ctx, "get_currency", path, &cur); err != nil {
		return nil, err
	}
	return &cur, nil
}

// GetProfile returns the signed-in user's profile.
func (c *Client) GetProfile(ctx context.Context, role domain.Role) (*domain.Profile, error) {
	if !role.HasProfile() {
		return nil, fmt.Errorf("getting %s profile: %w", role, ErrNoProfile)
	}
	var p domain.Profile
	if err := c.get(ctx, "get_profile", fmt.Sprintf("/%s/profile", role.PathPrefix()), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateCurrency sets the preferred display currency, by ID or ISO code, and
// returns the updated profile. An empty value clears the preference.
func (c *Client) UpdateCurrency(ctx context.Context, role domain.Role, currency string) (*domain.Profile, error) {
	if !role.HasProfile() {
		return nil, fmt.Errorf("updating %s profile: %w", role, ErrNoProfile)
	}
	body := map[string]string{"currency": currency}
	var p domain.Profile
	if err := c.patch(ctx, "update_profile", fmt.Sprintf("/%s/profile", role.PathPrefix()), body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
