package client

import (
	"context"
	"fmt"
	"net/url"

	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// ListingPath returns the collection path for resource as seen by role,
// e.g. "/tourist/activities".
func ListingPath(role domain.Role, resource domain.Resource) string {
	return fmt.Sprintf("/%s/%s", role.PathPrefix(), resource.Plural())
}

// MaxPricePath returns the max-price endpoint for resource.
func MaxPricePath(role domain.Role, resource domain.Resource) string {
	return fmt.Sprintf("/%s/max-price-%s", role.PathPrefix(), resource)
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// ListActivities returns the activities matching q.
func (c *Client) ListActivities(
	ctx context.Context,
	role domain.Role,
	q url.Values,
) ([]domain.Activity, error) {
	var out []domain.Activity
	path := withQuery(ListingPath(role, domain.ResourceActivity), q)
	if err := c.get(ctx, "list_activities", path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListItineraries returns the itineraries matching q.
func (c *Client) ListItineraries(
	ctx context.Context,
	role domain.Role,
	q url.Values,
) ([]domain.Itinerary, error) {
	var out []domain.Itinerary
	path := withQuery(ListingPath(role, domain.ResourceItinerary), q)
	if err := c.get(ctx, "list_itineraries", path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListProducts returns the products matching q.
func (c *Client) ListProducts(
	ctx context.Context,
	role domain.Role,
	q url.Values,
) ([]domain.Product, error) {
	var out []domain.Product
	path := withQuery(ListingPath(role, domain.ResourceProduct), q)
	if err := c.get(ctx, "list_products", path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MaxPrice returns the highest price in the resource collection, used as the
// ceiling of the price filter.
func (c *Client) MaxPrice(
	ctx context.Context,
	role domain.Role,
	resource domain.Resource,
) (float64, error) {
	var maxPrice float64
	if err := c.get(ctx, "max_price", MaxPricePath(role, resource), &maxPrice); err != nil {
		return 0, err
	}
	return maxPrice, nil
}
