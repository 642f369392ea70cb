package client

import (
	"context"
	"fmt"
	"net/url"

	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// SavedEntry is one element of a saved-items response. Only the fields the
// wishlist views need are decoded.
type SavedEntry struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name,omitempty"`
	Title string  `json:"title,omitempty"`
	Price float64 `json:"price"`
}

// Label returns the display name of the entry.
func (e SavedEntry) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Title
}

// SavePath returns the toggle endpoint for one item.
func SavePath(resource domain.Resource, id string) string {
	return fmt.Sprintf("/%s/save-%s/%s",
		domain.RoleTourist.PathPrefix(), resource, url.PathEscape(id))
}

// SavedPath returns the saved-items endpoint for resource.
func SavedPath(resource domain.Resource) string {
	return fmt.Sprintf("/%s/saved-%s", domain.RoleTourist.PathPrefix(), resource.Plural())
}

// ToggleSave flips the saved state of one item on the server and reports
// whether the server accepted it.
func (c *Client) ToggleSave(ctx context.Context, resource domain.Resource, id string) (bool, error) {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, "toggle_save", SavePath(resource, id), nil, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

// ListSaved returns the caller's saved items for resource.
func (c *Client) ListSaved(ctx context.Context, resource domain.Resource) ([]SavedEntry, error) {
	var out []SavedEntry
	if err := c.get(ctx, "list_saved", SavedPath(resource), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SavedIDs returns the IDs of the caller's saved items for resource.
func (c *Client) SavedIDs(ctx context.Context, resource domain.Resource) ([]string, error) {
	entries, err := c.ListSaved(ctx, resource)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids, nil
}
