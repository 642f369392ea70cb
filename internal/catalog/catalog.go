// Package catalog is the in-memory listing store behind the tripmock backend.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// ErrNotFound is returned when an id does not name a known record.
var ErrNotFound = errors.New("not found")

// Seed is the catalog contents, loadable from YAML. Record fields use their
// lowercased Go names, e.g. bookingopen or availabledates.
type Seed struct {
	Activities  []domain.Activity  `yaml:"activities"`
	Itineraries []domain.Itinerary `yaml:"itineraries"`
	Products    []domain.Product   `yaml:"products"`
	Currencies  []domain.Currency  `yaml:"currencies"`
	Profile     domain.Profile     `yaml:"profile"`
}

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path) //nolint:gosec // seed path from trusted config
	if err != nil {
		return Seed{}, fmt.Errorf("reading seed file: %w", err)
	}
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Seed{}, fmt.Errorf("parsing seed YAML: %w", err)
	}
	return s, nil
}

// Catalog holds listings, currencies, the profile and the saved sets. It is
// safe for concurrent use.
type Catalog struct {
	mu          sync.RWMutex
	activities  []domain.Activity
	itineraries []domain.Itinerary
	products    []domain.Product
	currencies  map[string]domain.Currency
	profile     domain.Profile
	saved       map[domain.Resource]map[string]bool
}

// New builds a catalog from s.
func New(s Seed) *Catalog {
	c := &Catalog{
		activities:  slices.Clone(s.Activities),
		itineraries: slices.Clone(s.Itineraries),
		products:    slices.Clone(s.Products),
		currencies:  make(map[string]domain.Currency, len(s.Currencies)),
		profile:     s.Profile,
		saved:       make(map[domain.Resource]map[string]bool, len(domain.Resources)),
	}
	for _, cur := range s.Currencies {
		c.currencies[cur.ID] = cur
	}
	for _, r := range domain.Resources {
		c.saved[r] = make(map[string]bool)
	}
	return c
}

// visibleProduct hides archived products from everyone but sellers and
// admins.
func visibleProduct(role domain.Role, p domain.Product) bool {
	return !p.Archived || role == domain.RoleSeller || role == domain.RoleAdmin
}

// visibleActivity hides closed activities from tourists and guests.
func visibleActivity(role domain.Role, a domain.Activity) bool {
	return a.BookingOpen || (role != domain.RoleTourist && role != domain.RoleGuest)
}

// Activities returns the activities visible to role that match f.
func (c *Catalog) Activities(role domain.Role, f Filter) []domain.Activity {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return apply(c.activities, f, func(a domain.Activity) bool {
		return visibleActivity(role, a) &&
			containsFold(f.Search, append([]string{a.Name, a.Category, a.Location}, a.Tags...)...) &&
			anyIn(f.Categories, []string{a.Category}) &&
			anyIn(f.Types, a.Tags) &&
			(!f.hasDates() || f.dateOK(a.Date))
	})
}

// Itineraries returns the itineraries that match f.
func (c *Catalog) Itineraries(_ domain.Role, f Filter) []domain.Itinerary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return apply(c.itineraries, f, func(it domain.Itinerary) bool {
		return containsFold(f.Search, append([]string{it.Title, it.Language}, it.Tags...)...) &&
			anyIn(f.Categories, it.Tags) &&
			anyIn(f.Types, it.Tags) &&
			(!f.hasDates() || slices.ContainsFunc(it.AvailableDates, f.dateOK))
	})
}

// Products returns the products visible to role that match f.
func (c *Catalog) Products(role domain.Role, f Filter) []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return apply(c.products, f, func(p domain.Product) bool {
		return visibleProduct(role, p) && containsFold(f.Search, p.Name, p.Seller)
	})
}

// MaxPrice returns the highest price in the resource collection, or 0 when
// it is empty.
func (c *Catalog) MaxPrice(r domain.Resource) (float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var items []domain.Item
	switch r {
	case domain.ResourceActivity:
		items = toItems(c.activities)
	case domain.ResourceItinerary:
		items = toItems(c.itineraries)
	case domain.ResourceProduct:
		items = toItems(c.products)
	default:
		return 0, fmt.Errorf("resource %q: %w", r, ErrNotFound)
	}

	var ceiling float64
	for _, it := range items {
		ceiling = max(ceiling, it.ItemPrice())
	}
	return ceiling, nil
}

// ToggleSaved flips whether id is saved and returns the new state.
func (c *Catalog) ToggleSaved(r domain.Resource, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.exists(r, id) {
		return false, fmt.Errorf("%s %q: %w", r, id, ErrNotFound)
	}
	set := c.saved[r]
	if set[id] {
		delete(set, id)
		return false, nil
	}
	set[id] = true
	return true, nil
}

// Saved returns the saved records of r in catalog order.
func (c *Catalog) Saved(r domain.Resource) ([]domain.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set, ok := c.saved[r]
	if !ok {
		return nil, fmt.Errorf("resource %q: %w", r, ErrNotFound)
	}

	var all []domain.Item
	switch r {
	case domain.ResourceActivity:
		all = toItems(c.activities)
	case domain.ResourceItinerary:
		all = toItems(c.itineraries)
	case domain.ResourceProduct:
		all = toItems(c.products)
	}

	out := make([]domain.Item, 0, len(set))
	for _, it := range all {
		if set[it.ItemID()] {
			out = append(out, it)
		}
	}
	return out, nil
}

// Currency returns the currency with the given id.
func (c *Catalog) Currency(id string) (domain.Currency, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cur, ok := c.currencies[id]
	if !ok {
		return domain.Currency{}, fmt.Errorf("currency %q: %w", id, ErrNotFound)
	}
	return cur, nil
}

// CurrencyByCode looks a currency up by its ISO code.
func (c *Catalog) CurrencyByCode(code string) (domain.Currency, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, cur := range c.currencies {
		if strings.EqualFold(cur.Code, code) {
			return cur, nil
		}
	}
	return domain.Currency{}, fmt.Errorf("currency %q: %w", code, ErrNotFound)
}

// Profile returns the signed-in user's profile.
func (c *Catalog) Profile() domain.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile
}

// SetProfileCurrency changes the preferred currency. An empty id clears it.
func (c *Catalog) SetProfileCurrency(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id != "" {
		if _, ok := c.currencies[id]; !ok {
			return fmt.Errorf("currency %q: %w", id, ErrNotFound)
		}
	}
	c.profile.CurrencyID = id
	return nil
}

// Counts returns the number of records per resource.
func (c *Catalog) Counts() map[domain.Resource]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return map[domain.Resource]int{
		domain.ResourceActivity:  len(c.activities),
		domain.ResourceItinerary: len(c.itineraries),
		domain.ResourceProduct:   len(c.products),
	}
}

func (c *Catalog) exists(r domain.Resource, id string) bool {
	switch r {
	case domain.ResourceActivity:
		return slices.ContainsFunc(c.activities, func(a domain.Activity) bool { return a.ID == id })
	case domain.ResourceItinerary:
		return slices.ContainsFunc(c.itineraries, func(i domain.Itinerary) bool { return i.ID == id })
	case domain.ResourceProduct:
		return slices.ContainsFunc(c.products, func(p domain.Product) bool { return p.ID == id })
	default:
		return false
	}
}

func toItems[T domain.Item](items []T) []domain.Item {
	out := make([]domain.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}
