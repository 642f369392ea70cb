package catalog

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/trip-market/pkg/types"
)

var day0 = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func fixture() Seed {
	return Seed{
		Activities: []domain.Activity{
			{ID: "a1", Name: "Balloon Ride", Category: "adventure", Tags: []string{"outdoor"}, Price: 120, Rating: 4.8, BookingOpen: true, Date: day0},
			{ID: "a2", Name: "Food Crawl", Category: "food", Tags: []string{"walking"}, Price: 40, Rating: 4.6, BookingOpen: true, Date: day0.AddDate(0, 0, 2)},
			{ID: "a3", Name: "Museum Night", Category: "culture", Tags: []string{"indoor"}, Price: 60, Rating: 4.7, BookingOpen: false, Date: day0.AddDate(0, 0, 5)},
			{ID: "a4", Name: "Camel Trek", Category: "adventure", Tags: []string{"outdoor", "family"}, Price: 45, Rating: 3.6, BookingOpen: true, Date: day0.AddDate(0, 0, 9)},
		},
		Itineraries: []domain.Itinerary{
			{ID: "i1", Title: "Classic Cairo", Language: "English", Price: 300, Tags: []string{"history"}, Rating: 4.6, AvailableDates: []time.Time{day0.AddDate(0, 0, 4)}},
			{ID: "i2", Title: "Nile Cruise", Language: "English", Price: 850, Tags: []string{"water"}, Rating: 4.9, AvailableDates: []time.Time{day0.AddDate(0, 0, 20)}},
		},
		Products: []domain.Product{
			{ID: "p1", Name: "Papyrus Print", Seller: "Crafts", Price: 18, Rating: 4.4},
			{ID: "p2", Name: "Scarab Necklace", Seller: "Lights", Price: 22, Rating: 3.5, Archived: true},
			{ID: "p3", Name: "Alabaster Vase", Seller: "Crafts", Price: 65, Rating: 3.8},
		},
		Currencies: []domain.Currency{
			{ID: "cur-usd", Code: "USD", Symbol: "$"},
			{ID: "cur-eur", Code: "EUR", Symbol: "€"},
		},
		Profile: domain.Profile{ID: "u1", Username: "traveler", CurrencyID: "cur-eur"},
	}
}

func ids[T domain.Item](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ItemID())
	}
	return out
}

func mustFilter(t *testing.T, raw string) Filter {
	t.Helper()
	q, err := url.ParseQuery(raw)
	require.NoError(t, err)
	f, err := ParseFilter(q)
	require.NoError(t, err)
	return f
}

func TestCatalog_Activities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		role  domain.Role
		query string
		want  []string
	}{
		{name: "tourist hides closed bookings", role: domain.RoleTourist, want: []string{"a1", "a2", "a4"}},
		{name: "advertiser sees closed bookings", role: domain.RoleAdvertiser, want: []string{"a1", "a2", "a3", "a4"}},
		{name: "search by name", role: domain.RoleTourist, query: "searchBy=camel", want: []string{"a4"}},
		{name: "search by tag", role: domain.RoleTourist, query: "searchBy=WALK", want: []string{"a2"}},
		{name: "price range", role: domain.RoleTourist, query: "minPrice=40&maxPrice=60", want: []string{"a2", "a4"}},
		{name: "category", role: domain.RoleAdmin, query: "category=adventure,culture", want: []string{"a1", "a3", "a4"}},
		{name: "types", role: domain.RoleTourist, query: "types=family", want: []string{"a4"}},
		{name: "min rating", role: domain.RoleTourist, query: "minRating=4.5", want: []string{"a1", "a2"}},
		{name: "date range inclusive end", role: domain.RoleTourist, query: "startDate=2026-06-02&endDate=2026-06-03", want: []string{"a2"}},
		{name: "sort price ascending", role: domain.RoleTourist, query: "sort=price&asc=1", want: []string{"a2", "a4", "a1"}},
		{name: "sort rating descending", role: domain.RoleTourist, query: "sort=rating&asc=-1", want: []string{"a1", "a2", "a4"}},
		{name: "no matches", role: domain.RoleTourist, query: "searchBy=zzz", want: []string{}},
	}

	c := New(fixture())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := c.Activities(tt.role, mustFilter(t, tt.query))
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestCatalog_Itineraries(t *testing.T) {
	t.Parallel()

	c := New(fixture())

	assert.Equal(t, []string{"i1", "i2"}, ids(c.Itineraries(domain.RoleGuest, mustFilter(t, ""))))
	assert.Equal(t, []string{"i2"}, ids(c.Itineraries(domain.RoleGuest, mustFilter(t, "types=water"))))
	assert.Equal(t, []string{"i1"}, ids(c.Itineraries(domain.RoleGuest, mustFilter(t, "endDate=2026-06-10"))))
	assert.Equal(t, []string{"i2", "i1"}, ids(c.Itineraries(domain.RoleGuest, mustFilter(t, "sort=price&asc=-1"))))
}

func TestCatalog_Products(t *testing.T) {
	t.Parallel()

	c := New(fixture())

	assert.Equal(t, []string{"p1", "p3"}, ids(c.Products(domain.RoleTourist, mustFilter(t, ""))))
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(c.Products(domain.RoleSeller, mustFilter(t, ""))))
	assert.Equal(t, []string{"p1", "p3"}, ids(c.Products(domain.RoleGuest, mustFilter(t, "searchBy=crafts"))))
	assert.Equal(t, []string{"p3"}, ids(c.Products(domain.RoleGuest, mustFilter(t, "minPrice=20"))))
}

func TestParseFilter_Invalid(t *testing.T) {
	t.Parallel()

	tests := []string{
		"minPrice=abc",
		"maxPrice=NaN",
		"minRating=x",
		"startDate=06/01/2026",
		"endDate=tomorrow",
		"sort=name",
		"asc=0",
	}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			t.Parallel()
			q, err := url.ParseQuery(raw)
			require.NoError(t, err)
			_, err = ParseFilter(q)
			assert.Error(t, err)
		})
	}
}

func TestCatalog_MaxPrice(t *testing.T) {
	t.Parallel()

	c := New(fixture())

	got, err := c.MaxPrice(domain.ResourceActivity)
	require.NoError(t, err)
	assert.InDelta(t, 120.0, got, 0.001)

	got, err = c.MaxPrice(domain.ResourceItinerary)
	require.NoError(t, err)
	assert.InDelta(t, 850.0, got, 0.001)

	empty := New(Seed{})
	got, err = empty.MaxPrice(domain.ResourceProduct)
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = c.MaxPrice("hotel")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_ToggleSaved(t *testing.T) {
	t.Parallel()

	c := New(fixture())

	saved, err := c.ToggleSaved(domain.ResourceActivity, "a2")
	require.NoError(t, err)
	assert.True(t, saved)

	_, err = c.ToggleSaved(domain.ResourceActivity, "a1")
	require.NoError(t, err)

	items, err := c.Saved(domain.ResourceActivity)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, ids(items))

	saved, err = c.ToggleSaved(domain.ResourceActivity, "a2")
	require.NoError(t, err)
	assert.False(t, saved)

	items, err = c.Saved(domain.ResourceActivity)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, ids(items))

	_, err = c.ToggleSaved(domain.ResourceActivity, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.ToggleSaved(domain.ResourceProduct, "a1")
	assert.ErrorIs(t, err, ErrNotFound, "ids are scoped per resource")
}

func TestCatalog_Currencies(t *testing.T) {
	t.Parallel()

	c := New(fixture())

	cur, err := c.Currency("cur-eur")
	require.NoError(t, err)
	assert.Equal(t, "EUR", cur.Code)

	cur, err = c.CurrencyByCode("usd")
	require.NoError(t, err)
	assert.Equal(t, "cur-usd", cur.ID)

	_, err = c.Currency("cur-xxx")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.SetProfileCurrency("cur-usd"))
	assert.Equal(t, "cur-usd", c.Profile().CurrencyID)

	assert.ErrorIs(t, c.SetProfileCurrency("cur-xxx"), ErrNotFound)
	assert.Equal(t, "cur-usd", c.Profile().CurrencyID)

	require.NoError(t, c.SetProfileCurrency(""))
	assert.Empty(t, c.Profile().CurrencyID)
}

func TestLoadSeed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
activities:
  - id: a1
    name: Kayak
    price: 50
    rating: 4.1
    bookingopen: true
    date: 2026-06-01T00:00:00Z
currencies:
  - id: cur-egp
    code: EGP
    symbol: "E£"
profile:
  id: u1
  username: traveler
  currencyid: cur-egp
`), 0o600))

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, seed.Activities, 1)
	assert.Equal(t, "Kayak", seed.Activities[0].Name)
	assert.True(t, seed.Activities[0].BookingOpen)
	assert.Equal(t, day0, seed.Activities[0].Date)
	assert.Equal(t, "cur-egp", seed.Profile.CurrencyID)

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDemo(t *testing.T) {
	t.Parallel()

	c := New(Demo(day0))
	counts := c.Counts()
	for _, r := range domain.Resources {
		assert.Positive(t, counts[r], r)
	}

	cur, err := c.Currency(c.Profile().CurrencyID)
	require.NoError(t, err)
	assert.NotEmpty(t, cur.Code)

	upcoming := c.Activities(domain.RoleTourist, Filter{StartDate: &day0})
	assert.NotEmpty(t, upcoming)
}
