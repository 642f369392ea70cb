// Package domain defines the core business types for the tourism marketplace
// client.
package domain

import (
	"strings"
	"time"
)

// BaseCurrency is the currency all exchange rates are expressed against.
const BaseCurrency = "USD"

// Resource names a listing collection on the backend.
type Resource string

// Resource constants.
const (
	ResourceActivity  Resource = "activity"
	ResourceItinerary Resource = "itinerary"
	ResourceProduct   Resource = "product"
)

// Resources lists every browsable resource.
var Resources = []Resource{ResourceActivity, ResourceItinerary, ResourceProduct}

// Plural returns the collection path segment, e.g. "activities".
func (r Resource) Plural() string {
	switch r {
	case ResourceActivity:
		return "activities"
	case ResourceItinerary:
		return "itineraries"
	case ResourceProduct:
		return "products"
	default:
		return string(r) + "s"
	}
}

// ParseResource accepts the singular or plural form of a resource name.
func ParseResource(s string) (Resource, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range Resources {
		if s == string(r) || s == r.Plural() {
			return r, true
		}
	}
	return "", false
}

// Item is the minimum every listing entry exposes to the listing page.
type Item interface {
	ItemID() string
	ItemName() string
	ItemPrice() float64
	ItemCurrency() string
	ItemRating() float64
}

// Activity is a bookable event hosted by an advertiser.
type Activity struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location,omitempty"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Rating      float64   `json:"rating"`
	BookingOpen bool      `json:"bookingOpen"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ItemID implements Item.
func (a Activity) ItemID() string { return a.ID }

// ItemName implements Item.
func (a Activity) ItemName() string { return a.Name }

// ItemPrice implements Item.
func (a Activity) ItemPrice() float64 { return a.Price }

// ItemCurrency implements Item.
func (a Activity) ItemCurrency() string { return currencyOrBase(a.Currency) }

// ItemRating implements Item.
func (a Activity) ItemRating() float64 { return a.Rating }

// ItemDescription returns the free-text description.
func (a Activity) ItemDescription() string { return a.Description }

// Itinerary is a guided multi-stop tour created by a tour guide.
type Itinerary struct {
	ID             string      `json:"_id"`
	Title          string      `json:"title"`
	Description    string      `json:"description,omitempty"`
	Language       string      `json:"language,omitempty"`
	Price          float64     `json:"price"`
	Currency       string      `json:"currency,omitempty"`
	AvailableDates []time.Time `json:"availableDates,omitempty"`
	Tags           []string    `json:"tags,omitempty"`
	Rating         float64     `json:"rating"`
	Accessibility  bool        `json:"accessibility"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// ItemID implements Item.
func (i Itinerary) ItemID() string { return i.ID }

// ItemName implements Item.
func (i Itinerary) ItemName() string { return i.Title }

// ItemPrice implements Item.
func (i Itinerary) ItemPrice() float64 { return i.Price }

// ItemCurrency implements Item.
func (i Itinerary) ItemCurrency() string { return currencyOrBase(i.Currency) }

// ItemRating implements Item.
func (i Itinerary) ItemRating() float64 { return i.Rating }

// ItemDescription returns the free-text description.
func (i Itinerary) ItemDescription() string { return i.Description }

// Review is a tourist's rating and comment on a product.
type Review struct {
	User    string  `json:"user"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment,omitempty"`
}

// Product is a storefront item sold by a seller.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency,omitempty"`
	Seller      string    `json:"seller,omitempty"`
	Quantity    int       `json:"quantity"`
	Rating      float64   `json:"rating"`
	Reviews     []Review  `json:"reviews,omitempty"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ItemID implements Item.
func (p Product) ItemID() string { return p.ID }

// ItemName implements Item.
func (p Product) ItemName() string { return p.Name }

// ItemPrice implements Item.
func (p Product) ItemPrice() float64 { return p.Price }

// ItemCurrency implements Item.
func (p Product) ItemCurrency() string { return currencyOrBase(p.Currency) }

// ItemRating implements Item.
func (p Product) ItemRating() float64 { return p.Rating }

// ItemDescription returns the free-text description.
func (p Product) ItemDescription() string { return p.Description }

// Currency is a display currency as returned by the getCurrency endpoint.
type Currency struct {
	ID     string `json:"_id"`
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// RateTable maps a currency code to its rate relative to BaseCurrency.
type RateTable map[string]float64

// Rate returns the rate for code and whether it is usable (present and
// positive).
func (t RateTable) Rate(code string) (float64, bool) {
	r, ok := t[strings.ToUpper(code)]
	if !ok || r <= 0 {
		return 0, false
	}
	return r, true
}

// Profile is the subset of the user profile the listing pages read.
type Profile struct {
	ID         string `json:"_id"`
	Username   string `json:"username"`
	CurrencyID string `json:"currency,omitempty"`
}

// UserPreference is the per-page view of who is browsing and how prices
// should be shown.
type UserPreference struct {
	Role              Role
	PreferredCurrency *Currency
}

// DisplayCurrency returns the preferred currency code, or BaseCurrency when
// the role does not convert prices or no preference is set.
func (p UserPreference) DisplayCurrency() string {
	if !p.Role.ConvertsPrices() || p.PreferredCurrency == nil || p.PreferredCurrency.Code == "" {
		return BaseCurrency
	}
	return strings.ToUpper(p.PreferredCurrency.Code)
}

func currencyOrBase(code string) string {
	if code == "" {
		return BaseCurrency
	}
	return strings.ToUpper(code)
}
