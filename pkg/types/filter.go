package domain

import (
	"math"
	"slices"
	"strings"
	"time"
)

// SortField names the attribute listings are sorted by.
type SortField string

// Sort field constants. SortNone leaves ordering to the backend default.
const (
	SortNone   SortField = ""
	SortPrice  SortField = "price"
	SortRating SortField = "rating"
)

// ParseSortField accepts "price", "rating" or an empty string.
func ParseSortField(s string) (SortField, bool) {
	switch SortField(strings.ToLower(strings.TrimSpace(s))) {
	case SortNone:
		return SortNone, true
	case SortPrice:
		return SortPrice, true
	case SortRating:
		return SortRating, true
	default:
		return SortNone, false
	}
}

// SortDirection is 1 for ascending, -1 for descending.
type SortDirection int

// Sort direction constants.
const (
	SortAsc  SortDirection = 1
	SortDesc SortDirection = -1
)

// MaxRating is the top of the rating scale.
const MaxRating = 5.0

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Lower float64
	Upper float64
}

// DateRange is an inclusive date interval; nil bounds are open.
type DateRange struct {
	Lower *time.Time
	Upper *time.Time
}

// Inline validation messages reported when an edit had to be clamped.
const (
	MsgPriceClamped  = "minimum price cannot exceed maximum price"
	MsgPriceNegative = "price cannot be negative"
	MsgPriceInvalid  = "price must be a finite number"
	MsgDateClamped   = "end date cannot be before start date"
	MsgRatingRange   = "rating must be between 0 and 5"
)

// FilterState is the listing page's in-memory filter, sort and search state.
// It is mutated only through its setters, which keep both ranges ordered.
type FilterState struct {
	SearchTerm    string
	Price         PriceRange
	Dates         DateRange
	Categories    map[string]struct{}
	Types         map[string]struct{}
	MinRating     float64
	SortField     SortField
	SortDirection SortDirection
}

// NewFilterState returns the default state for a price ceiling of maxPrice.
func NewFilterState(maxPrice float64) FilterState {
	var f FilterState
	f.Reset(maxPrice)
	return f
}

// Reset restores every field to its default ("clear filters").
func (f *FilterState) Reset(maxPrice float64) {
	if math.IsNaN(maxPrice) || maxPrice < 0 {
		maxPrice = 0
	}
	*f = FilterState{
		Price:         PriceRange{Lower: 0, Upper: maxPrice},
		Categories:    map[string]struct{}{},
		Types:         map[string]struct{}{},
		SortDirection: SortAsc,
	}
}

// Clone returns a deep copy so a snapshot can be handed to a fetch.
func (f FilterState) Clone() FilterState {
	c := f
	c.Categories = cloneSet(f.Categories)
	c.Types = cloneSet(f.Types)
	if f.Dates.Lower != nil {
		t := *f.Dates.Lower
		c.Dates.Lower = &t
	}
	if f.Dates.Upper != nil {
		t := *f.Dates.Upper
		c.Dates.Upper = &t
	}
	return c
}

// SetSearch sets the free-text search term.
func (f *FilterState) SetSearch(term string) {
	f.SearchTerm = term
}

// SetPriceRange replaces both bounds. Reversed bounds are swapped and
// negative bounds are raised to zero. A non-finite bound leaves the range
// unchanged.
func (f *FilterState) SetPriceRange(lower, upper float64) string {
	if !finitePrice(lower) || !finitePrice(upper) {
		return MsgPriceInvalid
	}
	var msg string
	if lower < 0 || upper < 0 {
		msg = MsgPriceNegative
		lower, upper = math.Max(lower, 0), math.Max(upper, 0)
	}
	if lower > upper {
		lower, upper = upper, lower
	}
	f.Price = PriceRange{Lower: lower, Upper: upper}
	return msg
}

// SetMinPrice edits the lower bound, clamping it to the upper bound.
func (f *FilterState) SetMinPrice(v float64) string {
	if !finitePrice(v) {
		return MsgPriceInvalid
	}
	if v < 0 {
		f.Price.Lower = 0
		return MsgPriceNegative
	}
	if v > f.Price.Upper {
		f.Price.Lower = f.Price.Upper
		return MsgPriceClamped
	}
	f.Price.Lower = v
	return ""
}

// SetMaxPrice edits the upper bound, clamping it to the lower bound.
func (f *FilterState) SetMaxPrice(v float64) string {
	if !finitePrice(v) {
		return MsgPriceInvalid
	}
	if v < f.Price.Lower {
		f.Price.Upper = f.Price.Lower
		return MsgPriceClamped
	}
	f.Price.Upper = v
	return ""
}

// SetStartDate edits the lower date bound. A start after the end date is
// clamped to the end date.
func (f *FilterState) SetStartDate(t *time.Time) string {
	if t == nil {
		f.Dates.Lower = nil
		return ""
	}
	d := truncateDay(*t)
	if f.Dates.Upper != nil && d.After(*f.Dates.Upper) {
		u := *f.Dates.Upper
		f.Dates.Lower = &u
		return MsgDateClamped
	}
	f.Dates.Lower = &d
	return ""
}

// SetEndDate edits the upper date bound. An end before the start date is
// clamped to the start date.
func (f *FilterState) SetEndDate(t *time.Time) string {
	if t == nil {
		f.Dates.Upper = nil
		return ""
	}
	d := truncateDay(*t)
	if f.Dates.Lower != nil && d.Before(*f.Dates.Lower) {
		l := *f.Dates.Lower
		f.Dates.Upper = &l
		return MsgDateClamped
	}
	f.Dates.Upper = &d
	return ""
}

// SetDateRange replaces both date bounds, swapping reversed bounds.
func (f *FilterState) SetDateRange(lower, upper *time.Time) {
	f.Dates = DateRange{}
	if lower != nil {
		l := truncateDay(*lower)
		f.Dates.Lower = &l
	}
	if upper != nil {
		u := truncateDay(*upper)
		f.Dates.Upper = &u
	}
	if f.Dates.Lower != nil && f.Dates.Upper != nil && f.Dates.Upper.Before(*f.Dates.Lower) {
		f.Dates.Lower, f.Dates.Upper = f.Dates.Upper, f.Dates.Lower
	}
}

// ToggleCategory adds or removes a category ID from the selection.
func (f *FilterState) ToggleCategory(id string) {
	f.Categories = toggle(f.Categories, id)
}

// ToggleType adds or removes a type/tag from the selection.
func (f *FilterState) ToggleType(t string) {
	f.Types = toggle(f.Types, t)
}

// SetMinRating sets the minimum rating, clamped into [0, MaxRating].
func (f *FilterState) SetMinRating(r float64) string {
	switch {
	case math.IsNaN(r) || r < 0:
		f.MinRating = 0
		return MsgRatingRange
	case r > MaxRating:
		f.MinRating = MaxRating
		return MsgRatingRange
	default:
		f.MinRating = r
		return ""
	}
}

// SetSort sets the sort field and direction. Any direction other than
// SortDesc is treated as ascending.
func (f *FilterState) SetSort(field SortField, dir SortDirection) {
	if dir != SortDesc {
		dir = SortAsc
	}
	f.SortField = field
	f.SortDirection = dir
}

// CategoryList returns the selected category IDs in sorted order.
func (f FilterState) CategoryList() []string {
	return sortedKeys(f.Categories)
}

// TypeList returns the selected types in sorted order.
func (f FilterState) TypeList() []string {
	return sortedKeys(f.Types)
}

func finitePrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func toggle(set map[string]struct{}, key string) map[string]struct{} {
	key = strings.TrimSpace(key)
	if set == nil {
		set = map[string]struct{}{}
	}
	if key == "" {
		return set
	}
	if _, ok := set[key]; ok {
		delete(set, key)
	} else {
		set[key] = struct{}{}
	}
	return set
}

func cloneSet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for k := range set {
		out[k] = struct{}{}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
