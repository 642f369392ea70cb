package catalog

import (
	"cmp"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/donaldgifford/trip-market/pkg/query"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// Filter is the server-side view of a listing query.
type Filter struct {
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	Categories []string
	Types      []string
	MinRating  float64
	StartDate  *time.Time
	EndDate    *time.Time
	Sort       domain.SortField
	Desc       bool
}

// ParseFilter reads the listing query parameters. Unknown parameters are
// ignored; malformed values are errors.
func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{Search: strings.TrimSpace(q.Get(query.ParamSearch))}

	var err error
	if f.MinPrice, err = optFloat(q, query.ParamMinPrice); err != nil {
		return Filter{}, err
	}
	if f.MaxPrice, err = optFloat(q, query.ParamMaxPrice); err != nil {
		return Filter{}, err
	}

	if r, err := optFloat(q, query.ParamMinRating); err != nil {
		return Filter{}, err
	} else if r != nil {
		f.MinRating = *r
	}

	f.Categories = splitList(q.Get(query.ParamCategory))
	f.Types = splitList(q.Get(query.ParamTypes))

	if f.StartDate, err = optDate(q, query.ParamStartDate); err != nil {
		return Filter{}, err
	}
	if f.EndDate, err = optDate(q, query.ParamEndDate); err != nil {
		return Filter{}, err
	}

	if v := q.Get(query.ParamSort); v != "" {
		field, ok := domain.ParseSortField(v)
		if !ok {
			return Filter{}, fmt.Errorf("invalid %s %q", query.ParamSort, v)
		}
		f.Sort = field
	}
	switch q.Get(query.ParamAsc) {
	case "", "1":
	case "-1":
		f.Desc = true
	default:
		return Filter{}, fmt.Errorf("invalid %s %q", query.ParamAsc, q.Get(query.ParamAsc))
	}

	return f, nil
}

func optFloat(q url.Values, key string) (*float64, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, fmt.Errorf("invalid %s %q", key, v)
	}
	return &n, nil
}

func optDate(q url.Values, key string) (*time.Time, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(query.DateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, v)
	}
	return &t, nil
}

func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// priceOK applies the price and rating bounds shared by every resource.
func (f Filter) priceOK(item domain.Item) bool {
	if f.MinPrice != nil && item.ItemPrice() < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && item.ItemPrice() > *f.MaxPrice {
		return false
	}
	return item.ItemRating() >= f.MinRating
}

// dateOK reports whether t falls inside the date bounds. The end date is
// inclusive of the whole day.
func (f Filter) dateOK(t time.Time) bool {
	if f.StartDate != nil && t.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && !t.Before(f.EndDate.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func (f Filter) hasDates() bool {
	return f.StartDate != nil || f.EndDate != nil
}

func containsFold(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

func anyIn(want, have []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, h := range have {
		for _, w := range want {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// apply filters items with match and sorts the survivors.
func apply[T domain.Item](items []T, f Filter, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if f.priceOK(it) && match(it) {
			out = append(out, it)
		}
	}

	var key func(T) float64
	switch f.Sort {
	case domain.SortPrice:
		key = func(t T) float64 { return t.ItemPrice() }
	case domain.SortRating:
		key = func(t T) float64 { return t.ItemRating() }
	case domain.SortNone:
		return out
	}

	slices.SortStableFunc(out, func(a, b T) int {
		c := cmp.Compare(key(a), key(b))
		if f.Desc {
			c = -c
		}
		return c
	})
	return out
}
