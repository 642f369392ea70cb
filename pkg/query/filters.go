package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// ParseFilters parses CLI --filter flags into a FilterState whose price
// ceiling is maxPrice. Supported formats:
//
//	search=nile cruise
//	min_price=10
//	max_price=250.50
//	from=2024-06-01
//	to=2024-06-30
//	category=museum,beach
//	type=family
//	min_rating=4
//	sort=price        (ascending)
//	sort=rating:desc
//
// Price and date bounds are applied together after every flag is read,
// so flag order does not matter. Bounds that would have to be clamped are
// an error.
func ParseFilters(filters []string, maxPrice float64) (domain.FilterState, error) {
	f := domain.NewFilterState(maxPrice)
	var b bounds

	for _, raw := range filters {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			return f, fmt.Errorf("invalid filter format %q: expected key=value", raw)
		}
		key, value := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if err := applyFilter(&f, &b, key, value); err != nil {
			return f, err
		}
	}

	if err := b.apply(&f); err != nil {
		return f, err
	}
	return f, nil
}

// bounds holds the range flags until all flags are parsed.
type bounds struct {
	minPrice, maxPrice *float64
	from, to           *time.Time
}

func (b *bounds) apply(f *domain.FilterState) error {
	if b.minPrice != nil || b.maxPrice != nil {
		lower, upper := f.Price.Lower, f.Price.Upper
		if b.minPrice != nil {
			lower = *b.minPrice
		}
		if b.maxPrice != nil {
			upper = *b.maxPrice
		}
		if lower > upper {
			if b.maxPrice == nil {
				return fmt.Errorf("min_price %s exceeds the price ceiling %s, set max_price as well",
					formatFloat(lower), formatFloat(upper))
			}
			return fmt.Errorf("min_price %s exceeds max_price %s", formatFloat(lower), formatFloat(upper))
		}
		if msg := f.SetPriceRange(lower, upper); msg != "" {
			return fmt.Errorf("invalid price range: %s", msg)
		}
	}

	if b.from != nil || b.to != nil {
		if b.from != nil && b.to != nil && b.to.Before(*b.from) {
			return fmt.Errorf("to date %s is before from date %s",
				b.to.Format(DateLayout), b.from.Format(DateLayout))
		}
		f.SetDateRange(b.from, b.to)
	}
	return nil
}

// parsePrice reads a price flag. Prices must be finite and not negative.
func parsePrice(key, value string) (*float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if !finite(v) {
		return nil, fmt.Errorf("invalid %s %q: %s", key, value, domain.MsgPriceInvalid)
	}
	if v < 0 {
		return nil, fmt.Errorf("invalid %s %q: %s", key, value, domain.MsgPriceNegative)
	}
	return &v, nil
}

func applyFilter(f *domain.FilterState, b *bounds, key, value string) error {
	var err error
	switch key {
	case "search":
		f.SetSearch(value)
	case "min_price":
		b.minPrice, err = parsePrice(key, value)
	case "max_price":
		b.maxPrice, err = parsePrice(key, value)
	case "from":
		t, perr := time.Parse(DateLayout, value)
		if perr != nil {
			return fmt.Errorf("invalid from date %q: %w", value, perr)
		}
		b.from = &t
	case "to":
		t, perr := time.Parse(DateLayout, value)
		if perr != nil {
			return fmt.Errorf("invalid to date %q: %w", value, perr)
		}
		b.to = &t
	case "category":
		for _, c := range strings.Split(value, ",") {
			f.ToggleCategory(c)
		}
	case "type":
		for _, t := range strings.Split(value, ",") {
			f.ToggleType(t)
		}
	case "min_rating":
		v, perr := strconv.ParseFloat(value, 64)
		if perr != nil {
			return fmt.Errorf("invalid min_rating %q: %w", value, perr)
		}
		if msg := f.SetMinRating(v); msg != "" {
			return fmt.Errorf("invalid min_rating %q: %s", value, msg)
		}
	case "sort":
		field, dir, perr := ParseSort(value)
		if perr != nil {
			return perr
		}
		f.SetSort(field, dir)
	default:
		return fmt.Errorf("unknown filter key %q", key)
	}
	return err
}

// ParseSort parses "price", "price:asc", "rating:desc" or "-rating".
func ParseSort(value string) (domain.SortField, domain.SortDirection, error) {
	dir := domain.SortAsc
	name := value
	if strings.HasPrefix(name, "-") {
		dir = domain.SortDesc
		name = strings.TrimPrefix(name, "-")
	}
	if before, after, ok := strings.Cut(name, ":"); ok {
		name = before
		switch strings.ToLower(after) {
		case "asc":
			dir = domain.SortAsc
		case "desc":
			dir = domain.SortDesc
		default:
			return domain.SortNone, domain.SortAsc, fmt.Errorf("invalid sort direction %q", after)
		}
	}
	field, ok := domain.ParseSortField(name)
	if !ok {
		return domain.SortNone, domain.SortAsc, fmt.Errorf("invalid sort field %q: expected price or rating", name)
	}
	return field, dir, nil
}
