// Package query translates listing filter state into backend query strings.
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// DateLayout is the wire format for startDate and endDate.
const DateLayout = "2006-01-02"

// Query parameter names understood by the listing endpoints.
const (
	ParamSearch    = "searchBy"
	ParamMinPrice  = "minPrice"
	ParamMaxPrice  = "maxPrice"
	ParamSort      = "sort"
	ParamAsc       = "asc"
	ParamCategory  = "category"
	ParamTypes     = "types"
	ParamMinRating = "minRating"
	ParamStartDate = "startDate"
	ParamEndDate   = "endDate"
)

// Build returns the query parameters for f. Only fields that differ from
// their defaults are set; an omitted parameter means "no constraint".
// Non-finite numbers are dropped rather than rejected.
func Build(f domain.FilterState, maxPrice float64) url.Values {
	q := url.Values{}

	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		q.Set(ParamSearch, term)
	}

	if priceConstrained(f.Price, maxPrice) {
		q.Set(ParamMinPrice, formatFloat(f.Price.Lower))
		q.Set(ParamMaxPrice, formatFloat(f.Price.Upper))
	}

	if f.SortField != domain.SortNone {
		q.Set(ParamSort, string(f.SortField))
		dir := f.SortDirection
		if dir != domain.SortDesc {
			dir = domain.SortAsc
		}
		q.Set(ParamAsc, strconv.Itoa(int(dir)))
	}

	if cats := f.CategoryList(); len(cats) > 0 {
		q.Set(ParamCategory, strings.Join(cats, ","))
	}

	if types := f.TypeList(); len(types) > 0 {
		q.Set(ParamTypes, strings.Join(types, ","))
	}

	if finite(f.MinRating) && f.MinRating > 0 {
		q.Set(ParamMinRating, formatFloat(f.MinRating))
	}

	if f.Dates.Lower != nil {
		q.Set(ParamStartDate, f.Dates.Lower.Format(DateLayout))
	}
	if f.Dates.Upper != nil {
		q.Set(ParamEndDate, f.Dates.Upper.Format(DateLayout))
	}

	return q
}

// Encode is Build followed by url.Values.Encode.
func Encode(f domain.FilterState, maxPrice float64) string {
	return Build(f, maxPrice).Encode()
}

func priceConstrained(p domain.PriceRange, maxPrice float64) bool {
	if !finite(p.Lower) || !finite(p.Upper) {
		return false
	}
	return p.Lower != 0 || p.Upper != maxPrice
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
