// Package currency converts prices between currencies using a base-relative
// rate table and formats them for display.
package currency

import (
	"math"
	"strconv"
	"strings"

	xcurrency "golang.org/x/text/currency"

	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// symbols holds display symbols for the currencies the marketplace offers.
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"EGP": "E£",
	"JPY": "¥",
	"CNY": "¥",
	"INR": "₹",
	"CAD": "C$",
	"AUD": "A$",
	"SAR": "SAR ",
	"AED": "AED ",
	"CHF": "CHF ",
}

// Normalize upper-cases and trims a currency code, returning the canonical
// ISO 4217 form when the code is recognized.
func Normalize(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return ""
	}
	if u, err := xcurrency.ParseISO(c); err == nil {
		return u.String()
	}
	return c
}

// Symbol returns a best-effort display symbol for code. Unknown codes are
// rendered as the code followed by a space.
func Symbol(code string) string {
	c := Normalize(code)
	if s, ok := symbols[c]; ok {
		return s
	}
	if c == "" {
		return symbols[domain.BaseCurrency]
	}
	return c + " "
}

// Format renders amount with two decimals behind symbol.
func Format(amount float64, symbol string) string {
	if amount < 0 {
		return "-" + symbol + strconv.FormatFloat(-amount, 'f', 2, 64)
	}
	return symbol + strconv.FormatFloat(amount, 'f', 2, 64)
}

// ConvertAmount converts amount from one currency to another using
// amount * table[to] / table[from]. It reports false when either rate is
// missing or non-positive, or the result is not finite.
func ConvertAmount(amount float64, from, to string, table domain.RateTable) (float64, bool) {
	fromRate, ok := table.Rate(Normalize(from))
	if !ok {
		return amount, false
	}
	toRate, ok := table.Rate(Normalize(to))
	if !ok {
		return amount, false
	}
	v := amount * toRate / fromRate
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return amount, false
	}
	return v, true
}

// Convert converts amount and renders it with the target currency's symbol.
// When the conversion cannot be performed the unconverted amount is
// rendered with the source currency's symbol instead.
func Convert(amount float64, from, to string, table domain.RateTable) string {
	v, ok := ConvertAmount(amount, from, to, table)
	if !ok {
		return Format(amount, Symbol(from))
	}
	return Format(v, Symbol(to))
}

// Converter formats prices into one target currency. It is owned by the
// page that fetched the rate table; it holds no shared state.
type Converter struct {
	table  domain.RateTable
	target string
	symbol string
}

// NewConverter returns a Converter into target. A symbol supplied by the
// backend's currency record takes precedence over the built-in table.
func NewConverter(table domain.RateTable, target domain.Currency) Converter {
	code := Normalize(target.Code)
	if code == "" {
		code = domain.BaseCurrency
	}
	sym := target.Symbol
	if sym == "" {
		sym = Symbol(code)
	}
	return Converter{table: table, target: code, symbol: sym}
}

// Target returns the target currency code.
func (c Converter) Target() string {
	return c.target
}

// WithTable returns a copy of c that converts with table.
func (c Converter) WithTable(table domain.RateTable) Converter {
	c.table = table
	return c
}

// Format converts amount from the given currency and renders it. The bool
// is false when the fallback rendering was used.
func (c Converter) Format(amount float64, from string) (string, bool) {
	v, ok := ConvertAmount(amount, from, c.target, c.table)
	if !ok {
		if Normalize(from) == c.target || (from == "" && c.target == domain.BaseCurrency) {
			return Format(amount, c.symbol), true
		}
		return Format(amount, Symbol(from)), false
	}
	return Format(v, c.symbol), true
}
