// Package paginate slices in-memory result sets into fixed-size pages.
package paginate

import "fmt"

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 10

// NoPagesLabel is shown by the pager when there is nothing to page through.
const NoPagesLabel = "No pages available."

// Page is one page of a result set.
type Page[T any] struct {
	Items      []T
	Number     int // 1-based, always within [1, TotalPages]
	Size       int
	TotalPages int
	TotalItems int
}

// Slice returns page number of items. The page number is clamped into
// [1, TotalPages], so any input yields a valid page. Items are not copied.
func Slice[T any](items []T, pageSize, number int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := (len(items) + pageSize - 1) / pageSize
	total = max(total, 1)
	number = min(max(number, 1), total)

	start := min((number-1)*pageSize, len(items))
	end := min(start+pageSize, len(items))

	return Page[T]{
		Items:      items[start:end:end],
		Number:     number,
		Size:       pageSize,
		TotalPages: total,
		TotalItems: len(items),
	}
}

// Empty reports whether the underlying result set has no items.
func (p Page[T]) Empty() bool {
	return p.TotalItems == 0
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool {
	return p.Number > 1
}

// HasNext reports whether a next page exists.
func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

// Label renders the pager caption.
func (p Page[T]) Label() string {
	if p.Empty() {
		return NoPagesLabel
	}
	return fmt.Sprintf("Page %d of %d", p.Number, p.TotalPages)
}
