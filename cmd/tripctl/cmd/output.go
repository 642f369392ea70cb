package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/donaldgifford/trip-market/internal/api/client"
	"github.com/donaldgifford/trip-market/internal/page"
	"github.com/donaldgifford/trip-market/internal/saved"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

// printView renders a listing page: rows, pager, notice and inline filter
// messages.
func printView(w io.Writer, v page.View) error {
	tw := newTabWriter(w)

	switch {
	case v.Loading:
		tw.writef("Loading %s...\n", v.Resource.Plural())
	case v.Error != "":
		tw.writef("Error: %s\n", v.Error)
	case v.Empty:
		tw.writef("%s.\n", v.Message)
	default:
		canSave := len(v.Rows) > 0 && v.Rows[0].CanSave
		if canSave {
			tw.writef("ID\tNAME\tPRICE\tRATING\tSAVED\n")
		} else {
			tw.writef("ID\tNAME\tPRICE\tRATING\n")
		}
		for i := range v.Rows {
			r := &v.Rows[i]
			if canSave {
				tw.writef("%s\t%s\t%s\t%.1f\t%s\n", r.ID, truncate(r.Name, 40), r.Price, r.Rating, saveMark(r.SaveState))
			} else {
				tw.writef("%s\t%s\t%s\t%.1f\n", r.ID, truncate(r.Name, 40), r.Price, r.Rating)
			}
		}
	}

	if !v.Loading && v.Error == "" {
		if v.Empty {
			tw.writef("%s\n", v.Pager)
		} else {
			tw.writef("%s (%d %s)\n", v.Pager, v.TotalItems, v.Resource.Plural())
		}
	}
	for _, field := range slices.Sorted(maps.Keys(v.FieldErrors)) {
		tw.writef("%s: %s\n", field, v.FieldErrors[field])
	}
	if v.Notice != "" {
		tw.writef("Notice: %s\n", v.Notice)
	}
	return tw.finish()
}

func saveMark(s saved.ItemState) string {
	switch s {
	case saved.Saved:
		return "yes"
	case saved.Pending:
		return "..."
	default:
		return "-"
	}
}

// listingJSON is the --output json shape of a listing page.
type listingJSON struct {
	Resource   domain.Resource `json:"resource"`
	Query      string          `json:"query"`
	Currency   string          `json:"currency"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	TotalItems int             `json:"total_items"`
	Items      []rowJSON       `json:"items"`
	Notice     string          `json:"notice,omitempty"`
}

type rowJSON struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       string  `json:"price"`
	Converted   bool    `json:"converted"`
	Rating      float64 `json:"rating"`
	Saved       *bool   `json:"saved,omitempty"`
}

func viewJSON(v page.View) listingJSON {
	out := listingJSON{
		Resource:   v.Resource,
		Query:      v.Query,
		Currency:   v.Currency,
		Page:       v.Page,
		TotalPages: v.TotalPages,
		TotalItems: v.TotalItems,
		Items:      make([]rowJSON, 0, len(v.Rows)),
		Notice:     v.Notice,
	}
	for _, r := range v.Rows {
		row := rowJSON{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Price:       r.Price,
			Converted:   r.Converted,
			Rating:      r.Rating,
		}
		if r.CanSave {
			isSaved := r.SaveState == saved.Saved
			row.Saved = &isSaved
		}
		out.Items = append(out.Items, row)
	}
	return out
}

func printSavedTable(w io.Writer, entries []client.SavedEntry) error {
	tw := newTabWriter(w)
	tw.writef("ID\tNAME\tPRICE\n")
	for _, e := range entries {
		tw.writef("%s\t%s\t%.2f\n", e.ID, truncate(e.Label(), 40), e.Price)
	}
	return tw.finish()
}

func printRatesTable(w io.Writer, table domain.RateTable) error {
	tw := newTabWriter(w)
	tw.writef("CODE\tRATE\n")
	for _, code := range slices.Sorted(maps.Keys(table)) {
		tw.writef("%s\t%g\n", code, table[code])
	}
	return tw.finish()
}

func printProfile(w io.Writer, p *domain.Profile, cur *domain.Currency) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", p.ID)
	tw.writef("Username:\t%s\n", p.Username)
	switch {
	case cur != nil:
		tw.writef("Currency:\t%s (%s)\n", cur.Code, cur.Symbol)
	case p.CurrencyID != "":
		tw.writef("Currency:\t%s\n", p.CurrencyID)
	default:
		tw.writef("Currency:\t%s (default)\n", domain.BaseCurrency)
	}
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
