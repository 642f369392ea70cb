package page

import (
	"html"
	"maps"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/donaldgifford/trip-market/internal/metrics"
	"github.com/donaldgifford/trip-market/internal/saved"
	"github.com/donaldgifford/trip-market/pkg/currency"
	"github.com/donaldgifford/trip-market/pkg/paginate"
	"github.com/donaldgifford/trip-market/pkg/query"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// EmptyMessage is shown when a fetch succeeds with no items.
const EmptyMessage = "No items found"

// descriptionLimit caps row descriptions, in runes.
const descriptionLimit = 160

// strict drops every tag from backend-supplied descriptions.
var strict = bluemonday.StrictPolicy()

// Row is one rendered listing entry.
type Row struct {
	ID          string
	Name        string
	Description string
	Price       string
	Converted   bool
	Rating      float64
	SaveState   saved.ItemState
	CanSave     bool
}

// View is everything needed to draw the page.
type View struct {
	Resource    domain.Resource
	Loading     bool
	Error       string
	Empty       bool
	Message     string
	Rows        []Row
	Pager       string
	Page        int
	TotalPages  int
	TotalItems  int
	HasPrev     bool
	HasNext     bool
	Notice      string
	Currency    string
	Query       string
	Filters     domain.FilterState
	FieldErrors map[string]string
}

// View renders the current state.
func (p *Page[T]) View() View {
	st := p.fetcher.State()

	p.mu.Lock()
	pg := paginate.Slice(st.Items, p.pageSize, p.pageNum)
	conv := p.converter
	v := View{
		Resource:    p.resource,
		Loading:     st.Loading,
		Error:       st.ErrMessage,
		Currency:    conv.Target(),
		Query:       query.Encode(p.filters, p.maxPrice),
		Filters:     p.filters.Clone(),
		FieldErrors: maps.Clone(p.fieldErrors),
	}
	p.mu.Unlock()

	if n, ok := p.notices.Current(); ok {
		v.Notice = n.Text
	}

	v.Page = pg.Number
	v.TotalPages = pg.TotalPages
	v.TotalItems = pg.TotalItems
	v.HasPrev = pg.HasPrev()
	v.HasNext = pg.HasNext()
	v.Pager = pg.Label()

	// Generation 0 means no fetch has started yet.
	if st.Generation > 0 && !st.Loading && !st.Failed() && pg.Empty() {
		v.Empty = true
		v.Message = EmptyMessage
	}

	v.Rows = make([]Row, 0, len(pg.Items))
	for _, item := range pg.Items {
		v.Rows = append(v.Rows, p.row(item, conv))
	}
	return v
}

func (p *Page[T]) row(item T, conv currency.Converter) Row {
	r := Row{
		ID:     item.ItemID(),
		Name:   item.ItemName(),
		Rating: item.ItemRating(),
	}
	if d, ok := any(item).(interface{ ItemDescription() string }); ok {
		r.Description = cleanDescription(d.ItemDescription())
	}

	if p.pref.Role.ConvertsPrices() {
		price, ok := conv.Format(item.ItemPrice(), item.ItemCurrency())
		if !ok {
			metrics.ConversionFallbacksTotal.Inc()
		}
		r.Price = price
		r.Converted = ok
	} else {
		r.Price = currency.Format(item.ItemPrice(), currency.Symbol(item.ItemCurrency()))
	}

	if p.toggler != nil {
		r.CanSave = true
		r.SaveState = p.toggler.State(r.ID)
	}
	return r
}

func cleanDescription(s string) string {
	s = strings.Join(strings.Fields(html.UnescapeString(strict.Sanitize(s))), " ")
	if runes := []rune(s); len(runes) > descriptionLimit {
		s = strings.TrimSpace(string(runes[:descriptionLimit-1])) + "…"
	}
	return s
}
