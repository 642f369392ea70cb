package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/trip-market/internal/page"
	"github.com/donaldgifford/trip-market/internal/rates"
	"github.com/donaldgifford/trip-market/pkg/query"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

const browseHelp = `Commands:
  search <text>          filter by name (no text clears)
  min <price>            lower price bound
  max <price>            upper price bound
  from <YYYY-MM-DD|->    start date (- clears)
  to <YYYY-MM-DD|->      end date (- clears)
  cat <id>               toggle a category
  type <name>            toggle a type
  rating <n>             minimum rating, 0 to 5
  sort <price|rating|none> [asc|desc]
  clear                  reset all filters
  next, prev, page <n>   move between pages
  save <id>              save or unsave an item (tourists)
  dismiss                hide the current notice
  refresh                fetch again now
  show                   print the current page
  help                   this text
  quit                   leave
`

func browseCmd() *cobra.Command {
	var metricsAddr string

	c := &cobra.Command{
		Use:   "browse <resource>",
		Short: "Browse a listing interactively",
		Long: "Open a listing page and edit its filters line by line. Filter edits\n" +
			"are debounced like a search box; the page reprints when new results\n" +
			"arrive. Commands that act on the list wait for pending edits.",
		Example: `  tripctl browse activities
  tripctl browse products --role tourist --token $TOKEN
  tripctl browse itineraries --metrics-addr :9101`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseResource(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				_, stop, err := serveMetrics(metricsAddr, a.log)
				if err != nil {
					return err
				}
				defer stop()
			}

			ctx := cmd.Context()
			out := &renderer{w: a.out}
			p, err := openPage(ctx, a.env(out.render), r)
			if err != nil {
				return err
			}
			defer p.Close()

			var cache *rates.Cache
			if p.Preference().Role.ConvertsPrices() {
				cache = a.rates
				if a.cfg.RateRefresh > 0 {
					ref, err := rates.NewRefresher(a.rates, a.cfg.RateRefresh, a.log)
					if err != nil {
						return err
					}
					ref.Start()
					defer ref.Stop()
				}
			}

			s := &browser{page: p, out: out, rates: cache}
			if cache != nil {
				// The page opened with whatever the cache held.
				_, s.ratesAt = cache.Snapshot()
			}
			p.Refresh(ctx)
			out.printf("Type \"help\" for commands.\n")
			return s.run(ctx, cmd.InOrStdin())
		},
	}

	c.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve client metrics on this address while browsing")
	return c
}

// renderer prints page views, skipping loading states and repeats.
type renderer struct {
	mu   sync.Mutex
	w    io.Writer
	last string
}

func (r *renderer) render(v page.View) {
	if v.Loading {
		return
	}
	r.print(v, false)
}

func (r *renderer) print(v page.View, force bool) {
	var buf bytes.Buffer
	if err := printView(&buf, v); err != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s := buf.String()
	if !force && s == r.last {
		return
	}
	r.last = s
	_, _ = io.WriteString(r.w, s)
}

func (r *renderer) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.w, format, args...)
}

// browser runs the interactive loop over one page.
type browser struct {
	page  controller
	out   *renderer
	rates *rates.Cache

	ratesAt time.Time
}

var errQuit = errors.New("quit")

func (b *browser) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				b.page.Flush()
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			b.syncRates()
			err := b.exec(ctx, line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				b.out.printf("%v\n", err)
			}
		}
	}
}

// syncRates applies a rate table the refresher loaded since the last check.
func (b *browser) syncRates() {
	if b.rates == nil {
		return
	}
	table, at := b.rates.Snapshot()
	if table == nil || !at.After(b.ratesAt) {
		return
	}
	b.ratesAt = at
	b.page.SetRates(table)
}

func (b *browser) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	p := b.page

	switch name {
	case "search":
		p.SetSearch(strings.Join(args, " "))
	case "min", "max", "rating":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <number>", name)
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid number %q", args[0])
		}
		var msg string
		switch name {
		case "min":
			msg = p.SetMinPrice(v)
		case "max":
			msg = p.SetMaxPrice(v)
		default:
			msg = p.SetMinRating(v)
		}
		if msg != "" {
			b.out.printf("%s\n", msg)
		}
	case "from", "to":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <%s|->", name, query.DateLayout)
		}
		var day *time.Time
		if args[0] != "-" {
			t, err := time.Parse(query.DateLayout, args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q, want %s", args[0], query.DateLayout)
			}
			day = &t
		}
		var msg string
		if name == "from" {
			msg = p.SetStartDate(day)
		} else {
			msg = p.SetEndDate(day)
		}
		if msg != "" {
			b.out.printf("%s\n", msg)
		}
	case "cat", "type":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <value>", name)
		}
		if name == "cat" {
			p.ToggleCategory(args[0])
		} else {
			p.ToggleType(args[0])
		}
	case "sort":
		return b.sort(args)
	case "clear":
		p.ClearFilters()
	case "next", "prev", "page":
		p.Flush()
		switch name {
		case "next":
			p.Next()
		case "prev":
			p.Prev()
		default:
			if len(args) != 1 {
				return errors.New("usage: page <n>")
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid page %q", args[0])
			}
			p.GoTo(n)
		}
	case "save":
		if len(args) != 1 {
			return errors.New("usage: save <id>")
		}
		p.Flush()
		isSaved, err := p.ToggleSave(ctx, args[0])
		if err != nil {
			return err
		}
		if isSaved {
			b.out.printf("Saved %s.\n", args[0])
		} else {
			b.out.printf("Removed %s.\n", args[0])
		}
	case "dismiss":
		p.DismissNotice()
	case "refresh":
		p.Refresh(ctx)
	case "show":
		p.Flush()
		b.out.print(p.View(), true)
	case "help", "?":
		b.out.printf("%s", browseHelp)
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, try \"help\"", name)
	}
	return nil
}

func (b *browser) sort(args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errors.New("usage: sort <price|rating|none> [asc|desc]")
	}
	if strings.EqualFold(args[0], "none") {
		b.page.SetSort(domain.SortNone, domain.SortAsc)
		return nil
	}
	value := args[0]
	if len(args) == 2 {
		value += ":" + args[1]
	}
	field, dir, err := query.ParseSort(value)
	if err != nil {
		return err
	}
	b.page.SetSort(field, dir)
	return nil
}
