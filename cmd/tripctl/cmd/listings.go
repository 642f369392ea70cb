package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/trip-market/pkg/query"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

func resourceCmd(r domain.Resource) *cobra.Command {
	root := &cobra.Command{
		Use:   r.Plural(),
		Short: fmt.Sprintf("Browse %s", r.Plural()),
	}

	root.AddCommand(
		listCmd(r),
		maxPriceCmd(r),
	)

	return root
}

func listCmd(r domain.Resource) *cobra.Command {
	var (
		filters []string
		pageNum int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", r.Plural()),
		Long: fmt.Sprintf("List %s visible to the current role, one page at a time.\n", r.Plural()) +
			"Tourists see prices in their preferred currency and which items they saved.",
		Example: fmt.Sprintf(`  tripctl %[1]s list
  tripctl %[1]s list --filter search=nile --filter max_price=200 --filter sort=price:desc
  tripctl %[1]s list --filter from=2024-06-01 --filter to=2024-06-30 --page 2
  tripctl %[1]s list --role tourist --token $TOKEN --output json`, r.Plural()),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			p, err := openPage(ctx, a.env(nil), r)
			if err != nil {
				return err
			}
			defer p.Close()

			fs, err := query.ParseFilters(filters, p.MaxPrice())
			if err != nil {
				return err
			}
			p.SetFilters(fs)

			v := p.Refresh(ctx)
			if v.Error != "" {
				return errors.New(v.Error)
			}
			if pageNum > 1 {
				p.GoTo(pageNum)
				v = p.View()
			}

			if jsonOutput() {
				return outputJSON(a.out, viewJSON(v))
			}
			return printView(a.out, v)
		},
	}

	cmd.Flags().StringArrayVar(&filters, "filter", nil,
		"filter as key=value (search, min_price, max_price, from, to, category, type, min_rating, sort)")
	cmd.Flags().IntVar(&pageNum, "page", 1, "page number to show")

	return cmd
}

func maxPriceCmd(r domain.Resource) *cobra.Command {
	return &cobra.Command{
		Use:   "max-price",
		Short: fmt.Sprintf("Show the highest %s price, the ceiling of the price filter", string(r)),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			v, err := a.client.MaxPrice(cmd.Context(), a.sess.Role, r)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(a.out, map[string]float64{"max_price": v})
			}
			_, err = fmt.Fprintf(a.out, "%.2f\n", v)
			return err
		},
	}
}
