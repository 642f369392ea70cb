package cmd

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/trip-market/internal/api/client"
	"github.com/donaldgifford/trip-market/pkg/currency"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

func ratesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Show the exchange-rate table",
		Long:  "Show exchange rates relative to " + domain.BaseCurrency + ", as used to convert tourist prices.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			table, err := a.rates.Table(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(a.out, table)
			}
			return printRatesTable(a.out, table)
		},
	}
}

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <amount> <from> <to>",
		Short: "Convert an amount between currencies using the server's rates",
		Example: `  tripctl convert 120 USD EUR
  tripctl convert 2500 egp gbp`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			table, err := a.rates.Table(cmd.Context())
			if err != nil {
				return err
			}

			from, to := currency.Normalize(args[1]), currency.Normalize(args[2])
			v, ok := currency.ConvertAmount(amount, from, to, table)
			if !ok {
				return fmt.Errorf("no exchange rate for %s to %s", from, to)
			}
			if jsonOutput() {
				return outputJSON(a.out, map[string]any{"amount": v, "currency": to})
			}
			_, err = fmt.Fprintln(a.out, currency.Convert(amount, from, to, table))
			return err
		},
	}
}

func profileCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "profile",
		Short: "Show the current user's profile and preferred currency",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			p, err := a.client.GetProfile(ctx, a.sess.Role)
			if err != nil {
				return err
			}

			var cur *domain.Currency
			if p.CurrencyID != "" {
				if cur, err = a.client.GetCurrency(ctx, a.sess.Role, p.CurrencyID); err != nil {
					a.log.Warn("currency lookup failed", "id", p.CurrencyID, "error", err)
				}
			}

			if jsonOutput() {
				return outputJSON(a.out, map[string]any{"profile": p, "currency": cur})
			}
			return printProfile(a.out, p, cur)
		},
	}

	root.AddCommand(setCurrencyCmd())

	return root
}

func setCurrencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-currency <code-or-id>",
		Short: "Set the preferred display currency",
		Long: "Set the preferred display currency by ISO code or currency ID.\n" +
			`Pass "" to clear it and show prices in ` + domain.BaseCurrency + ".",
		Example: `  tripctl profile set-currency EUR --role tourist --token $TOKEN
  tripctl profile set-currency ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			p, err := a.client.UpdateCurrency(cmd.Context(), a.sess.Role, args[0])
			if err != nil {
				if client.IsStatus(err, http.StatusUnprocessableEntity) {
					return fmt.Errorf("unknown currency %q", args[0])
				}
				return err
			}
			if jsonOutput() {
				return outputJSON(a.out, p)
			}
			return printProfile(a.out, p, nil)
		},
	}
}
