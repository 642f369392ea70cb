package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/trip-market/internal/notify"
	"github.com/donaldgifford/trip-market/internal/saved"
)

var errTouristOnly = errors.New("only tourists can save items (use --role tourist)")

func savedCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "saved",
		Short: "Manage the tourist's saved items",
		Long: "List and toggle the activities, itineraries and products the\n" +
			"tourist has saved to their wishlist.",
	}

	root.AddCommand(
		savedListCmd(),
		savedToggleCmd(),
	)

	return root
}

func savedListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <resource>",
		Short: "List saved items of one resource",
		Example: `  tripctl saved list activities --role tourist --token $TOKEN
  tripctl saved list products --output json`,
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
			if !a.sess.Role.CanSave() {
				return errTouristOnly
			}

			entries, err := a.client.ListSaved(cmd.Context(), r)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(a.out, entries)
			}
			if len(entries) == 0 {
				_, err = fmt.Fprintf(a.out, "No saved %s.\n", r.Plural())
				return err
			}
			return printSavedTable(a.out, entries)
		},
	}
}

func savedToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <resource> <id>",
		Short: "Save an item, or remove it if already saved",
		Example: `  tripctl saved toggle activity act-001 --role tourist --token $TOKEN`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseResource(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if !a.sess.Role.CanSave() {
				return errTouristOnly
			}

			ctx := cmd.Context()
			tg := saved.NewFromClient(a.client, r,
				saved.WithNotifier(notify.NewNoOpNotifier(a.log)),
				saved.WithLogger(a.log),
			)
			if err := tg.Reconcile(ctx); err != nil {
				return err
			}

			id := args[1]
			isSaved, err := tg.Toggle(ctx, id)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(a.out, map[string]any{"id": id, "saved": isSaved})
			}
			verb := "Removed"
			if isSaved {
				verb = "Saved"
			}
			_, err = fmt.Fprintf(a.out, "%s %s %s.\n", verb, r, id)
			return err
		},
	}
}
