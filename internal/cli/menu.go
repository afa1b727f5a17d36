package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warunglabs/tillsync/internal/display"
)

// NewMenuCommand creates the menu command: fetch the product menu.
func NewMenuCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Fetch the product menu from the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			items, err := app.client.Menu(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return printJSON(out, items)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "menu is empty")
				return nil
			}
			for _, item := range items {
				fmt.Fprintf(out, "%-24s %s\n", item.ProductName, display.Rupiah(item.UnitPrice))
			}
			return nil
		},
	}
}
