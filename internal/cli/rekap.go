package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warunglabs/tillsync/internal/display"
)

// NewRekapCommand creates the rekap command: fetch the sales recap.
func NewRekapCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rekap",
		Short: "Fetch the confirmed-sales recap from the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			rows, err := app.client.Recap(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return printJSON(out, rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "no confirmed sales")
				return nil
			}
			var total int64
			for _, row := range rows {
				fmt.Fprintf(out, "%s  %s  %-5s %s\n",
					row.ID, row.CreatedAt, row.PaymentMethod, display.Rupiah(row.TotalAmount))
				total += row.TotalAmount
			}
			fmt.Fprintf(out, "total: %s across %d transactions\n", display.Rupiah(total), len(rows))
			return nil
		},
	}
}
