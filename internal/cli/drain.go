package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDrainCommand creates the drain command: flush the offline queue once.
func NewDrainCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "drain",
		Short: "Attempt to deliver every queued transaction to the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := app.engine.Drain(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return printJSON(out, report)
			}
			printKV(out, [][2]string{
				{"attempted", fmt.Sprintf("%d", report.Attempted)},
				{"delivered", fmt.Sprintf("%d", report.Delivered)},
				{"failed", fmt.Sprintf("%d", report.Failed)},
			})
			return nil
		},
	}
}
