package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warunglabs/tillsync/internal/display"
)

// NewQueueCommand creates the queue command group: inspect the offline queue.
func NewQueueCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the durable offline queue",
	}
	cmd.AddCommand(newQueueListCommand(opts))
	cmd.AddCommand(newQueueLenCommand(opts))
	return cmd
}

func newQueueListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List queued transactions in delivery order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			entries, err := app.store.Snapshot(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return printJSON(out, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "queue is empty")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s  %s  %s  attempts=%d\n",
					e.Record.ID,
					e.EnqueuedAt.Format("2006-01-02 15:04:05"),
					e.Record.PaymentMethod,
					display.Rupiah(e.Record.TotalAmount),
					e.AttemptCount,
				)
			}
			return nil
		},
	}
}

func newQueueLenCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "len",
		Short: "Print the number of queued transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			n, err := app.store.Len(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return printJSON(out, map[string]int{"queue_len": n})
			}
			fmt.Fprintln(out, n)
			return nil
		},
	}
}
