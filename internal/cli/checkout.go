package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/warunglabs/tillsync/internal/display"
	"github.com/warunglabs/tillsync/internal/tx"
)

// NewCheckoutCommand creates the checkout command: record one sale.
func NewCheckoutCommand(opts *RootOptions) *cobra.Command {
	var (
		cartPath string
		method   string
		tendered int64
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Record a completed sale and submit or queue it",
		Long: "Reads the cart from a YAML file, validates it, and submits the\n" +
			"transaction to the ledger. If the ledger is unreachable the\n" +
			"transaction is appended to the durable offline queue instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := loadCart(cartPath)
			if err != nil {
				return err
			}
			if method != "" {
				input.PaymentMethod = tx.PaymentMethod(method)
			}
			if tendered > 0 {
				input.Tendered = tendered
			}

			ctx := cmd.Context()
			app, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			app.probeOnce(ctx)

			result, err := app.till.Checkout(ctx, input)
			if err != nil && result.Outcome == 0 {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return printJSON(out, result)
			}
			fmt.Fprint(out, display.Receipt(result, input.Tendered))
			// A ledger rejection is reported after the receipt; the record
			// itself is safely queued.
			if err != nil {
				fmt.Fprintf(out, "warning: %v\n", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cartPath, "cart", "", "path to cart YAML file (required)")
	cmd.Flags().StringVar(&method, "method", "", "payment method override (Cash|QRIS)")
	cmd.Flags().Int64Var(&tendered, "tendered", 0, "tendered cash amount override")
	cmd.MarkFlagRequired("cart")

	return cmd
}

// loadCart reads a checkout input document.
func loadCart(path string) (tx.CheckoutInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tx.CheckoutInput{}, fmt.Errorf("load cart: %w", err)
	}
	var input tx.CheckoutInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return tx.CheckoutInput{}, fmt.Errorf("load cart %s: %w", path, err)
	}
	return input, nil
}
