// Package display renders amounts and checkout results for the operator.
//
// Amounts are integer rupiah formatted with id-ID digit grouping, matching
// what the till hardware prints.
package display

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/warunglabs/tillsync/internal/till"
	"github.com/warunglabs/tillsync/internal/tx"
)

var printer = message.NewPrinter(language.Indonesian)

// Rupiah formats an integer rupiah amount, e.g. 25000 -> "Rp 25.000".
func Rupiah(amount int64) string {
	return printer.Sprintf("Rp %d", amount)
}

// statusLine maps a checkout outcome to the operator-facing notice.
// Per the error-handling contract, a failure is never presented as success.
func statusLine(r till.Result) string {
	switch r.Outcome {
	case till.OutcomeDelivered:
		return "submitted to ledger"
	case till.OutcomeQueuedOffline:
		return fmt.Sprintf("queued for later delivery (%d waiting)", r.QueueLen)
	case till.OutcomeFailed:
		return fmt.Sprintf("rejected by ledger, queued for retry (%d waiting)", r.QueueLen)
	default:
		return r.Outcome.String()
	}
}

// Receipt renders the checkout result as the text block the till shows.
func Receipt(r till.Result, tendered int64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Transaction %s\n", r.Record.ID)
	fmt.Fprintf(&b, "%s  %s\n", r.Record.CreatedAt.Format("2006-01-02 15:04:05"), r.Record.PaymentMethod)
	b.WriteString("----------------------------------------\n")
	for _, li := range r.Record.LineItems {
		fmt.Fprintf(&b, "%-20s %2dx %12s\n", li.ProductName, li.Quantity, Rupiah(li.Subtotal()))
	}
	b.WriteString("----------------------------------------\n")
	fmt.Fprintf(&b, "%-24s %15s\n", "Total", Rupiah(r.Record.TotalAmount))
	if r.Record.PaymentMethod == tx.PaymentCash {
		fmt.Fprintf(&b, "%-24s %15s\n", "Tendered", Rupiah(tendered))
		fmt.Fprintf(&b, "%-24s %15s\n", "Change", Rupiah(r.Change))
	}
	fmt.Fprintf(&b, "Status: %s\n", statusLine(r))

	return b.String()
}
