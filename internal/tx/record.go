package tx

import (
	"time"
)

// PaymentMethod identifies how the customer paid.
type PaymentMethod string

const (
	// PaymentCash is a cash payment; requires a tendered amount >= total.
	PaymentCash PaymentMethod = "Cash"
	// PaymentQRIS is a QRIS payment; the tendered amount is ignored.
	PaymentQRIS PaymentMethod = "QRIS"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentQRIS
}

// LineItem is one purchased product line.
// Quantity is always positive; UnitPrice is in integer rupiah.
type LineItem struct {
	ProductName string `json:"product_name" yaml:"product_name"`
	Quantity    int    `json:"quantity" yaml:"quantity"`
	UnitPrice   int64  `json:"unit_price" yaml:"unit_price"`
}

// Subtotal returns quantity x unit price for this line.
func (li LineItem) Subtotal() int64 {
	return int64(li.Quantity) * li.UnitPrice
}

// TransactionRecord is a completed sale as submitted to the remote ledger.
//
// INVARIANT: TotalAmount == sum of LineItems subtotals. This holds by
// construction (NewRecord) and is never re-checked downstream, so callers
// must treat records as immutable values.
type TransactionRecord struct {
	ID            string        `json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	TotalAmount   int64         `json:"total_amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	LineItems     []LineItem    `json:"line_items"`
}

// NewRecord assembles a TransactionRecord from validated checkout input.
//
// The id comes from gen, the timestamp from now (stored UTC), and the total
// is computed from the items. The items slice is copied so later mutation of
// the caller's cart cannot break the total invariant.
func NewRecord(gen Generator, now time.Time, method PaymentMethod, items []LineItem) TransactionRecord {
	copied := make([]LineItem, len(items))
	copy(copied, items)

	var total int64
	for _, li := range copied {
		total += li.Subtotal()
	}

	return TransactionRecord{
		ID:            gen.NewID(),
		CreatedAt:     now.UTC(),
		TotalAmount:   total,
		PaymentMethod: method,
		LineItems:     copied,
	}
}

// QueueEntry wraps a TransactionRecord while it waits for confirmed delivery.
//
// An entry is only ever removed from the queue after the ledger reports a
// success-or-duplicate outcome for its record. AttemptCount counts completed
// delivery attempts across drains; it is diagnostic, not a retry limit.
type QueueEntry struct {
	Record       TransactionRecord `json:"record"`
	EnqueuedAt   time.Time         `json:"enqueued_at"`
	AttemptCount int               `json:"attempt_count"`
}
