package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warunglabs/tillsync/internal/till"
	"github.com/warunglabs/tillsync/internal/tx"
)

func TestRupiah_Grouping(t *testing.T) {
	cases := map[int64]string{
		0:        "Rp 0",
		500:      "Rp 500",
		5000:     "Rp 5.000",
		25000:    "Rp 25.000",
		1250000:  "Rp 1.250.000",
		10000000: "Rp 10.000.000",
	}
	for amount, want := range cases {
		assert.Equal(t, want, Rupiah(amount))
	}
}

func testResult(outcome till.Outcome, queueLen int) till.Result {
	return till.Result{
		Outcome: outcome,
		Record: tx.TransactionRecord{
			ID:            "TRX-receipt",
			CreatedAt:     time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			TotalAmount:   25000,
			PaymentMethod: tx.PaymentCash,
			LineItems: []tx.LineItem{
				{ProductName: "Ayam Geprek", Quantity: 1, UnitPrice: 20000},
				{ProductName: "Es Teh", Quantity: 1, UnitPrice: 5000},
			},
		},
		Change:   5000,
		QueueLen: queueLen,
	}
}

func TestReceipt_CashShowsChange(t *testing.T) {
	out := Receipt(testResult(till.OutcomeDelivered, 0), 30000)

	assert.Contains(t, out, "TRX-receipt")
	assert.Contains(t, out, "Rp 25.000")
	assert.Contains(t, out, "Rp 30.000")
	assert.Contains(t, out, "Rp 5.000")
	assert.Contains(t, out, "submitted to ledger")
}

func TestReceipt_QRISOmitsTender(t *testing.T) {
	r := testResult(till.OutcomeDelivered, 0)
	r.Record.PaymentMethod = tx.PaymentQRIS
	r.Change = 0

	out := Receipt(r, 0)

	assert.NotContains(t, out, "Tendered")
	assert.NotContains(t, out, "Change")
}

func TestReceipt_QueuedNeverSaysSubmitted(t *testing.T) {
	out := Receipt(testResult(till.OutcomeQueuedOffline, 3), 30000)

	assert.NotContains(t, out, "submitted")
	assert.Contains(t, out, "queued for later delivery (3 waiting)")
}

func TestReceipt_RejectedSurfacesFailure(t *testing.T) {
	out := Receipt(testResult(till.OutcomeFailed, 1), 30000)

	assert.Contains(t, out, "rejected by ledger")
	assert.NotContains(t, out, "submitted")
}
