// Package till orchestrates one checkout: validation, guard acquisition,
// record construction, and the direct-online versus queued-offline paths.
//
// Policy on failure is always-queue: any submission that the ledger did not
// confirm, whether transport exhaustion or an explicit rejection, lands in
// the durable queue. The outcome distinguishes the two for the operator
// (queued-offline notice versus a surfaced failure), but no completed sale
// is ever dropped.
package till

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/warunglabs/tillsync/internal/guard"
	"github.com/warunglabs/tillsync/internal/ledger"
	"github.com/warunglabs/tillsync/internal/queue"
	"github.com/warunglabs/tillsync/internal/syncer"
	"github.com/warunglabs/tillsync/internal/tx"
)

// Outcome is the per-submission result shown to the operator.
type Outcome int

const (
	// OutcomeDelivered means the ledger confirmed the sale during checkout.
	OutcomeDelivered Outcome = iota + 1

	// OutcomeQueuedOffline means the sale is durably queued and will be
	// delivered by a later drain. The sale is safe, not lost.
	OutcomeQueuedOffline

	// OutcomeFailed means the ledger explicitly rejected the sale. The
	// record is still queued for the next drain, but the rejection is
	// surfaced rather than masked as a plain queue notice.
	OutcomeFailed
)

// String returns the outcome name for logs and text output.
func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeQueuedOffline:
		return "queued-offline"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is what the UI layer consumes after a checkout.
type Result struct {
	Outcome  Outcome
	Record   tx.TransactionRecord
	Change   int64
	QueueLen int
}

// Connectivity reports whether the ledger is currently reachable.
// Implemented by *netmon.Monitor.
type Connectivity interface {
	Online() bool
}

// Till runs checkouts. Safe for concurrent use; the guard serializes
// submissions to one in flight system-wide.
type Till struct {
	store   *queue.Store
	client  syncer.Submitter
	monitor Connectivity
	guard   *guard.Guard
	gen     tx.Generator
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Till.
type Option func(*Till)

// WithGuard replaces the default guard (tests tighten its timings).
func WithGuard(g *guard.Guard) Option {
	return func(t *Till) { t.guard = g }
}

// WithGenerator injects the transaction id generator.
func WithGenerator(gen tx.Generator) Option {
	return func(t *Till) { t.gen = gen }
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Till) { t.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Till) { t.logger = l }
}

// New creates a Till over the queue store, ledger client, and connectivity
// monitor.
func New(store *queue.Store, client syncer.Submitter, monitor Connectivity, opts ...Option) *Till {
	t := &Till{
		store:   store,
		client:  client,
		monitor: monitor,
		guard:   guard.New(),
		gen:     tx.UUIDv7Generator{},
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Checkout processes one completed sale.
//
// Validation failures, guard.ErrBusy, and guard.CooldownError return before
// anything touches the network or the queue. After the guard admits the
// attempt, exactly one of three things happens: the ledger confirms the
// record (Delivered), the record is durably queued (QueuedOffline), or the
// ledger rejected it and it is queued anyway (Failed, with the rejection
// returned alongside the result).
//
// A queue append failure is fatal to the operation and propagates: a sale
// that is neither confirmed nor durably queued must never look like one
// that is.
func (t *Till) Checkout(ctx context.Context, input tx.CheckoutInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, err
	}

	tok, err := t.guard.TryAcquire()
	if err != nil {
		return Result{}, err
	}
	defer tok.Release()

	record := tx.NewRecord(t.gen, t.now(), input.PaymentMethod, input.Items)
	result := Result{Record: record, Change: input.Change()}

	if !t.monitor.Online() {
		if err := t.enqueue(ctx, record); err != nil {
			return Result{}, err
		}
		t.logger.Info("checkout queued offline", "id", record.ID, "total", record.TotalAmount)
		result.Outcome = OutcomeQueuedOffline
		return t.withQueueLen(ctx, result), nil
	}

	outcome, subErr := t.client.Submit(ctx, record)
	if outcome == ledger.Delivered {
		t.logger.Info("checkout delivered", "id", record.ID, "total", record.TotalAmount)
		result.Outcome = OutcomeDelivered
		return t.withQueueLen(ctx, result), nil
	}

	// Not confirmed: queue it whatever the reason (always-queue policy).
	if err := t.enqueue(ctx, record); err != nil {
		return Result{}, fmt.Errorf("checkout %s failed and could not be queued: %w", record.ID, err)
	}

	if ledger.IsApplicationError(subErr) {
		t.logger.Warn("checkout rejected by ledger, queued for retry", "id", record.ID, "err", subErr)
		result.Outcome = OutcomeFailed
		return t.withQueueLen(ctx, result), subErr
	}

	t.logger.Warn("checkout unreachable, queued offline", "id", record.ID, "err", subErr)
	result.Outcome = OutcomeQueuedOffline
	return t.withQueueLen(ctx, result), nil
}

// QueueLen returns the number of undelivered transactions, for display.
func (t *Till) QueueLen(ctx context.Context) (int, error) {
	return t.store.Len(ctx)
}

// enqueue durably stores a completed sale. The write is local and must land
// even when the checkout's context died during the network exchange.
func (t *Till) enqueue(ctx context.Context, record tx.TransactionRecord) error {
	return t.store.Append(context.WithoutCancel(ctx), tx.QueueEntry{
		Record:     record,
		EnqueuedAt: t.now().UTC(),
	})
}

// withQueueLen decorates the result with the current queue depth.
// Best-effort: a failed count never turns a safe checkout into an error.
func (t *Till) withQueueLen(ctx context.Context, r Result) Result {
	if n, err := t.store.Len(ctx); err == nil {
		r.QueueLen = n
	}
	return r
}
