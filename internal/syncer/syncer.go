package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/warunglabs/tillsync/internal/ledger"
	"github.com/warunglabs/tillsync/internal/queue"
	"github.com/warunglabs/tillsync/internal/tx"
)

// Submitter delivers one record to the ledger.
// Implemented by *ledger.Client; tests substitute scripted fakes.
type Submitter interface {
	Submit(ctx context.Context, record tx.TransactionRecord) (ledger.Outcome, error)
}

// Report summarizes one drain.
type Report struct {
	// Skipped is true when another drain was already active and this
	// request collapsed into a no-op.
	Skipped bool

	// Attempted is the number of snapshot entries submitted.
	Attempted int

	// Delivered is how many entries the ledger confirmed (and were removed).
	Delivered int

	// Failed is how many entries stay queued for the next drain.
	Failed int
}

// Engine drains the queue. Safe for concurrent Drain calls; only one runs.
type Engine struct {
	store    *queue.Store
	client   Submitter
	logger   *slog.Logger
	draining atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates a drain engine over the given store and ledger client.
func New(store *queue.Store, client Submitter, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Draining reports whether a drain is currently active.
func (e *Engine) Draining() bool {
	return e.draining.Load()
}

// Drain flushes the current queue snapshot to the ledger.
//
// Per entry: Delivered (success or duplicate) marks it for removal; any
// failure leaves it queued with attempt_count incremented. Removal happens
// once, after the whole snapshot is processed. A drain that cannot even
// read the queue, or loses its context mid-pass, leaves the rest untouched
// for the next trigger.
func (e *Engine) Drain(ctx context.Context) (Report, error) {
	if !e.draining.CompareAndSwap(false, true) {
		return Report{Skipped: true}, nil
	}
	defer e.draining.Store(false)

	snapshot, err := e.store.Snapshot(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("drain: %w", err)
	}
	if len(snapshot) == 0 {
		return Report{}, nil
	}

	var report Report
	var delivered, failed []string

	for _, entry := range snapshot {
		if ctx.Err() != nil {
			break
		}

		report.Attempted++
		outcome, err := e.client.Submit(ctx, entry.Record)
		if outcome == ledger.Delivered {
			report.Delivered++
			delivered = append(delivered, entry.Record.ID)
			continue
		}

		report.Failed++
		failed = append(failed, entry.Record.ID)
		e.logger.Warn("drain delivery failed",
			"id", entry.Record.ID,
			"attempts_so_far", entry.AttemptCount,
			"err", err)
	}

	// Confirmed removals first: losing an attempt-count bump is cosmetic,
	// re-sending a confirmed entry is not (the ledger absorbs it as a
	// duplicate, but only while the remove keeps failing). The cleanup
	// writes are local and must land even if the drain's context was
	// cancelled mid-pass, otherwise confirmed entries get resent forever.
	cleanupCtx := context.WithoutCancel(ctx)
	var persistErr error
	if err := e.store.RemoveConfirmed(cleanupCtx, delivered); err != nil {
		persistErr = err
	}
	if err := e.store.BumpAttempts(cleanupCtx, failed); err != nil {
		persistErr = errors.Join(persistErr, err)
	}

	e.logger.Info("drain finished",
		"attempted", report.Attempted,
		"delivered", report.Delivered,
		"failed", report.Failed)

	if persistErr != nil {
		return report, fmt.Errorf("drain: %w", persistErr)
	}
	return report, nil
}
