package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/warunglabs/tillsync/internal/tx"
)

// Append persists an entry at the tail of the queue. The entry is durable
// before Append returns nil.
//
// Appending an id that is already queued is a no-op: the queue holds at most
// one entry per transaction id, matching the ledger's id-keyed idempotency.
//
// A persistence failure here can lose a sale irrecoverably, so errors always
// propagate to the caller; they are never logged and dropped.
func (s *Store) Append(ctx context.Context, entry tx.QueueEntry) error {
	recordJSON, err := json.Marshal(entry.Record)
	if err != nil {
		return fmt.Errorf("append %s: marshal record: %w", entry.Record.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO queue_entries (id, record, enqueued_at, attempt_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		entry.Record.ID,
		string(recordJSON),
		entry.EnqueuedAt.UTC().Format(time.RFC3339Nano),
		entry.AttemptCount,
	)
	if err != nil {
		return fmt.Errorf("append %s: %w", entry.Record.ID, err)
	}

	return nil
}

// Snapshot returns the current queue contents in FIFO enqueue order without
// mutating state.
func (s *Store) Snapshot(ctx context.Context) ([]tx.QueueEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT record, enqueued_at, attempt_count
		FROM queue_entries
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	defer rows.Close()

	var entries []tx.QueueEntry
	for rows.Next() {
		var (
			recordJSON string
			enqueuedAt string
			attempts   int
		)
		if err := rows.Scan(&recordJSON, &enqueuedAt, &attempts); err != nil {
			return nil, fmt.Errorf("snapshot: scan: %w", err)
		}

		var record tx.TransactionRecord
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return nil, fmt.Errorf("snapshot: decode record: %w", err)
		}

		at, err := time.Parse(time.RFC3339Nano, enqueuedAt)
		if err != nil {
			return nil, fmt.Errorf("snapshot: parse enqueued_at: %w", err)
		}

		entries = append(entries, tx.QueueEntry{
			Record:       record,
			EnqueuedAt:   at,
			AttemptCount: attempts,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	return entries, nil
}

// RemoveConfirmed atomically removes the entries with the given transaction
// ids. Only the named ids are touched: entries appended after the caller's
// snapshot was taken always survive.
func (s *Store) RemoveConfirmed(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		"DELETE FROM queue_entries WHERE id IN (%s)",
		placeholders(len(ids)),
	)

	if _, err := s.db.ExecContext(ctx, query, idArgs(ids)...); err != nil {
		return fmt.Errorf("remove confirmed: %w", err)
	}

	return nil
}

// BumpAttempts increments attempt_count for the entries with the given ids.
// Called by the sync engine after a delivery attempt fails.
func (s *Store) BumpAttempts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		"UPDATE queue_entries SET attempt_count = attempt_count + 1 WHERE id IN (%s)",
		placeholders(len(ids)),
	)

	if _, err := s.db.ExecContext(ctx, query, idArgs(ids)...); err != nil {
		return fmt.Errorf("bump attempts: %w", err)
	}

	return nil
}

// Len returns the number of queued entries, for outward display.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM queue_entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("queue len: %w", err)
	}
	return n, nil
}

// placeholders returns "?, ?, ..." with n slots.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// idArgs converts ids to the []any form ExecContext wants.
func idArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
