package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/warunglabs/tillsync/internal/tx"
)

// ImportLegacy migrates a v0 queue file into the store.
//
// The original till persisted the queue as a single JSON array under a fixed
// key in the platform key-value store. This reads that layout (either full
// queue entries or bare transaction records, which the oldest builds wrote),
// appends every entry, and deletes the file only after all appends succeed.
//
// A missing file is not an error; there is simply nothing to import.
// Returns the number of imported entries.
func (s *Store) ImportLegacy(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("import legacy queue: %w", err)
	}

	entries, err := decodeLegacy(data)
	if err != nil {
		return 0, fmt.Errorf("import legacy queue: %w", err)
	}

	for _, entry := range entries {
		if err := s.Append(ctx, entry); err != nil {
			return 0, fmt.Errorf("import legacy queue: %w", err)
		}
	}

	// Delete only after every entry is durable in SQLite. If the delete
	// itself fails, a re-import is harmless: Append is idempotent by id.
	if err := os.Remove(path); err != nil {
		return 0, fmt.Errorf("import legacy queue: remove %s: %w", path, err)
	}

	return len(entries), nil
}

// decodeLegacy parses the v0 JSON array, trying the queue-entry shape first
// and falling back to bare transaction records.
func decodeLegacy(data []byte) ([]tx.QueueEntry, error) {
	var entries []tx.QueueEntry
	if err := json.Unmarshal(data, &entries); err == nil && wellFormed(entries) {
		return entries, nil
	}

	var records []tx.TransactionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unrecognized legacy layout: %w", err)
	}

	entries = make([]tx.QueueEntry, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("legacy record missing id")
		}
		entries = append(entries, tx.QueueEntry{
			Record:     rec,
			EnqueuedAt: time.Now().UTC(),
		})
	}
	return entries, nil
}

// wellFormed reports whether every decoded entry carries a record id.
// An array of bare records also unmarshals into []QueueEntry (with empty
// inner records), so the id check disambiguates the two layouts.
func wellFormed(entries []tx.QueueEntry) bool {
	for _, e := range entries {
		if e.Record.ID == "" {
			return false
		}
	}
	return len(entries) > 0
}
