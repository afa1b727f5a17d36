// Package queue provides the SQLite-backed durable store for transactions
// awaiting confirmed delivery to the remote ledger.
//
// The queue is an ordered log: entries are appended at the tail and drained
// in FIFO order by ascending seq. An entry leaves the queue only through
// RemoveConfirmed, after the ledger has acknowledged its record with a
// success-or-duplicate response.
//
// # Concurrency contract
//
// Append may race with a drain. RemoveConfirmed deletes exactly the ids it
// is given, inside one transaction, so an entry appended after a drain took
// its snapshot is never touched by that drain's removal. The effective
// contents after a concurrent drain are
//
//	final = (snapshot \ confirmed ids) ∪ (entries appended after snapshot)
//
// # Schema versioning
//
// The schema is tracked with PRAGMA user_version and migrated sequentially
// on Open. The original till kept the queue as one JSON array under a fixed
// key-value entry; that layout is supported as a one-shot legacy import
// (ImportLegacy), not as a live format.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - single connection: SQLite allows one writer at a time
package queue
