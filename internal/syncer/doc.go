// Package syncer drains the durable queue through the ledger client.
//
// A drain is one attempt to flush everything currently queued. Drains are
// single-flight: connectivity flaps may request drains faster than they
// finish, and overlapping requests collapse into no-ops while one is
// active. Within a drain, entries are submitted sequentially in FIFO
// enqueue order; the ledger endpoint documents no concurrency contract and
// sequential delivery preserves best-effort write ordering.
//
// Entries appended while a drain is running are not part of its snapshot
// and are only attempted from the next drain on. A drain never removes an
// entry without a confirmed (success-or-duplicate) outcome for it.
package syncer
