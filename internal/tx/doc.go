// Package tx defines the transaction records the till produces and the
// checkout inputs it consumes.
//
// A TransactionRecord is built exactly once, at checkout completion, and is
// never mutated afterwards. The total is computed from the line items at
// construction time; downstream components (queue, ledger client, sync
// engine) trust it without re-validation.
//
// Record identifiers are client-generated and globally unique. They double as
// the idempotency key: the remote ledger deduplicates by id and answers
// "duplicate" for a resubmission, which the client treats as success.
package tx
