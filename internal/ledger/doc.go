// Package ledger implements the HTTP client for the remote ledger service.
//
// The ledger exposes one endpoint. Reads are GET <endpoint>?action=<name>
// returning either a bare JSON array or {status: "success", data: [...]};
// any other shape normalizes to an empty sequence. Writes are POST with a
// text/plain body carrying a JSON envelope
//
//	{"action": "submitTransaction", "transaction": {...}}
//
// (the plain-text content type is required by the remote script runtime,
// not because the body is non-JSON).
//
// Submit performs one delivery attempt: a request with a hard timeout,
// retried a bounded number of times on transport failure with a fixed
// backoff. Application-level rejections are never retried here; retrying
// across delivery attempts belongs to the sync engine's drain cycle. The
// two retry domains are deliberately separate.
//
// A "duplicate" response means the ledger already holds a record with this
// id. That is a confirmed delivery, not an error: the id is the idempotency
// key and a retried submission landing twice must not create a second sale.
package ledger
