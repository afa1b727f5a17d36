package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/warunglabs/tillsync/internal/tx"
)

// Outcome classifies one delivery attempt.
type Outcome int

const (
	// Delivered means the ledger confirmed the record: it answered success,
	// or duplicate (it already holds a record with this id).
	Delivered Outcome = iota + 1

	// Failed means the record is not confirmed: transport attempts were
	// exhausted, or the ledger explicitly rejected it.
	Failed
)

// String returns the outcome name for logs.
func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Response status values the ledger returns on writes.
const (
	statusSuccess   = "success"
	statusDuplicate = "duplicate"
	statusError     = "error"
)

// actionSubmit is the write action name in the POST envelope.
const actionSubmit = "submitTransaction"

// Defaults for the delivery policy. One request may take up to
// DefaultTimeout; on transport failure the client retries up to
// DefaultMaxRetries more times, sleeping DefaultBackoff between attempts.
const (
	DefaultTimeout    = 15 * time.Second
	DefaultMaxRetries = 2
	DefaultBackoff    = 800 * time.Millisecond
)

// Client talks to the remote ledger endpoint.
//
// The zero value is not usable; construct with New. All methods are safe for
// concurrent use: the client holds no per-call state.
type Client struct {
	baseURL    string
	http       *http.Client
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient injects the underlying http.Client. Tests use this together
// with httptest servers.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetryPolicy sets the number of additional transport attempts and the
// fixed delay between attempts.
func WithRetryPolicy(maxRetries int, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.backoff = backoff
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a ledger client for the given endpoint URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		http:       &http.Client{},
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		backoff:    DefaultBackoff,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the POST body wrapper the remote script runtime expects.
type envelope struct {
	Action      string               `json:"action"`
	Transaction tx.TransactionRecord `json:"transaction"`
}

// writeResponse is the structured response for writes.
type writeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Submit delivers one transaction record to the ledger.
//
// Classification:
//   - success or duplicate response  -> (Delivered, nil)
//   - error response                 -> (Failed, *ApplicationError), no retry
//   - anything else (connection or timeout error, unparseable body,
//     unknown status)               -> transport failure, retried with fixed
//     backoff; when attempts are exhausted -> (Failed, *TransportError)
//
// Submit never enqueues; deciding what to do with a failed record belongs to
// the caller (direct checkout path or sync engine).
func (c *Client) Submit(ctx context.Context, record tx.TransactionRecord) (Outcome, error) {
	body, err := json.Marshal(envelope{Action: actionSubmit, Transaction: record})
	if err != nil {
		return Failed, fmt.Errorf("submit %s: marshal: %w", record.ID, err)
	}

	attempts := 0
	var lastErr error

	// Iterative bounded retry: initial attempt plus maxRetries, fixed delay.
	for attempts <= c.maxRetries {
		if attempts > 0 {
			if err := sleepCtx(ctx, c.backoff); err != nil {
				break
			}
		}
		attempts++

		resp, err := c.postOnce(ctx, body)
		if err != nil {
			lastErr = err
			c.logger.Debug("ledger submit attempt failed",
				"id", record.ID, "attempt", attempts, "err", err)
			continue
		}

		switch resp.Status {
		case statusSuccess, statusDuplicate:
			return Delivered, nil
		case statusError:
			// The ledger saw the record and said no. Retrying the same
			// request would get the same answer; leave it to the next drain.
			return Failed, &ApplicationError{Message: resp.Message}
		default:
			lastErr = fmt.Errorf("unexpected status %q", resp.Status)
		}
	}

	if lastErr == nil {
		lastErr = ctx.Err()
	}
	return Failed, &TransportError{Attempts: attempts, Err: lastErr}
}

// postOnce issues a single write request with the per-attempt timeout and
// parses the structured response. Any parse failure is a transport-level
// error so it participates in the retry loop.
func (c *Client) postOnce(ctx context.Context, body []byte) (*writeResponse, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	// The remote script runtime only accepts simple requests; a JSON content
	// type triggers a preflight it cannot answer.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp writeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("unparseable response: %w", err)
	}
	if resp.Status == "" {
		return nil, fmt.Errorf("response missing status")
	}
	return &resp, nil
}

// sleepCtx sleeps for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
