package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// MenuItem is one sellable product from the remote menu sheet.
type MenuItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   int64  `json:"unit_price"`
}

// RecapRow is one confirmed transaction as reported by the recap read.
type RecapRow struct {
	ID            string `json:"id"`
	CreatedAt     string `json:"created_at"`
	TotalAmount   int64  `json:"total_amount"`
	PaymentMethod string `json:"payment_method"`
}

// Menu fetches the product menu (GET ?action=getMenu).
func (c *Client) Menu(ctx context.Context) ([]MenuItem, error) {
	raw, err := c.getAction(ctx, "getMenu")
	if err != nil {
		return nil, err
	}
	var items []MenuItem
	if err := json.Unmarshal(normalizeArray(raw), &items); err != nil {
		// Read paths are lenient: a shape we don't recognize is an empty
		// menu, not a failure.
		return []MenuItem{}, nil
	}
	return items, nil
}

// Recap fetches the transaction recap (GET ?action=getRekap).
func (c *Client) Recap(ctx context.Context) ([]RecapRow, error) {
	raw, err := c.getAction(ctx, "getRekap")
	if err != nil {
		return nil, err
	}
	var rows []RecapRow
	if err := json.Unmarshal(normalizeArray(raw), &rows); err != nil {
		return []RecapRow{}, nil
	}
	return rows, nil
}

// getAction issues a read with the same bounded transport retry as writes.
// Only the exchange itself can fail; body shape is the caller's problem.
func (c *Client) getAction(ctx context.Context, action string) ([]byte, error) {
	target := c.baseURL + "?action=" + url.QueryEscape(action)

	attempts := 0
	var lastErr error

	for attempts <= c.maxRetries {
		if attempts > 0 {
			if err := sleepCtx(ctx, c.backoff); err != nil {
				break
			}
		}
		attempts++

		raw, err := c.getOnce(ctx, target)
		if err != nil {
			lastErr = err
			c.logger.Debug("ledger read attempt failed",
				"action", action, "attempt", attempts, "err", err)
			continue
		}
		return raw, nil
	}

	if lastErr == nil {
		lastErr = ctx.Err()
	}
	return nil, &TransportError{Attempts: attempts, Err: lastErr}
}

// getOnce issues a single read request with the per-attempt timeout.
func (c *Client) getOnce(ctx context.Context, target string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return raw, nil
}

// normalizeArray extracts the payload array from a read response.
//
// Accepted shapes: a bare array, or {status: "success", data: [...]}.
// Anything else normalizes to an empty array.
func normalizeArray(raw []byte) json.RawMessage {
	empty := json.RawMessage("[]")

	var arr json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return empty
	}
	if len(arr) > 0 && arr[0] == '[' {
		return arr
	}

	var wrapped struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return empty
	}
	if wrapped.Status == statusSuccess && len(wrapped.Data) > 0 && wrapped.Data[0] == '[' {
		return wrapped.Data
	}
	return empty
}
