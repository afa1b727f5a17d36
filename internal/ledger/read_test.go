package ledger

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readServer(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := responses[r.URL.Query().Get("action")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMenu_BareArray(t *testing.T) {
	srv := readServer(t, map[string]string{
		"getMenu": `[{"product_id":"P1","product_name":"Kopi Susu","unit_price":10000}]`,
	})

	c := New(srv.URL, fastRetry())
	items, err := c.Menu(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Kopi Susu", items[0].ProductName)
	assert.Equal(t, int64(10000), items[0].UnitPrice)
}

func TestMenu_WrappedArray(t *testing.T) {
	srv := readServer(t, map[string]string{
		"getMenu": `{"status":"success","data":[{"product_id":"P1","product_name":"Roti","unit_price":5000},{"product_id":"P2","product_name":"Teh","unit_price":3000}]}`,
	})

	c := New(srv.URL, fastRetry())
	items, err := c.Menu(context.Background())

	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestMenu_UnrecognizedShapeIsEmpty(t *testing.T) {
	for name, body := range map[string]string{
		"object":       `{"status":"error","message":"nope"}`,
		"string":       `"hello"`,
		"wrapped-miss": `{"status":"success","data":{"not":"array"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := readServer(t, map[string]string{"getMenu": body})

			c := New(srv.URL, fastRetry())
			items, err := c.Menu(context.Background())

			require.NoError(t, err)
			assert.Empty(t, items)
		})
	}
}

func TestRecap_WrappedArray(t *testing.T) {
	srv := readServer(t, map[string]string{
		"getRekap": `{"status":"success","data":[{"id":"TRX-1","created_at":"2026-03-14T09:30:00Z","total_amount":25000,"payment_method":"Cash"}]}`,
	})

	c := New(srv.URL, fastRetry())
	rows, err := c.Recap(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "TRX-1", rows[0].ID)
	assert.Equal(t, int64(25000), rows[0].TotalAmount)
}

func TestReads_TransportFailureAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, WithRetryPolicy(1, 5*time.Millisecond))
	_, err := c.Menu(context.Background())

	require.Error(t, err)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 2, te.Attempts)
}

func TestNormalizeArray(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"bare":          {`[1,2]`, `[1,2]`},
		"wrapped":       {`{"status":"success","data":[1]}`, `[1]`},
		"wrong-status":  {`{"status":"error","data":[1]}`, `[]`},
		"not-json":      {`oops`, `[]`},
		"empty-wrapped": {`{"status":"success"}`, `[]`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, string(normalizeArray([]byte(tc.in))))
		})
	}
}
