package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, endpoint string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	body := fmt.Sprintf(`endpoint: %q
db_path: %q
request_timeout: 2s
retry_backoff: 10ms
max_retries: 0
`, endpoint, filepath.Join(dir, "till.db"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func writeCart(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "cart.yaml")
	body := `items:
  - product_name: Es Teh
    quantity: 2
    unit_price: 5000
  - product_name: Nasi Goreng
    quantity: 1
    unit_price: 15000
payment_method: Cash
tendered: 30000
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCheckout_OnlineDelivered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success"}`)
	}))
	defer server.Close()

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "tillsync.yaml", server.URL)
	cartPath := writeCart(t, dir)

	out, err := runCommand(t, "checkout", "--config", cfgPath, "--cart", cartPath)
	require.NoError(t, err)
	assert.Contains(t, out, "submitted to ledger")
	assert.Contains(t, out, "Rp 25.000")

	out, err = runCommand(t, "queue", "len", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestCheckout_OfflineQueuedThenDrained(t *testing.T) {
	dir := t.TempDir()
	cartPath := writeCart(t, dir)

	// Nothing listens here; the probe and any submit attempt are refused.
	offlineCfg := writeConfig(t, dir, "offline.yaml", "http://127.0.0.1:1")

	out, err := runCommand(t, "checkout", "--config", offlineCfg, "--cart", cartPath)
	require.NoError(t, err)
	assert.Contains(t, out, "queued for later delivery")

	out, err = runCommand(t, "queue", "len", "--config", offlineCfg)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success"}`)
	}))
	defer server.Close()

	// Same database, reachable endpoint.
	onlineCfg := writeConfig(t, dir, "online.yaml", server.URL)

	out, err = runCommand(t, "drain", "--config", onlineCfg)
	require.NoError(t, err)
	assert.Contains(t, out, "delivered")

	out, err = runCommand(t, "queue", "len", "--config", onlineCfg)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestCheckout_InvalidCartRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success"}`)
	}))
	defer server.Close()

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "tillsync.yaml", server.URL)

	cartPath := filepath.Join(dir, "cart.yaml")
	require.NoError(t, os.WriteFile(cartPath, []byte("items: []\npayment_method: Cash\n"), 0o644))

	_, err := runCommand(t, "checkout", "--config", cfgPath, "--cart", cartPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMPTY_CART")

	out, err := runCommand(t, "queue", "len", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out, "rejected checkouts must not be queued")
}

func TestQueueList_Empty(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "tillsync.yaml", "http://127.0.0.1:1")

	out, err := runCommand(t, "queue", "list", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "queue is empty")
}
