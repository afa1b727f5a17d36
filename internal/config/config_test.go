package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tillsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "endpoint: https://ledger.example/exec\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://ledger.example/exec", cfg.Endpoint)
	assert.Equal(t, "tillsync.db", cfg.DBPath)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout.Std())
	assert.Equal(t, 800*time.Millisecond, cfg.RetryBackoff.Std())
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 1500*time.Millisecond, cfg.Cooldown.Std())
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
endpoint: https://ledger.example/exec
db_path: /var/lib/till/queue.db
legacy_queue_path: /var/lib/till/offline_queue.json
probe_interval: 10s
request_timeout: 5s
retry_backoff: 100ms
max_retries: 5
cooldown: 2s
guard_safety_timeout: 30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/till/queue.db", cfg.DBPath)
	assert.Equal(t, "/var/lib/till/offline_queue.json", cfg.LegacyQueuePath)
	assert.Equal(t, 10*time.Second, cfg.ProbeInterval.Std())
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout.Std())
	assert.Equal(t, 100*time.Millisecond, cfg.RetryBackoff.Std())
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Cooldown.Std())
	assert.Equal(t, 30*time.Second, cfg.GuardSafetyTimeout.Std())
}

func TestLoad_MissingEndpoint(t *testing.T) {
	path := writeConfig(t, "db_path: queue.db\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "endpoint is required")
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, "endpoint: https://x\nretry_backoff: fast\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "invalid duration")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_NegativeRetries(t *testing.T) {
	cfg := Default()
	cfg.Endpoint = "https://x"
	cfg.MaxRetries = -1

	assert.ErrorContains(t, cfg.Validate(), "max_retries")
}

// Zero disables the guard's forced release; negative is a config mistake.
func TestValidate_GuardSafetyTimeout(t *testing.T) {
	cfg := Default()
	cfg.Endpoint = "https://x"

	cfg.GuardSafetyTimeout = 0
	assert.NoError(t, cfg.Validate())

	cfg.GuardSafetyTimeout = Duration(-time.Second)
	assert.ErrorContains(t, cfg.Validate(), "guard_safety_timeout")
}
