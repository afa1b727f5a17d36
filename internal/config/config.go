// Package config loads the till configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "800ms" parse directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full till configuration.
type Config struct {
	// Endpoint is the remote ledger URL (reads and writes share it).
	Endpoint string `yaml:"endpoint"`

	// DBPath locates the SQLite queue database.
	DBPath string `yaml:"db_path"`

	// LegacyQueuePath, if set, names a v0 JSON queue file to import on
	// startup.
	LegacyQueuePath string `yaml:"legacy_queue_path"`

	// ProbeInterval is how often the connectivity monitor probes.
	ProbeInterval Duration `yaml:"probe_interval"`

	// RequestTimeout bounds one ledger request attempt.
	RequestTimeout Duration `yaml:"request_timeout"`

	// RetryBackoff is the fixed delay between transport retries.
	RetryBackoff Duration `yaml:"retry_backoff"`

	// MaxRetries is the number of additional transport attempts.
	MaxRetries int `yaml:"max_retries"`

	// Cooldown is the minimum gap between accepted checkouts.
	Cooldown Duration `yaml:"cooldown"`

	// GuardSafetyTimeout force-releases a stuck checkout.
	// Zero disables the forced release; negative values are rejected.
	GuardSafetyTimeout Duration `yaml:"guard_safety_timeout"`
}

// Default returns the configuration the till ships with. Everything except
// the endpoint has a sensible default.
func Default() Config {
	return Config{
		DBPath:             "tillsync.db",
		ProbeInterval:      Duration(30 * time.Second),
		RequestTimeout:     Duration(15 * time.Second),
		RetryBackoff:       Duration(800 * time.Millisecond),
		MaxRetries:         2,
		Cooldown:           Duration(1500 * time.Millisecond),
		GuardSafetyTimeout: Duration(15 * time.Second),
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the till cannot run with.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.ProbeInterval <= 0 {
		return fmt.Errorf("probe_interval must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.RetryBackoff <= 0 {
		return fmt.Errorf("retry_backoff must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if c.Cooldown <= 0 {
		return fmt.Errorf("cooldown must be positive")
	}
	if c.GuardSafetyTimeout < 0 {
		return fmt.Errorf("guard_safety_timeout must not be negative")
	}
	return nil
}
