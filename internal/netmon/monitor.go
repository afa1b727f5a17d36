// Package netmon tracks whether the remote ledger is reachable.
//
// State comes from two sources: the platform may push connectivity signals
// via SetOnline, and Watch runs an HTTP probe loop against the ledger
// endpoint. Both funnel into the same transition logic, so flapping
// connectivity produces one event per actual state change and none for
// repeats. Subscribers fire on every transition; the drain hook the till
// registers reacts only to the offline-to-online edge.
package netmon

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// State is the current connectivity assessment.
type State int

const (
	// StateUnknown is the state before the first signal or probe.
	// Treated as offline: nothing is submitted until reachability is seen.
	StateUnknown State = iota

	// StateOnline means the ledger endpoint answered a recent probe or the
	// platform reported connectivity.
	StateOnline

	// StateOffline means the ledger is unreachable.
	StateOffline
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateOnline:
		return "online"
	case StateOffline:
		return "offline"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Prober reports whether the ledger endpoint is reachable right now.
type Prober func(ctx context.Context) bool

// HTTPProbe builds a Prober that issues a GET against the endpoint.
// Any HTTP response, including an error status, proves reachability;
// only a transport failure counts as offline.
func HTTPProbe(endpoint string, client *http.Client) Prober {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return func(ctx context.Context) bool {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return false
		}
		res, err := client.Do(req)
		if err != nil {
			return false
		}
		res.Body.Close()
		return true
	}
}

// Monitor holds connectivity state and notifies subscribers on change.
// Safe for concurrent use.
type Monitor struct {
	mu     sync.Mutex
	state  State
	subs   []func(online bool)
	logger *slog.Logger
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) { m.logger = l }
}

// New creates a Monitor in StateUnknown.
func New(opts ...Option) *Monitor {
	m := &Monitor{state: StateUnknown, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current connectivity state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Online reports whether the ledger is known reachable.
// Unknown counts as not online.
func (m *Monitor) Online() bool {
	return m.State() == StateOnline
}

// OnTransition registers fn to run on every state change, with the new
// online value. Callbacks run synchronously on the goroutine that observed
// the change; long work belongs in the callback's own goroutine.
func (m *Monitor) OnTransition(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// SetOnline records a connectivity observation. A repeat of the current
// state is a no-op; a change notifies all subscribers.
func (m *Monitor) SetOnline(online bool) {
	next := StateOffline
	if online {
		next = StateOnline
	}

	m.mu.Lock()
	if m.state == next {
		m.mu.Unlock()
		return
	}
	prev := m.state
	m.state = next
	subs := make([]func(bool), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	m.logger.Info("connectivity changed", "from", prev.String(), "to", next.String())
	for _, fn := range subs {
		fn(online)
	}
}

// Watch probes connectivity every interval until ctx is done.
// The first probe runs immediately so startup state settles fast.
func (m *Monitor) Watch(ctx context.Context, interval time.Duration, probe Prober) {
	m.SetOnline(probe(ctx))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SetOnline(probe(ctx))
		}
	}
}
