// Package guard serializes checkout submissions.
//
// The guard admits at most one submission at a time and imposes a cooldown
// between acquisitions, which absorbs double-taps on the pay button. An
// acquisition is scoped: the returned token's Release is safe to defer on
// every exit path, and a safety timer force-releases a token whose
// submission never returns, so a hung network call cannot wedge the till.
package guard

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Defaults for the guard policy.
const (
	// DefaultCooldown is the minimum gap between accepted submissions.
	DefaultCooldown = 1500 * time.Millisecond

	// DefaultSafetyTimeout force-releases an acquisition that was never
	// released, matching the longest possible ledger exchange.
	DefaultSafetyTimeout = 15 * time.Second
)

// ErrBusy is returned while a submission is already in flight.
var ErrBusy = errors.New("submission already in flight")

// CooldownError is returned when a submission arrives too soon after the
// previous one. Remaining says how long until the guard will admit again.
type CooldownError struct {
	Remaining time.Duration
}

// Error implements the error interface.
func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active, retry in %s", e.Remaining)
}

// IsCooldownError reports whether err is (or wraps) a CooldownError.
func IsCooldownError(err error) bool {
	var ce *CooldownError
	return errors.As(err, &ce)
}

// Clock supplies the current time. Injected so cooldown behavior is
// testable without sleeping.
type Clock func() time.Time

// Guard is the submission serializer. Safe for concurrent use.
type Guard struct {
	mu         sync.Mutex
	inFlight   bool
	lastSubmit time.Time
	gen        uint64 // acquisition generation, guards against stale releases

	cooldown time.Duration
	safety   time.Duration
	now      Clock
}

// Option configures a Guard.
type Option func(*Guard)

// WithCooldown overrides the cooldown window.
func WithCooldown(d time.Duration) Option {
	return func(g *Guard) { g.cooldown = d }
}

// WithSafetyTimeout overrides the forced-release timeout. Zero disables it.
func WithSafetyTimeout(d time.Duration) Option {
	return func(g *Guard) { g.safety = d }
}

// WithClock injects the time source.
func WithClock(now Clock) Option {
	return func(g *Guard) { g.now = now }
}

// New creates a Guard with the default policy.
func New(opts ...Option) *Guard {
	g := &Guard{
		cooldown: DefaultCooldown,
		safety:   DefaultSafetyTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TryAcquire attempts to admit a submission.
//
// Fails with ErrBusy while another submission is in flight, or with
// CooldownError within the cooldown window of the previous acquisition.
// On success the guard is held until the token is released or the safety
// timer fires, whichever comes first.
func (g *Guard) TryAcquire() (*Token, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight {
		return nil, ErrBusy
	}

	now := g.now()
	if !g.lastSubmit.IsZero() {
		if elapsed := now.Sub(g.lastSubmit); elapsed < g.cooldown {
			return nil, &CooldownError{Remaining: g.cooldown - elapsed}
		}
	}

	g.inFlight = true
	g.lastSubmit = now
	g.gen++

	tok := &Token{guard: g, gen: g.gen}
	if g.safety > 0 {
		gen := g.gen
		tok.safety = time.AfterFunc(g.safety, func() {
			g.release(gen)
		})
	}
	return tok, nil
}

// InFlight reports whether a submission currently holds the guard.
func (g *Guard) InFlight() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight
}

// release clears in-flight state if gen still names the live acquisition.
// A stale safety timer firing after a normal release (and possibly after a
// newer acquisition) must not release anyone else's token.
func (g *Guard) release(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gen == gen && g.inFlight {
		g.inFlight = false
	}
}

// Token is a scoped acquisition of the guard.
type Token struct {
	guard  *Guard
	gen    uint64
	safety *time.Timer
	once   sync.Once
}

// Release returns the guard. Idempotent; safe to defer alongside explicit
// release on error paths.
func (t *Token) Release() {
	t.once.Do(func() {
		if t.safety != nil {
			t.safety.Stop()
		}
		t.guard.release(t.gen)
	})
}
