package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/warunglabs/tillsync/internal/config"
	"github.com/warunglabs/tillsync/internal/guard"
	"github.com/warunglabs/tillsync/internal/ledger"
	"github.com/warunglabs/tillsync/internal/netmon"
	"github.com/warunglabs/tillsync/internal/queue"
	"github.com/warunglabs/tillsync/internal/syncer"
	"github.com/warunglabs/tillsync/internal/till"
)

// app wires the whole subsystem from one config file. Commands open it,
// use what they need, and close it.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *queue.Store
	client  *ledger.Client
	monitor *netmon.Monitor
	engine  *syncer.Engine
	till    *till.Till
}

// openApp builds the component graph. Any pending legacy queue file is
// imported before the first command touches the store.
func openApp(ctx context.Context, opts *RootOptions) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, err := queue.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	if cfg.LegacyQueuePath != "" {
		n, err := store.ImportLegacy(ctx, cfg.LegacyQueuePath)
		if err != nil {
			store.Close()
			return nil, err
		}
		if n > 0 {
			logger.Info("imported legacy queue", "entries", n, "path", cfg.LegacyQueuePath)
		}
	}

	client := ledger.New(cfg.Endpoint,
		ledger.WithTimeout(cfg.RequestTimeout.Std()),
		ledger.WithRetryPolicy(cfg.MaxRetries, cfg.RetryBackoff.Std()),
		ledger.WithLogger(logger),
	)
	monitor := netmon.New(netmon.WithLogger(logger))
	engine := syncer.New(store, client, syncer.WithLogger(logger))

	g := guard.New(
		guard.WithCooldown(cfg.Cooldown.Std()),
		guard.WithSafetyTimeout(cfg.GuardSafetyTimeout.Std()),
	)
	t := till.New(store, client, monitor,
		till.WithGuard(g),
		till.WithLogger(logger),
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		client:  client,
		monitor: monitor,
		engine:  engine,
		till:    t,
	}, nil
}

// probeOnce settles connectivity state before a checkout chooses between
// the direct and queued paths. Drain does not need it: the ledger client
// reports unreachability per entry and failed entries simply stay queued.
func (a *app) probeOnce(ctx context.Context) {
	probe := netmon.HTTPProbe(a.cfg.Endpoint, nil)
	a.monitor.SetOnline(probe(ctx))
}

// Close releases the store.
func (a *app) Close() error {
	return a.store.Close()
}
