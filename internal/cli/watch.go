package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/warunglabs/tillsync/internal/netmon"
)

// NewWatchCommand creates the watch command: monitor connectivity and drain
// the queue automatically on every reconnect.
func NewWatchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the connectivity monitor and auto-drain on reconnect",
		Long: "Probes the ledger endpoint on an interval. Each offline-to-online\n" +
			"transition triggers a drain of the offline queue. Runs until\n" +
			"interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			app.monitor.OnTransition(func(online bool) {
				if !online {
					return
				}
				// Drain on its own goroutine so a slow ledger never stalls
				// the probe loop. Overlap is safe: drains are single-flight,
				// and shutdown cancels ctx so the pass winds down cleanly.
				go func() {
					if _, err := app.engine.Drain(ctx); err != nil {
						app.logger.Error("auto drain failed", "err", err)
					}
				}()
			})

			app.logger.Info("watching connectivity",
				"endpoint", app.cfg.Endpoint,
				"interval", app.cfg.ProbeInterval.Std())

			probe := netmon.HTTPProbe(app.cfg.Endpoint, nil)
			app.monitor.Watch(ctx, app.cfg.ProbeInterval.Std(), probe)
			return nil
		},
	}
}
