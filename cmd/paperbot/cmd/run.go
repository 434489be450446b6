package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the price ingestion loop until interrupted",
	Long: `Poll the configured providers on an interval, ingesting the latest close
into the simulated account. Stop-loss and take-profit levels on open
positions fire on each ingested price; the auto-closes are logged.

The account lives for the lifetime of the process. Stop with Ctrl-C; the
final portfolio snapshot is printed on exit.`,
	RunE: runRun,
}

var (
	runPair     string
	runInterval string
	runEvery    time.Duration
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runPair, "pair", "p", "", "market symbol (defaults to PAIR from config)")
	runCmd.Flags().StringVarP(&runInterval, "interval", "i", "", "kline interval (defaults to INTERVAL from config)")
	runCmd.Flags().DurationVar(&runEvery, "every", 0, "poll interval (defaults to POLL_INTERVAL from config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	pair, interval := a.cfg.Pair, a.cfg.Interval
	if runPair != "" {
		pair = runPair
	}
	if runInterval != "" {
		interval = runInterval
	}
	every := a.cfg.PollInterval
	if runEvery > 0 {
		every = runEvery
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		a.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	a.logger.Info(ctx, "Starting price ingestion loop", map[string]interface{}{
		"pair":     pair,
		"interval": interval,
		"every":    every.String(),
	})

	poll := func() {
		result, err := a.belt.FetchOHLCV(ctx, pair, interval, 0)
		if err != nil {
			a.logger.Error(ctx, err, "Fetch failed", map[string]interface{}{"pair": pair})
			return
		}
		for _, pos := range result.AutoClosed {
			a.logger.Info(ctx, "Position auto-closed", map[string]interface{}{
				"positionID": pos.ID,
				"reason":     string(pos.CloseReason),
				"pnl":        *pos.PNL,
			})
		}
	}

	poll()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info(ctx, "Price ingestion loop stopped")
			return printJSON(a.belt.PortfolioState(ctx))
		case <-ticker.C:
			poll()
		}
	}
}
