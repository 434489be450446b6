package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cryptoPaperBot/internal/utils"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch OHLCV candles for a pair",
	Long: `Fetch recent candles from the configured providers, trying the primary
first and failing over on errors. The latest close is pushed into the
simulated account as the pair's last price.

Prints the fetch result as JSON, or writes the candles to a CSV file when
--out is given.`,
	RunE: runFetch,
}

var (
	fetchPair     string
	fetchInterval string
	fetchLimit    int
	fetchOut      string
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchPair, "pair", "p", "", "market symbol (defaults to PAIR from config)")
	fetchCmd.Flags().StringVarP(&fetchInterval, "interval", "i", "", "kline interval (defaults to INTERVAL from config)")
	fetchCmd.Flags().IntVarP(&fetchLimit, "limit", "n", 0, "number of candles (raised to the indicator minimum)")
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "write candles to this CSV file instead of printing JSON")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	pair, interval := a.cfg.Pair, a.cfg.Interval
	if fetchPair != "" {
		pair = fetchPair
	}
	if fetchInterval != "" {
		interval = fetchInterval
	}

	result, err := a.belt.FetchOHLCV(ctx, pair, interval, fetchLimit)
	if err != nil {
		return err
	}

	if fetchOut != "" {
		if err := utils.WriteKlinesToCSV(result.Klines, fetchOut); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		fmt.Printf("Wrote %d candles for %s (%s) to %s\n", len(result.Klines), pair, interval, fetchOut)
		return nil
	}
	return printJSON(result)
}
