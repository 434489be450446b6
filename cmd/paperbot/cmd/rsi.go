package cmd

import (
	"github.com/spf13/cobra"
)

var rsiCmd = &cobra.Command{
	Use:   "rsi",
	Short: "Fetch candles and summarize market conditions with RSI",
	Long: `Fetch recent candles and compute a Wilder-smoothed RSI over them,
reporting the latest value against the configured overbought and oversold
thresholds.`,
	RunE: runRSI,
}

var (
	rsiPair     string
	rsiInterval string
	rsiLimit    int
)

func init() {
	rootCmd.AddCommand(rsiCmd)

	rsiCmd.Flags().StringVarP(&rsiPair, "pair", "p", "", "market symbol (defaults to PAIR from config)")
	rsiCmd.Flags().StringVarP(&rsiInterval, "interval", "i", "", "kline interval (defaults to INTERVAL from config)")
	rsiCmd.Flags().IntVarP(&rsiLimit, "limit", "n", 0, "number of candles (raised to the indicator minimum)")
}

func runRSI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	pair, interval := a.cfg.Pair, a.cfg.Interval
	if rsiPair != "" {
		pair = rsiPair
	}
	if rsiInterval != "" {
		interval = rsiInterval
	}

	summary, err := a.belt.MarketSummary(ctx, pair, interval, rsiLimit)
	if err != nil {
		return err
	}
	return printJSON(summary)
}
