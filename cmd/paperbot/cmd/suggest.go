package cmd

import (
	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest a position size from a risk budget and stop level",
	Long: `Compute the notional for which a move from the pair's last price to the
stop-loss level loses the given percentage of equity.

When --price is omitted, recent candles are fetched to establish the last
price.`,
	RunE: runSuggest,
}

var (
	suggestPair  string
	suggestStop  float64
	suggestRisk  float64
	suggestPrice float64
)

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().StringVarP(&suggestPair, "pair", "p", "", "market symbol (defaults to PAIR from config)")
	suggestCmd.Flags().Float64Var(&suggestStop, "stop", 0, "stop-loss price level (required)")
	suggestCmd.Flags().Float64VarP(&suggestRisk, "risk", "r", 0, "percent of equity to risk (defaults to DEFAULT_RISK_PERCENT)")
	suggestCmd.Flags().Float64Var(&suggestPrice, "price", 0, "last price override (skips the fetch)")
	suggestCmd.MarkFlagRequired("stop")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	pair := a.cfg.Pair
	if suggestPair != "" {
		pair = suggestPair
	}

	if err := a.seedPrice(ctx, pair, optFloat(cmd, "price", suggestPrice)); err != nil {
		return err
	}

	suggestion, err := a.belt.SuggestNotional(ctx, suggestRisk, pair, suggestStop)
	if err != nil {
		return err
	}
	return printJSON(suggestion)
}
