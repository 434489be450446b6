package cmd

import (
	"github.com/spf13/cobra"

	"cryptoPaperBot/internal/sim"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a paper position",
	Long: `Open a simulated position on a fresh account. The notional is reserved
from cash and is subject to the per-trade equity cap.

When --entry is omitted, recent candles are fetched to establish the pair's
last price and the position enters at that price.`,
	RunE: runOpen,
}

var (
	openPair     string
	openSide     string
	openNotional float64
	openEntry    float64
	openStop     float64
	openTake     float64
)

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().StringVarP(&openPair, "pair", "p", "", "market symbol (defaults to PAIR from config)")
	openCmd.Flags().StringVarP(&openSide, "side", "s", "long", "position side: long or short")
	openCmd.Flags().Float64VarP(&openNotional, "notional", "n", 0, "quote-currency amount to commit (required)")
	openCmd.Flags().Float64Var(&openEntry, "entry", 0, "entry price (defaults to the pair's last price)")
	openCmd.Flags().Float64Var(&openStop, "stop", 0, "stop-loss price level")
	openCmd.Flags().Float64Var(&openTake, "take", 0, "take-profit price level")
	openCmd.MarkFlagRequired("notional")
}

func runOpen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	pair := a.cfg.Pair
	if openPair != "" {
		pair = openPair
	}

	entry := optFloat(cmd, "entry", openEntry)
	if entry == nil {
		if err := a.seedPrice(ctx, pair, nil); err != nil {
			return err
		}
	}

	pos, err := a.belt.PlaceOrder(ctx, sim.PlaceOrderRequest{
		Pair:       pair,
		Side:       openSide,
		Notional:   openNotional,
		EntryPrice: entry,
		StopLoss:   optFloat(cmd, "stop", openStop),
		TakeProfit: optFloat(cmd, "take", openTake),
	})
	if err != nil {
		return err
	}
	return printJSON(pos)
}
