package cmd

import (
	"github.com/spf13/cobra"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show the account snapshot",
	Long: `Print the current account state: cash, equity, realized PnL and open
positions. Equity marks open positions to their pair's last observed price.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)
		return printJSON(a.belt.PortfolioState(ctx))
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show closed trades with win/loss statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)
		return printJSON(a.belt.TradeHistory(ctx, historyLimit))
	},
}

var exposureCmd = &cobra.Command{
	Use:   "exposure",
	Short: "Show total open notional alongside the account snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)
		return printJSON(a.belt.CurrentExposure(ctx))
	},
}

var qualityLimit int

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Show win rate and total PnL over recent closed trades",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)
		return printJSON(a.belt.StrategyQuality(ctx, qualityLimit))
	},
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exposureCmd)
	rootCmd.AddCommand(qualityCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "most recent trades to include (0 for all)")
	qualityCmd.Flags().IntVarP(&qualityLimit, "limit", "n", 0, "most recent trades to include (0 for all)")
}
