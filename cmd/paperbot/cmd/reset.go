package cmd

import (
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the account to a fresh state",
	Long: `Discard all positions and history and restore the cash balance, either
to the configured initial balance or to --balance when given.`,
	RunE: runReset,
}

var resetBalance float64

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().Float64VarP(&resetBalance, "balance", "b", 0, "new initial balance (defaults to the current one)")
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	snapshot, err := a.belt.Reset(ctx, optFloat(cmd, "balance", resetBalance))
	if err != nil {
		return err
	}
	return printJSON(snapshot)
}
