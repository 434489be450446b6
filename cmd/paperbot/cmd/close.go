package cmd

import (
	"github.com/spf13/cobra"
)

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Close a paper position by ID",
	Long: `Close an open position, realizing its profit or loss into cash. Closing
an already-closed position returns the original close unchanged.

Positions live in process memory, so this is useful inside a "run" session
or a script that keeps the process alive.`,
	RunE: runClose,
}

var (
	closeID    string
	closePrice float64
)

func init() {
	rootCmd.AddCommand(closeCmd)

	closeCmd.Flags().StringVar(&closeID, "id", "", "position ID (required)")
	closeCmd.Flags().Float64Var(&closePrice, "price", 0, "close price (defaults to the pair's last price)")
	closeCmd.MarkFlagRequired("id")
}

func runClose(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	pos, err := a.belt.ClosePosition(ctx, closeID, optFloat(cmd, "price", closePrice))
	if err != nil {
		return err
	}
	return printJSON(pos)
}
