package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "paperbot",
	Short: "A paper-trading ledger and risk sizing tool for crypto markets",
	Long: `Paperbot simulates a trading account against live crypto market data.

It provides tools for:
  - Opening and closing paper positions with stop-loss and take-profit levels
  - Risk-based position sizing from a stop distance
  - Fetching OHLCV candles with provider failover and a local cache
  - RSI-based market condition summaries
  - A poll loop that ingests prices and fires stops automatically

Account state lives in memory for the lifetime of the process. One-shot
commands operate on a fresh account; use "paperbot run" for a session that
carries positions across price updates.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

// optFloat returns a pointer to the flag value only when the flag was set
// on the command line, so unset optional prices stay nil downstream.
func optFloat(cmd *cobra.Command, name string, value float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}
