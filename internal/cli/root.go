package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/telemetry"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Swap tokens on the Monad testnet via the Kuru order book and AMM pools",
	Long: `nexus is the command-line surface of the kuru-nexus swap core. It quotes a
token pair against the Kuru order book, the on-chain AMM quoter and a static
price table in strict priority order, and executes swaps, wraps and unwraps
against the router contract.

Examples:
  nexus quote 1000 USDC WMON
  nexus swap 1000 USDC WMON --slippage-bps 50
  nexus wrap 2.5
  nexus balances
  nexus add-liquidity USDC WMON 10000 1000`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "Path to config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			telemetry.EnableDebug(true)
		}
	}
}

func printError(err error) {
	color.Red("\nError: %v\n", err)
}

func printSuccess(message string) {
	color.Green("\n%s\n", message)
}

func printInfo(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}
