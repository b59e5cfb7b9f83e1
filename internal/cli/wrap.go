package cli

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/executor"
)

var wrapCmd = &cobra.Command{
	Use:   "wrap <amount>",
	Short: "Wrap native MON into WMON",
	Long: `Deposit native MON into the wrapped token contract. Always 1:1; no
router, no slippage, no price impact.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWrapDirection(cmd, args[0], "MON", "WMON")
	},
}

var unwrapCmd = &cobra.Command{
	Use:   "unwrap <amount>",
	Short: "Unwrap WMON back into native MON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWrapDirection(cmd, args[0], "WMON", "MON")
	},
}

func init() {
	rootCmd.AddCommand(wrapCmd)
	rootCmd.AddCommand(unwrapCmd)
}

func runWrapDirection(cmd *cobra.Command, amount, symIn, symOut string) error {
	ctx := cmd.Context()

	app, err := loadApp(ctx, configPath, true)
	if err != nil {
		printError(err)
		return err
	}

	tokenIn, ok := app.CC.Tokens.BySymbol(symIn)
	if !ok {
		err := fmt.Errorf("token %s is not configured", symIn)
		printError(err)
		return err
	}
	tokenOut, ok := app.CC.Tokens.BySymbol(symOut)
	if !ok {
		err := fmt.Errorf("token %s is not configured", symOut)
		printError(err)
		return err
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Converting %s %s to %s...", amount, symIn, symOut)
	s.Start()

	result, err := app.Exec.Execute(ctx, executor.SwapIntent{
		TokenIn:     tokenIn,
		TokenOut:    tokenOut,
		AmountIn:    amount,
		ExpectedOut: amount, // 1:1 by construction
		SlippageBps: 0,
	})
	s.Stop()

	if err != nil {
		color.Red("\n%s\n", executor.UserMessage(err))
		return err
	}

	printSuccess(fmt.Sprintf("%s confirmed: %s %s -> %s, tx %s",
		result.Operation, amount, symIn, symOut, result.TxHash.Hex()))
	return nil
}
