package cli

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/executor"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/telemetry"
)

var (
	swapSlippageBps int64
	swapYes         bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <token-in> <token-out>",
	Short: "Quote and execute a swap",
	Long: `Quote the pair, show the expected output, then execute. The route is
re-probed at execution time; the displayed quote is advisory.

Examples:
  nexus swap 1000 USDC WMON
  nexus swap 2.5 MON USDC --slippage-bps 100
  nexus swap 1000 USDC WMON --yes`,
	Args: cobra.ExactArgs(3),
	RunE: runSwap,
}

func init() {
	swapCmd.Flags().Int64Var(&swapSlippageBps, "slippage-bps", 50, "Slippage tolerance in basis points")
	swapCmd.Flags().BoolVarP(&swapYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(swapCmd)
}

func runSwap(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := loadApp(ctx, configPath, true)
	if err != nil {
		printError(err)
		return err
	}

	req, err := buildQuoteRequest(app, args[0], args[1], args[2], swapSlippageBps)
	if err != nil {
		printError(err)
		return err
	}

	q, err := app.Engine.Quote(ctx, req)
	if err != nil {
		printError(err)
		return err
	}
	if q.IsZero() {
		msg := fmt.Errorf("no route for %s -> %s", req.TokenIn.Symbol, req.TokenOut.Symbol)
		printError(msg)
		return msg
	}

	printQuote(q)

	if !swapYes {
		ok, err := confirm(fmt.Sprintf("Swap %s %s for ~%s %s?",
			q.InputAmount, q.TokenIn.Symbol, q.OutputAmount, q.TokenOut.Symbol))
		if err != nil {
			return err
		}
		if !ok {
			printInfo("Aborted.")
			return nil
		}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Submitting swap..."
	s.Start()

	result, err := app.Exec.Execute(ctx, executor.SwapIntent{
		TokenIn:     q.TokenIn,
		TokenOut:    q.TokenOut,
		AmountIn:    q.InputAmount,
		ExpectedOut: q.OutputAmount,
		SlippageBps: q.SlippageBps,
	})
	s.Stop()

	if err != nil {
		telemetry.Errorf("[cli] swap failed: %v", err)
		color.Red("\n%s\n", executor.UserMessage(err))
		return err
	}

	printSuccess(fmt.Sprintf("%s confirmed: %s", result.Operation, result.TxHash.Hex()))
	return nil
}

// confirm reads a y/N answer from stdin.
func confirm(prompt string) (bool, error) {
	color.Yellow("\n%s [y/N]: ", prompt)
	var answer string
	if _, err := fmt.Scanln(&answer); err != nil {
		// Empty line means decline.
		return false, nil
	}
	return answer == "y" || answer == "Y" || answer == "yes", nil
}
