package cli

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/executor"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/liquidity"
)

var liquiditySlippageBps int64

var addLiquidityCmd = &cobra.Command{
	Use:   "add-liquidity <token-a> <token-b> <amount-a> <amount-b>",
	Short: "Seed a pool with both sides of a pair",
	Long: `Approve both tokens and call addLiquidity on the router. Use the
wrapped token for the native side.

Example:
  nexus add-liquidity USDC WMON 10000 1000`,
	Args: cobra.ExactArgs(4),
	RunE: runAddLiquidity,
}

func init() {
	addLiquidityCmd.Flags().Int64Var(&liquiditySlippageBps, "slippage-bps", 50, "Slippage tolerance in basis points")
	rootCmd.AddCommand(addLiquidityCmd)
}

func runAddLiquidity(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := loadApp(ctx, configPath, true)
	if err != nil {
		printError(err)
		return err
	}

	tokenA, ok := app.CC.Tokens.BySymbol(args[0])
	if !ok {
		err := fmt.Errorf("unknown token: %s", args[0])
		printError(err)
		return err
	}
	tokenB, ok := app.CC.Tokens.BySymbol(args[1])
	if !ok {
		err := fmt.Errorf("unknown token: %s", args[1])
		printError(err)
		return err
	}

	execCfg := executor.DefaultConfig()
	execCfg.DeadlineSeconds = app.Cfg.DEADLINE_SECONDS

	tool, err := liquidity.NewTool(app.CC, app.Exec.Allowances(), execCfg)
	if err != nil {
		printError(err)
		return err
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Seeding %s/%s...", tokenA.Symbol, tokenB.Symbol)
	s.Start()

	hash, err := tool.Add(ctx, liquidity.Request{
		TokenA:      tokenA,
		TokenB:      tokenB,
		AmountA:     args[2],
		AmountB:     args[3],
		SlippageBps: liquiditySlippageBps,
	})
	s.Stop()

	if err != nil {
		printError(err)
		return err
	}

	printSuccess(fmt.Sprintf("Liquidity added: tx %s", hash.Hex()))
	return nil
}
