package cli

import (
	"fmt"
	"math/big"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/helpers"
)

var balancesWatch bool

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Show wallet balances for all configured tokens",
	Long: `Fetch native and ERC-20 balances for the configured wallet. With
--watch, refresh on the configured poll interval until interrupted.`,
	RunE: runBalances,
}

func init() {
	balancesCmd.Flags().BoolVarP(&balancesWatch, "watch", "w", false, "Keep refreshing until interrupted")
	rootCmd.AddCommand(balancesCmd)
}

func runBalances(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := loadApp(ctx, configPath, false)
	if err != nil {
		printError(err)
		return err
	}
	if !app.CC.CanSign() {
		err := fmt.Errorf("PRIVATE_KEY is required to derive the wallet address")
		printError(err)
		return err
	}

	snap, err := app.Balances.Fetch(ctx)
	if err != nil {
		printError(err)
		return err
	}
	printSnapshot(app, snap.Balances)

	if !balancesWatch {
		return nil
	}

	printInfo("Watching balances (Ctrl-C to stop)...")
	interval := time.Duration(app.Cfg.BALANCE_POLL_SECONDS) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap, err := app.Balances.Fetch(ctx)
			if err != nil {
				printError(err)
				continue
			}
			printSnapshot(app, snap.Balances)
		}
	}
}

func printSnapshot(app *App, balances map[string]*big.Int) {
	fmt.Println()
	color.Cyan("Wallet %s", helpers.FormatAddress(app.CC.WalletAddr))
	for _, t := range app.CC.Tokens.All() {
		bal, ok := balances[t.Symbol]
		if !ok {
			continue
		}
		line := fmt.Sprintf("  %-6s %s", t.Symbol, helpers.FormatUnits(bal, t.Decimals))
		amount := decimal.NewFromBigInt(bal, -int32(t.Decimals))
		if usd, ok := app.Table.ValueUSD(amount, t.Symbol); ok && !usd.IsZero() {
			line += fmt.Sprintf("  (~%s)", helpers.FormatUSD(usd))
		}
		printInfo("%s", line)
	}
	fmt.Println()
}
