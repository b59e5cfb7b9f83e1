package cli

import (
	"fmt"
	"math/big"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/helpers"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/quote"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/units"
)

var bookProbeAmount string

var bookCmd = &cobra.Command{
	Use:   "book <token-in> <token-out>",
	Short: "Stream order-book updates for a market",
	Long: `Poll the Kuru order book for a market and print the ask side as it
moves. The probe amount sets the depth the estimate is taken at.

Example:
  nexus book USDC WMON --amount 1000`,
	Args: cobra.ExactArgs(2),
	RunE: runBook,
}

func init() {
	bookCmd.Flags().StringVar(&bookProbeAmount, "amount", "1", "Probe amount in token-in units")
	rootCmd.AddCommand(bookCmd)
}

func runBook(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := loadApp(ctx, configPath, false)
	if err != nil {
		printError(err)
		return err
	}
	if app.Cfg.KURU_API_URL == "" {
		err := fmt.Errorf("KURU_API_URL is not configured")
		printError(err)
		return err
	}

	tokenIn, ok := app.CC.Tokens.BySymbol(args[0])
	if !ok {
		err := fmt.Errorf("unknown token: %s", args[0])
		printError(err)
		return err
	}
	tokenOut, ok := app.CC.Tokens.BySymbol(args[1])
	if !ok {
		err := fmt.Errorf("unknown token: %s", args[1])
		printError(err)
		return err
	}

	probeBase, err := units.ToBaseUnits(bookProbeAmount, tokenIn.Decimals)
	if err != nil {
		printError(err)
		return err
	}

	client := quote.NewKuruClient(app.Cfg.KURU_API_URL)
	sub := client.Subscribe(ctx, tokenIn.Address, tokenOut.Address, probeBase.String())
	defer sub.Close()

	color.Cyan("Streaming %s/%s book (Ctrl-C to stop)...", tokenIn.Symbol, tokenOut.Symbol)
	for update := range sub.Updates() {
		ask, ok := new(big.Int).SetString(update.BestAsk, 10)
		if !ok {
			continue
		}
		printInfo("%s  %s %s -> %s %s",
			update.Timestamp.Format("15:04:05"),
			bookProbeAmount, tokenIn.Symbol,
			helpers.FormatUnits(ask, tokenOut.Decimals), tokenOut.Symbol)
	}
	return nil
}
