package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/quote"
)

var quoteSlippageBps int64

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <token-in> <token-out>",
	Short: "Get a swap quote without executing",
	Long: `Quote a pair against the source chain (order book, AMM quoter, price table).
The wrap pair (MON/WMON) always quotes 1:1 with zero impact.

Examples:
  nexus quote 1000 USDC WMON
  nexus quote 2.5 MON WMON`,
	Args: cobra.ExactArgs(3),
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().Int64Var(&quoteSlippageBps, "slippage-bps", 50, "Slippage tolerance in basis points")
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := loadApp(ctx, configPath, false)
	if err != nil {
		printError(err)
		return err
	}

	req, err := buildQuoteRequest(app, args[0], args[1], args[2], quoteSlippageBps)
	if err != nil {
		printError(err)
		return err
	}

	q, err := app.Engine.Quote(ctx, req)
	if err != nil {
		printError(err)
		return err
	}

	printQuote(q)
	return nil
}

func buildQuoteRequest(app *App, amount, symIn, symOut string, slippageBps int64) (quote.Request, error) {
	tokenIn, ok := app.CC.Tokens.BySymbol(symIn)
	if !ok {
		return quote.Request{}, fmt.Errorf("unknown token: %s", symIn)
	}
	tokenOut, ok := app.CC.Tokens.BySymbol(symOut)
	if !ok {
		return quote.Request{}, fmt.Errorf("unknown token: %s", symOut)
	}
	return quote.Request{
		TokenIn:     tokenIn,
		TokenOut:    tokenOut,
		AmountIn:    amount,
		SlippageBps: slippageBps,
	}, nil
}

func printQuote(q *quote.Quote) {
	if q.IsZero() {
		color.Yellow("\nNo quote available for %s -> %s. Insufficient liquidity; add liquidity first.\n",
			q.TokenIn.Symbol, q.TokenOut.Symbol)
		return
	}

	routeSyms := make([]string, len(q.Route))
	for i, t := range q.Route {
		routeSyms[i] = t.Symbol
	}

	fmt.Println()
	color.Cyan("Quote (%s)", q.Source)
	printInfo("  In:        %s %s", q.InputAmount, q.TokenIn.Symbol)
	printInfo("  Out:       %s %s", q.OutputAmount, q.TokenOut.Symbol)
	printInfo("  Route:     %s", strings.Join(routeSyms, " -> "))
	printInfo("  Impact:    %s%%", q.PriceImpactPct.StringFixed(2))
	printInfo("  Market:    %s %s/%s", q.MarketPrice.StringFixed(8), q.TokenOut.Symbol, q.TokenIn.Symbol)
	printInfo("  Execution: %s %s/%s", q.ExecutionPrice.StringFixed(8), q.TokenOut.Symbol, q.TokenIn.Symbol)
	if !q.USDValue.IsZero() {
		printInfo("  Value:     ~$%s", q.USDValue.StringFixed(2))
	}
	fmt.Println()
}
