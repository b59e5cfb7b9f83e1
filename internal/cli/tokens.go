package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/config"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/scanner"
)

var tokensVerify bool

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List the configured token registry",
	Long: `List tokens from config.yml. With --verify, probe each ERC-20 address
on chain and flag missing code or decimals mismatches.`,
	RunE: runTokens,
}

func init() {
	tokensCmd.Flags().BoolVar(&tokensVerify, "verify", false, "Check token addresses against the chain")
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Plain listing needs no chain connection; read the config directly.
	cfg, err := config.Load(configPath)
	if err != nil {
		printError(err)
		return err
	}
	tokens, err := cfg.TokenRegistry()
	if err != nil {
		printError(err)
		return err
	}

	fmt.Println()
	color.Cyan("Tokens (%d)", tokens.Len())
	for _, t := range tokens.All() {
		addr := t.Address.Hex()
		if t.IsNative() {
			addr = "native"
		}
		printInfo("  %-6s %-24s decimals=%-3d %s", t.Symbol, t.Name, t.Decimals, addr)
	}
	fmt.Println()

	if !tokensVerify {
		return nil
	}

	app, err := loadApp(ctx, configPath, false)
	if err != nil {
		printError(err)
		return err
	}
	sc, err := scanner.New(app.CC.Client)
	if err != nil {
		printError(err)
		return err
	}

	failed := 0
	for _, r := range sc.Verify(ctx, app.CC.Tokens) {
		if r.Pass {
			color.Green("  %-6s ok", r.Token.Symbol)
			continue
		}
		failed++
		for _, reason := range r.Reasons {
			color.Red("  %-6s %s", r.Token.Symbol, reason)
		}
	}
	fmt.Println()
	if failed > 0 {
		err := fmt.Errorf("%d token(s) failed verification", failed)
		printError(err)
		return err
	}
	printSuccess("All token addresses verified.")
	return nil
}
