package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/executor"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/liquidity"
)

type poolEntry struct {
	TOKEN_A      string `yaml:"TOKEN_A"`
	TOKEN_B      string `yaml:"TOKEN_B"`
	AMOUNT_A     string `yaml:"AMOUNT_A"`
	AMOUNT_B     string `yaml:"AMOUNT_B"`
	SLIPPAGE_BPS int64  `yaml:"SLIPPAGE_BPS"`
}

var seedPoolsCmd = &cobra.Command{
	Use:   "seed-pools <pools.yml>",
	Short: "Seed a batch of pools from a YAML file",
	Long: `Read a pool list and add liquidity to each in order, stopping at the
first failure. Entry format:

  - TOKEN_A: USDC
    TOKEN_B: WMON
    AMOUNT_A: "10000"
    AMOUNT_B: "1000"
    SLIPPAGE_BPS: 50`,
	Args: cobra.ExactArgs(1),
	RunE: runSeedPools,
}

func init() {
	rootCmd.AddCommand(seedPoolsCmd)
}

func runSeedPools(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(args[0])
	if err != nil {
		printError(err)
		return err
	}
	var entries []poolEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		printError(fmt.Errorf("parse pool list: %w", err))
		return err
	}
	if len(entries) == 0 {
		printInfo("Pool list is empty; nothing to do.")
		return nil
	}

	app, err := loadApp(ctx, configPath, true)
	if err != nil {
		printError(err)
		return err
	}

	reqs := make([]liquidity.Request, 0, len(entries))
	for i, e := range entries {
		tokenA, ok := app.CC.Tokens.BySymbol(e.TOKEN_A)
		if !ok {
			err := fmt.Errorf("entry %d: unknown token %s", i, e.TOKEN_A)
			printError(err)
			return err
		}
		tokenB, ok := app.CC.Tokens.BySymbol(e.TOKEN_B)
		if !ok {
			err := fmt.Errorf("entry %d: unknown token %s", i, e.TOKEN_B)
			printError(err)
			return err
		}
		reqs = append(reqs, liquidity.Request{
			TokenA:      tokenA,
			TokenB:      tokenB,
			AmountA:     e.AMOUNT_A,
			AmountB:     e.AMOUNT_B,
			SlippageBps: e.SLIPPAGE_BPS,
		})
	}

	execCfg := executor.DefaultConfig()
	execCfg.DeadlineSeconds = app.Cfg.DEADLINE_SECONDS
	tool, err := liquidity.NewTool(app.CC, app.Exec.Allowances(), execCfg)
	if err != nil {
		printError(err)
		return err
	}

	done, err := tool.AddBatch(ctx, reqs)
	for i, hash := range done {
		printInfo("  pool %d seeded: %s", i, hash.Hex())
	}
	if err != nil {
		printError(err)
		return err
	}
	printSuccess(fmt.Sprintf("Seeded %d pool(s).", len(done)))
	return nil
}
