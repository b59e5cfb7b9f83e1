package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/balances"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/chain"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/config"
	v2 "github.com/Oussama2008x/kuru-nexus-swap/internal/dex/v2"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/executor"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/helpers"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/pricing"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/quote"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/router"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/telemetry"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/wrap"
)

// App wires the full stack for one CLI invocation: config, chain context,
// quote engine and executor. Everything is passed explicitly; there are no
// package-level singletons to reset between tests.
type App struct {
	Cfg      *config.Config
	CC       *chain.Context
	Detector *wrap.Detector
	Finder   *router.PathFinder
	Engine   *quote.Engine
	Exec     *executor.Executor
	Table    *pricing.Table
	Balances *balances.Poller
}

// loadApp assembles the application. requireKey demands a signing key for
// state-mutating commands; quoting works read-only.
func loadApp(ctx context.Context, configPath string, requireKey bool) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	if cfg.DEBUG {
		telemetry.EnableDebug(true)
	}

	tokens, err := cfg.TokenRegistry()
	if err != nil {
		return nil, err
	}
	dexCfg, err := cfg.DexConfig(tokens)
	if err != nil {
		return nil, err
	}
	dex := v2.NewRegistry(dexCfg)

	if requireKey && cfg.PRIVATE_KEY == "" {
		return nil, fmt.Errorf("PRIVATE_KEY is required for this command (config.yml or PRIVATE_KEY env)")
	}

	cc, err := chain.Dial(ctx, cfg.RPC_URL, dex, tokens, cfg.PRIVATE_KEY)
	if err != nil {
		return nil, err
	}
	if cfg.CHAIN_ID != 0 && cc.ChainID.Int64() != cfg.CHAIN_ID {
		return nil, fmt.Errorf("connected chain id %d does not match configured %d", cc.ChainID.Int64(), cfg.CHAIN_ID)
	}

	detector, err := wrap.NewDetector(dex.WMON())
	if err != nil {
		return nil, err
	}

	finder, err := router.NewPathFinder(cc.Client, dex)
	if err != nil {
		return nil, err
	}

	table := pricing.DefaultTable()

	// Quote priority chain: order book, then AMM quoter, then the static
	// table. Order is the contract; do not reorder casually.
	var sources []quote.Source
	if cfg.KURU_API_URL != "" {
		sources = append(sources, quote.NewKuruSource(quote.NewKuruClient(cfg.KURU_API_URL)))
	}
	amm, err := quote.NewAMMSource(cc.Client, dex)
	if err != nil {
		return nil, err
	}
	sources = append(sources, amm, quote.NewTableSource(table))

	engine := quote.NewEngine(detector, table, sources...)

	execCfg := executor.DefaultConfig()
	execCfg.GasBoostPercent = cfg.GAS_BOOST_PERCENT
	execCfg.DeadlineSeconds = cfg.DEADLINE_SECONDS
	if cfg.MAX_GAS_PRICE_GWEI != "" {
		maxGas, err := helpers.GweiToWei(cfg.MAX_GAS_PRICE_GWEI)
		if err != nil {
			return nil, fmt.Errorf("MAX_GAS_PRICE_GWEI: %w", err)
		}
		execCfg.MaxGasPrice = maxGas
	}

	exec, err := executor.NewExecutor(cc, detector, finder, execCfg)
	if err != nil {
		return nil, err
	}

	poller := balances.NewPoller(cc, exec.Allowances(), time.Duration(cfg.BALANCE_POLL_SECONDS)*time.Second)

	return &App{
		Cfg:      cfg,
		CC:       cc,
		Detector: detector,
		Finder:   finder,
		Engine:   engine,
		Exec:     exec,
		Table:    table,
		Balances: poller,
	}, nil
}
