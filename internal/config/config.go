package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	v2 "github.com/Oussama2008x/kuru-nexus-swap/internal/dex/v2"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/helpers"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/token"

	"github.com/ethereum/go-ethereum/common"
)

type TokenEntry struct {
	SYMBOL   string `yaml:"SYMBOL"`
	NAME     string `yaml:"NAME"`
	ADDRESS  string `yaml:"ADDRESS"` // empty only for NATIVE_SYMBOL and WMON
	DECIMALS uint8  `yaml:"DECIMALS"`
}

type Config struct {
	RPC_URL  string `yaml:"RPC_URL"`
	CHAIN_ID int64  `yaml:"CHAIN_ID"`

	// secret kept in YAML or env, never logged
	PRIVATE_KEY string `yaml:"PRIVATE_KEY"`

	ROUTER_ADDRESS string `yaml:"ROUTER_ADDRESS"`
	QUOTER_ADDRESS string `yaml:"QUOTER_ADDRESS"`
	WMON_ADDRESS   string `yaml:"WMON_ADDRESS"`

	KURU_API_URL string `yaml:"KURU_API_URL"`

	// Only this symbol may carry an empty ADDRESS and resolve to the
	// native asset sentinel.
	NATIVE_SYMBOL string `yaml:"NATIVE_SYMBOL"`

	SLIPPAGE_BPS         int64  `yaml:"SLIPPAGE_BPS"`
	GAS_BOOST_PERCENT    int    `yaml:"GAS_BOOST_PERCENT"`
	MAX_GAS_PRICE_GWEI   string `yaml:"MAX_GAS_PRICE_GWEI"`
	DEADLINE_SECONDS     int64  `yaml:"DEADLINE_SECONDS"`
	BALANCE_POLL_SECONDS int    `yaml:"BALANCE_POLL_SECONDS"`

	TOKENS      []TokenEntry `yaml:"TOKENS"`
	BASE_TOKENS []string     `yaml:"BASE_TOKENS"` // symbols, tried in this order

	DEBUG bool `yaml:"DEBUG"`
}

const DefaultPath = "config.yml"

func Default() *Config {
	return &Config{
		RPC_URL:  "https://testnet-rpc.monad.xyz",
		CHAIN_ID: 10143,

		PRIVATE_KEY: "",

		ROUTER_ADDRESS: "",
		QUOTER_ADDRESS: "",
		WMON_ADDRESS:   "",

		KURU_API_URL: "https://api.testnet.kuru.io",

		NATIVE_SYMBOL: "MON",

		SLIPPAGE_BPS:         50, // 0.5%
		GAS_BOOST_PERCENT:    10,
		MAX_GAS_PRICE_GWEI:   "100",
		DEADLINE_SECONDS:     20 * 60,
		BALANCE_POLL_SECONDS: 10,

		TOKENS: []TokenEntry{
			{SYMBOL: "MON", NAME: "Monad", ADDRESS: "", DECIMALS: 18},
			{SYMBOL: "WMON", NAME: "Wrapped Monad", ADDRESS: "", DECIMALS: 18},
			{SYMBOL: "USDC", NAME: "USD Coin", ADDRESS: "0xf817257fed379853cDe0fa4F97AB987181B1E5Ea", DECIMALS: 6},
			{SYMBOL: "USDT", NAME: "Tether USD", ADDRESS: "0x88b8E2161DEDC77EF4ab7585569D2415a1C1055D", DECIMALS: 6},
		},
		BASE_TOKENS: []string{"WMON", "USDC"},

		DEBUG: false,
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RPC_URL"); v != "" {
		c.RPC_URL = v
	}
	if v := os.Getenv("PRIVATE_KEY"); v != "" {
		c.PRIVATE_KEY = v
	}
	if v := os.Getenv("ROUTER_ADDRESS"); v != "" {
		c.ROUTER_ADDRESS = v
	}
	if v := os.Getenv("QUOTER_ADDRESS"); v != "" {
		c.QUOTER_ADDRESS = v
	}
	if v := os.Getenv("WMON_ADDRESS"); v != "" {
		c.WMON_ADDRESS = v
	}
	if v := os.Getenv("KURU_API_URL"); v != "" {
		c.KURU_API_URL = v
	}
	if v := os.Getenv("SLIPPAGE_BPS"); v != "" {
		if bps, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.SLIPPAGE_BPS = bps
		}
	}
	if v := os.Getenv("DEBUG"); v != "" {
		c.DEBUG = v == "true" || v == "1"
	}
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	// create if missing
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0600)
}

func (c *Config) Validate() error {
	if c.RPC_URL == "" {
		return fmt.Errorf("RPC_URL is required (set in config.yml or RPC_URL env)")
	}
	if c.ROUTER_ADDRESS == "" {
		return fmt.Errorf("ROUTER_ADDRESS is required")
	}
	if c.WMON_ADDRESS == "" {
		return fmt.Errorf("WMON_ADDRESS is required")
	}
	if err := helpers.ValidateSlippageBps(c.SLIPPAGE_BPS); err != nil {
		return err
	}
	return nil
}

// TokenRegistry builds the configured token set. Only NATIVE_SYMBOL may
// carry an empty address and map to the native sentinel; the WMON entry
// inherits WMON_ADDRESS when its own address is blank. Any other entry
// without an address is a configuration error, never silently native.
func (c *Config) TokenRegistry() (*token.Registry, error) {
	nativeSym := c.NATIVE_SYMBOL
	if nativeSym == "" {
		nativeSym = "MON"
	}

	tokens := make([]token.Token, 0, len(c.TOKENS))
	for _, e := range c.TOKENS {
		t := token.Token{
			Symbol:   e.SYMBOL,
			Name:     e.NAME,
			Decimals: e.DECIMALS,
		}
		switch {
		case e.ADDRESS == "" && strings.EqualFold(e.SYMBOL, "WMON"):
			addr, err := helpers.ValidateAddress(c.WMON_ADDRESS)
			if err != nil {
				return nil, fmt.Errorf("token %s: %w", e.SYMBOL, err)
			}
			t.Address = addr
		case e.ADDRESS == "" && strings.EqualFold(e.SYMBOL, nativeSym):
			t.Address = token.NativeAddress
		case e.ADDRESS == "":
			return nil, fmt.Errorf("token %s: ADDRESS is required (only %s maps to the native asset)", e.SYMBOL, nativeSym)
		default:
			addr, err := helpers.ValidateAddress(e.ADDRESS)
			if err != nil {
				return nil, fmt.Errorf("token %s: %w", e.SYMBOL, err)
			}
			t.Address = addr
		}
		tokens = append(tokens, t)
	}
	return token.NewRegistry(tokens)
}

// DexConfig builds the contract registry config.
func (c *Config) DexConfig(tokens *token.Registry) (v2.Config, error) {
	cfg := v2.Config{Network: v2.MonadTestnet}

	router, err := helpers.ValidateAddress(c.ROUTER_ADDRESS)
	if err != nil {
		return cfg, fmt.Errorf("ROUTER_ADDRESS: %w", err)
	}
	cfg.Router = router

	wmon, err := helpers.ValidateAddress(c.WMON_ADDRESS)
	if err != nil {
		return cfg, fmt.Errorf("WMON_ADDRESS: %w", err)
	}
	cfg.WMON = wmon

	if c.QUOTER_ADDRESS != "" {
		quoter, err := helpers.ValidateAddress(c.QUOTER_ADDRESS)
		if err != nil {
			return cfg, fmt.Errorf("QUOTER_ADDRESS: %w", err)
		}
		cfg.Quoter = quoter
	}

	for _, sym := range c.BASE_TOKENS {
		t, ok := tokens.BySymbol(sym)
		if !ok {
			return cfg, fmt.Errorf("BASE_TOKENS: unknown symbol %s", sym)
		}
		addr := t.Address
		if addr == token.NativeAddress {
			addr = wmon
		}
		cfg.BaseTokens = append(cfg.BaseTokens, addr)
	}
	if len(cfg.BaseTokens) == 0 {
		cfg.BaseTokens = []common.Address{wmon}
	}

	return cfg, cfg.Validate()
}
