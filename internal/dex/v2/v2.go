package v2

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

type Network string

const (
	MonadTestnet Network = "monad-testnet"
	Ethereum     Network = "ethereum"
)

type Config struct {
	Network Network
	Router  common.Address
	Quoter  common.Address // V3-style quoter used by the AMM quote source
	WMON    common.Address
	// Routing (base) tokens tried as the middle hop, in declared order.
	BaseTokens []common.Address
}

// Registry holds the DEX contract addresses for the active network.
type Registry struct {
	mu  sync.RWMutex
	cfg Config
}

func NewRegistry(cfg Config) *Registry {
	return &Registry{cfg: cfg}
}

func (r *Registry) Config() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

func (r *Registry) Router() common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg.Router
}

func (r *Registry) Quoter() common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg.Quoter
}

func (r *Registry) WMON() common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg.WMON
}

func (r *Registry) BaseTokens() []common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]common.Address, len(r.cfg.BaseTokens))
	copy(out, r.cfg.BaseTokens)
	return out
}

func (cfg Config) Validate() error {
	if (cfg.Router == (common.Address{})) || (cfg.WMON == (common.Address{})) {
		return fmt.Errorf("v2.Config: router/WMON must be set")
	}
	return nil
}

// ABIs (minimal fragments)
const (
	RouterABI = `[
		{"inputs":[
			{"internalType":"uint256","name":"amountIn","type":"uint256"},
			{"internalType":"address[]","name":"path","type":"address[]"}],
		 "name":"getAmountsOut","outputs":[
			{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],
		 "stateMutability":"view","type":"function"},

		{"inputs":[
			{"internalType":"uint256","name":"amountIn","type":"uint256"},
			{"internalType":"uint256","name":"amountOutMin","type":"uint256"},
			{"internalType":"address[]","name":"path","type":"address[]"},
			{"internalType":"address","name":"to","type":"address"},
			{"internalType":"uint256","name":"deadline","type":"uint256"}],
		 "name":"swapExactTokensForTokens","outputs":[
			{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],
		 "stateMutability":"nonpayable","type":"function"},

		{"inputs":[
			{"internalType":"uint256","name":"amountOutMin","type":"uint256"},
			{"internalType":"address[]","name":"path","type":"address[]"},
			{"internalType":"address","name":"to","type":"address"},
			{"internalType":"uint256","name":"deadline","type":"uint256"}],
		 "name":"swapExactETHForTokens","outputs":[
			{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],
		 "stateMutability":"payable","type":"function"},

		{"inputs":[
			{"internalType":"uint256","name":"amountIn","type":"uint256"},
			{"internalType":"uint256","name":"amountOutMin","type":"uint256"},
			{"internalType":"address[]","name":"path","type":"address[]"},
			{"internalType":"address","name":"to","type":"address"},
			{"internalType":"uint256","name":"deadline","type":"uint256"}],
		 "name":"swapExactTokensForETH","outputs":[
			{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],
		 "stateMutability":"nonpayable","type":"function"},

		{"inputs":[
			{"internalType":"address","name":"tokenA","type":"address"},
			{"internalType":"address","name":"tokenB","type":"address"},
			{"internalType":"uint256","name":"amountADesired","type":"uint256"},
			{"internalType":"uint256","name":"amountBDesired","type":"uint256"},
			{"internalType":"uint256","name":"amountAMin","type":"uint256"},
			{"internalType":"uint256","name":"amountBMin","type":"uint256"},
			{"internalType":"address","name":"to","type":"address"},
			{"internalType":"uint256","name":"deadline","type":"uint256"}],
		 "name":"addLiquidity","outputs":[
			{"internalType":"uint256","name":"amountA","type":"uint256"},
			{"internalType":"uint256","name":"amountB","type":"uint256"},
			{"internalType":"uint256","name":"liquidity","type":"uint256"}],
		 "stateMutability":"nonpayable","type":"function"}
	]`

	// quoteExactInputSingle reverts when no pool exists at the fee tier; the
	// quote engine treats that as "no data" and falls through.
	QuoterABI = `[
		{"inputs":[
			{"internalType":"address","name":"tokenIn","type":"address"},
			{"internalType":"address","name":"tokenOut","type":"address"},
			{"internalType":"uint24","name":"fee","type":"uint24"},
			{"internalType":"uint256","name":"amountIn","type":"uint256"},
			{"internalType":"uint160","name":"sqrtPriceLimitX96","type":"uint160"}],
		 "name":"quoteExactInputSingle","outputs":[
			{"internalType":"uint256","name":"amountOut","type":"uint256"}],
		 "stateMutability":"nonpayable","type":"function"}
	]`

	ERC20ABI = `[
		{"constant":true,"inputs":[{"name":"_owner","type":"address"}],
		 "name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
		{"constant":false,"inputs":[
			{"name":"_spender","type":"address"},
			{"name":"_value","type":"uint256"}],
		 "name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"},
		{"constant":true,"inputs":[
			{"name":"_owner","type":"address"},
			{"name":"_spender","type":"address"}],
		 "name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"},
		{"constant":true,"inputs":[],
		 "name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"}
	]`
)
