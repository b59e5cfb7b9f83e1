package liquidity

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/chain"
	v2 "github.com/Oussama2008x/kuru-nexus-swap/internal/dex/v2"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/executor"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/telemetry"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/token"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/units"
)

// Request seeds one pool with both sides of a pair. Admin tooling: amounts
// are desired deposits, minimums derive from the same slippage rule the
// swap path uses.
type Request struct {
	TokenA      token.Token
	TokenB      token.Token
	AmountA     string // human decimal
	AmountB     string // human decimal
	SlippageBps int64
}

// Tool submits addLiquidity transactions for a batch of pools. It shares
// the allowance manager and unit conversion with the swap executor.
type Tool struct {
	cc        *chain.Context
	allowance *executor.AllowanceManager
	routerABI abi.ABI
	cfg       executor.Config
}

func NewTool(cc *chain.Context, allowance *executor.AllowanceManager, cfg executor.Config) (*Tool, error) {
	routerABI, err := abi.JSON(strings.NewReader(v2.RouterABI))
	if err != nil {
		return nil, fmt.Errorf("parse router ABI: %w", err)
	}
	return &Tool{cc: cc, allowance: allowance, routerABI: routerABI, cfg: cfg}, nil
}

// AddBatch seeds each requested pool in order, stopping at the first
// failure. Returns the tx hashes of completed additions.
func (t *Tool) AddBatch(ctx context.Context, reqs []Request) ([]common.Hash, error) {
	var done []common.Hash
	for i, req := range reqs {
		hash, err := t.Add(ctx, req)
		if err != nil {
			return done, fmt.Errorf("pool %d (%s/%s): %w", i, req.TokenA.Symbol, req.TokenB.Symbol, err)
		}
		done = append(done, hash)
	}
	return done, nil
}

// Add seeds one pool: approve both sides, then addLiquidity.
func (t *Tool) Add(ctx context.Context, req Request) (common.Hash, error) {
	if req.TokenA.IsNative() || req.TokenB.IsNative() {
		return common.Hash{}, fmt.Errorf("liquidity: use the wrapped token for the native side")
	}

	amountA, err := units.ToBaseUnits(req.AmountA, req.TokenA.Decimals)
	if err != nil {
		return common.Hash{}, fmt.Errorf("amount A: %w", err)
	}
	amountB, err := units.ToBaseUnits(req.AmountB, req.TokenB.Decimals)
	if err != nil {
		return common.Hash{}, fmt.Errorf("amount B: %w", err)
	}

	gasPrice, err := t.cc.Client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("suggest gas price: %w", err)
	}

	routerAddr := t.cc.Dex.Router()
	if err := t.allowance.EnsureApproval(ctx, req.TokenA.Address, routerAddr, amountA, gasPrice); err != nil {
		return common.Hash{}, fmt.Errorf("approve %s: %w", req.TokenA.Symbol, err)
	}
	if err := t.allowance.EnsureApproval(ctx, req.TokenB.Address, routerAddr, amountB, gasPrice); err != nil {
		return common.Hash{}, fmt.Errorf("approve %s: %w", req.TokenB.Symbol, err)
	}

	minA := units.ApplySlippageBps(amountA, req.SlippageBps)
	minB := units.ApplySlippageBps(amountB, req.SlippageBps)
	deadline := big.NewInt(time.Now().Unix() + t.cfg.DeadlineSeconds)

	data, err := t.routerABI.Pack("addLiquidity",
		req.TokenA.Address, req.TokenB.Address,
		amountA, amountB, minA, minB,
		t.cc.WalletAddr, deadline)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack addLiquidity: %w", err)
	}

	nonce, err := t.cc.Client.PendingNonceAt(ctx, t.cc.WalletAddr)
	if err != nil {
		return common.Hash{}, fmt.Errorf("nonce: %w", err)
	}

	tx := types.NewTransaction(nonce, routerAddr, big.NewInt(0), t.cfg.SwapGasLimit, gasPrice, data)
	signedTx, err := t.cc.SignTx(tx)
	if err != nil {
		return common.Hash{}, err
	}
	if err := t.cc.Client.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, fmt.Errorf("send addLiquidity: %w", err)
	}

	telemetry.Infof("[liquidity] seeded %s/%s: %s + %s, tx=%s",
		req.TokenA.Symbol, req.TokenB.Symbol, req.AmountA, req.AmountB, signedTx.Hash().Hex())

	return signedTx.Hash(), nil
}
