package executor

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
	"github.com/Oussama2008x/kuru-nexus-swap/internal/helpers"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/router"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/telemetry"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/token"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/units"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/wrap"
)

// SwapIntent is one confirmed user request. Consumed immediately; never
// retried automatically after a failure.
type SwapIntent struct {
	TokenIn     token.Token
	TokenOut    token.Token
	AmountIn    string // human decimal
	ExpectedOut string // human decimal, from the confirmed quote
	SlippageBps int64
	Recipient   common.Address // zero means the wallet itself
}

// Result reports a successful execution.
type Result struct {
	TxHash    common.Hash
	Route     []common.Address // nil for wrap/unwrap
	Operation string           // "swap", "wrap" or "unwrap"
}

// Config contains execution parameters.
type Config struct {
	GasBoostPercent int           // Percentage to boost the suggested gas price
	MaxGasPrice     *big.Int      // Maximum gas price in wei, nil for no cap
	DeadlineSeconds int64         // Swap deadline window
	ConfirmTimeout  time.Duration // How long to wait for one confirmation
	SwapGasLimit    uint64
	WrapGasLimit    uint64
}

func DefaultConfig() Config {
	return Config{
		GasBoostPercent: 10,
		DeadlineSeconds: 20 * 60,
		ConfirmTimeout:  defaultConfirmTimeout,
		SwapGasLimit:    300000,
		WrapGasLimit:    80000,
	}
}

// Executor submits wrap/unwrap and swap transactions. The quote that led
// here is advisory only: the path is re-probed at execution time because
// pool liquidity can change between quote and confirmation.
type Executor struct {
	cc        *chain.Context
	detector  *wrap.Detector
	finder    *router.PathFinder
	allowance *AllowanceManager
	routerABI abi.ABI
	cfg       Config
}

func NewExecutor(cc *chain.Context, detector *wrap.Detector, finder *router.PathFinder, cfg Config) (*Executor, error) {
	routerABI, err := abi.JSON(strings.NewReader(v2.RouterABI))
	if err != nil {
		return nil, fmt.Errorf("parse router ABI: %w", err)
	}
	allowance, err := NewAllowanceManager(cc)
	if err != nil {
		return nil, err
	}
	if cfg.ConfirmTimeout > 0 {
		allowance.confirmTimeout = cfg.ConfirmTimeout
	}
	return &Executor{
		cc:        cc,
		detector:  detector,
		finder:    finder,
		allowance: allowance,
		routerABI: routerABI,
		cfg:       cfg,
	}, nil
}

func (ex *Executor) Allowances() *AllowanceManager { return ex.allowance }

// Execute runs one intent to completion: wrap branch or
// approve -> re-probe -> minOut -> submit -> confirm.
func (ex *Executor) Execute(ctx context.Context, intent SwapIntent) (*Result, error) {
	if !ex.cc.CanSign() {
		return nil, fmt.Errorf("executor: no signing key configured")
	}
	if err := helpers.ValidateTokenPair(intent.TokenIn.Address, intent.TokenOut.Address); err != nil {
		return nil, err
	}
	if err := helpers.ValidateSlippageBps(intent.SlippageBps); err != nil {
		return nil, err
	}

	amountInBase, err := units.ToBaseUnits(intent.AmountIn, intent.TokenIn.Decimals)
	if err != nil {
		return nil, err
	}

	recipient := intent.Recipient
	if recipient == (common.Address{}) {
		recipient = ex.cc.WalletAddr
	}

	// Re-check the wrap pair; deposits/withdrawals never touch the router.
	if ex.detector.IsWrapPair(intent.TokenIn.Address, intent.TokenOut.Address) {
		return ex.executeWrap(ctx, intent, amountInBase)
	}

	gasPrice, err := ex.calculateGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	// Approve before anything state-mutating on the router. The swap is
	// never submitted until the approval is confirmed.
	if !intent.TokenIn.IsNative() {
		if err := ex.allowance.EnsureApproval(ctx, intent.TokenIn.Address, ex.cc.Dex.Router(), amountInBase, gasPrice); err != nil {
			return nil, fmt.Errorf("approve %s: %w", intent.TokenIn.Symbol, err)
		}
	}

	// Re-probe the route; a stale quote's path is not trusted.
	route, err := ex.finder.Find(ctx, intent.TokenIn.Address, intent.TokenOut.Address, amountInBase)
	if err != nil {
		return nil, err
	}

	minOut, err := ex.minOutput(intent)
	if err != nil {
		return nil, err
	}

	tx, err := ex.buildSwapTransaction(ctx, intent, amountInBase, minOut, route.Path, recipient, gasPrice)
	if err != nil {
		return nil, err
	}

	txHash, err := ex.submit(ctx, tx)
	if err != nil {
		return nil, err
	}

	telemetry.Infof("[executor] swap executed: %s %s -> %s, path=%d hops, tx=%s",
		intent.AmountIn, intent.TokenIn.Symbol, intent.TokenOut.Symbol, len(route.Path), txHash.Hex())

	return &Result{TxHash: txHash, Route: route.Path, Operation: "swap"}, nil
}

// minOutput computes the slippage-bounded minimum acceptable output in
// tokenOut base units: expected × (1 − bps/10000), floored.
func (ex *Executor) minOutput(intent SwapIntent) (*big.Int, error) {
	expectedBase, err := units.ToBaseUnits(intent.ExpectedOut, intent.TokenOut.Decimals)
	if err != nil {
		return nil, fmt.Errorf("expected output: %w", err)
	}
	return units.ApplySlippageBps(expectedBase, intent.SlippageBps), nil
}

// executeWrap handles the native/wrapped 1:1 pair via deposit()/withdraw().
func (ex *Executor) executeWrap(ctx context.Context, intent SwapIntent, amountBase *big.Int) (*Result, error) {
	direction, err := ex.detector.DirectionOf(intent.TokenIn.Address)
	if err != nil {
		return nil, err
	}

	gasPrice, err := ex.calculateGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	var (
		data  []byte
		value *big.Int
	)
	switch direction {
	case wrap.Wrap:
		data, err = ex.detector.DepositCalldata()
		value = amountBase
	case wrap.Unwrap:
		data, err = ex.detector.WithdrawCalldata(amountBase)
		value = big.NewInt(0)
	}
	if err != nil {
		return nil, err
	}

	nonce, err := ex.cc.Client.PendingNonceAt(ctx, ex.cc.WalletAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", ErrNetwork, err)
	}

	tx := types.NewTransaction(nonce, ex.detector.Wrapped(), value, ex.cfg.WrapGasLimit, gasPrice, data)
	txHash, err := ex.submit(ctx, tx)
	if err != nil {
		return nil, err
	}

	telemetry.Infof("[executor] %s executed: amount=%s %s, tx=%s",
		direction, intent.AmountIn, intent.TokenIn.Symbol, txHash.Hex())

	return &Result{TxHash: txHash, Operation: direction.String()}, nil
}

// buildSwapTransaction packs the router call matching the path's ends:
// native in rides as msg.value with the ETH-in variant, native out uses the
// ETH-out variant, everything else is token-for-token.
func (ex *Executor) buildSwapTransaction(
	ctx context.Context,
	intent SwapIntent,
	amountIn, minOut *big.Int,
	path []common.Address,
	recipient common.Address,
	gasPrice *big.Int,
) (*types.Transaction, error) {

	deadline := big.NewInt(time.Now().Unix() + ex.cfg.DeadlineSeconds)

	var (
		data  []byte
		value = big.NewInt(0)
		err   error
	)
	switch {
	case intent.TokenIn.IsNative():
		value = amountIn
		data, err = ex.routerABI.Pack("swapExactETHForTokens", minOut, path, recipient, deadline)
	case intent.TokenOut.IsNative():
		data, err = ex.routerABI.Pack("swapExactTokensForETH", amountIn, minOut, path, recipient, deadline)
	default:
		data, err = ex.routerABI.Pack("swapExactTokensForTokens", amountIn, minOut, path, recipient, deadline)
	}
	if err != nil {
		return nil, fmt.Errorf("pack swap: %w", err)
	}

	nonce, err := ex.cc.Client.PendingNonceAt(ctx, ex.cc.WalletAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", ErrNetwork, err)
	}

	return types.NewTransaction(nonce, ex.cc.Dex.Router(), value, ex.cfg.SwapGasLimit, gasPrice, data), nil
}

// submit signs, sends, and waits for one confirmation. A reverted receipt
// becomes ErrSwapReverted for classification upstream; there is no retry.
func (ex *Executor) submit(ctx context.Context, tx *types.Transaction) (common.Hash, error) {
	signedTx, err := ex.cc.SignTx(tx)
	if err != nil {
		if isUserRejection(err) {
			return common.Hash{}, fmt.Errorf("%w: %v", ErrUserRejected, err)
		}
		return common.Hash{}, err
	}

	if err := ex.cc.Client.SendTransaction(ctx, signedTx); err != nil {
		if isUserRejection(err) {
			return common.Hash{}, fmt.Errorf("%w: %v", ErrUserRejected, err)
		}
		return common.Hash{}, fmt.Errorf("%w: %v", ErrSwapReverted, err)
	}

	receipt, err := waitMined(ctx, ex.cc, signedTx.Hash(), ex.cfg.ConfirmTimeout)
	if err != nil {
		return common.Hash{}, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return common.Hash{}, fmt.Errorf("%w: tx %s reverted", ErrSwapReverted, signedTx.Hash().Hex())
	}
	return signedTx.Hash(), nil
}

// calculateGasPrice boosts the node's suggestion and enforces the cap.
func (ex *Executor) calculateGasPrice(ctx context.Context) (*big.Int, error) {
	gasPrice, err := ex.cc.Client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: suggest gas price: %v", ErrNetwork, err)
	}

	if ex.cfg.GasBoostPercent > 0 {
		boost := big.NewInt(100 + int64(ex.cfg.GasBoostPercent))
		gasPrice = new(big.Int).Mul(gasPrice, boost)
		gasPrice = new(big.Int).Div(gasPrice, big.NewInt(100))
	}

	if ex.cfg.MaxGasPrice != nil && gasPrice.Cmp(ex.cfg.MaxGasPrice) > 0 {
		return nil, fmt.Errorf("gas price %s gwei exceeds max %s gwei",
			helpers.WeiToGwei(gasPrice), helpers.WeiToGwei(ex.cfg.MaxGasPrice))
	}

	return gasPrice, nil
}
