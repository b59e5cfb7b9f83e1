package executor

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/chain"
	v2 "github.com/Oussama2008x/kuru-nexus-swap/internal/dex/v2"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/telemetry"
)

// maxApproval is the unlimited allowance (2^256 - 1), granted once so
// repeat swaps skip the approval transaction.
var maxApproval = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

const approveGasLimit = 100000

// defaultConfirmTimeout bounds how long a submitted transaction may stay
// unconfirmed before the wait is abandoned as a network failure. Without it
// a dropped transaction would block the caller until its context ends.
const defaultConfirmTimeout = 90 * time.Second

// AllowanceManager reads and sets ERC-20 spending allowance for the router.
// Shared by the swap executor and the liquidity tool.
type AllowanceManager struct {
	cc             *chain.Context
	erc20ABI       abi.ABI
	confirmTimeout time.Duration
}

func NewAllowanceManager(cc *chain.Context) (*AllowanceManager, error) {
	erc20ABI, err := abi.JSON(strings.NewReader(v2.ERC20ABI))
	if err != nil {
		return nil, fmt.Errorf("parse ERC20 ABI: %w", err)
	}
	return &AllowanceManager{cc: cc, erc20ABI: erc20ABI, confirmTimeout: defaultConfirmTimeout}, nil
}

// Allowance reads the current on-chain allowance. Read-only.
func (am *AllowanceManager) Allowance(ctx context.Context, tokenAddr, owner, spender common.Address) (*big.Int, error) {
	data, err := am.erc20ABI.Pack("allowance", owner, spender)
	if err != nil {
		return nil, err
	}

	result, err := am.cc.Client.CallContract(ctx, ethereum.CallMsg{
		To:   &tokenAddr,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: read allowance: %v", ErrNetwork, err)
	}
	if len(result) == 0 {
		return big.NewInt(0), nil
	}
	return new(big.Int).SetBytes(result), nil
}

// BalanceOf reads an ERC-20 balance. Read-only.
func (am *AllowanceManager) BalanceOf(ctx context.Context, tokenAddr, owner common.Address) (*big.Int, error) {
	data, err := am.erc20ABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, err
	}

	result, err := am.cc.Client.CallContract(ctx, ethereum.CallMsg{
		To:   &tokenAddr,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: read balance: %v", ErrNetwork, err)
	}
	if len(result) == 0 {
		return big.NewInt(0), nil
	}
	return new(big.Int).SetBytes(result), nil
}

// EnsureApproval makes sure spender can move at least amount of tokenAddr
// from the wallet. If the current allowance is short it submits an unlimited
// approval and waits for one confirmation; the caller must not proceed until
// this returns nil, since the router reads allowance at call time.
func (am *AllowanceManager) EnsureApproval(ctx context.Context, tokenAddr, spender common.Address, amount *big.Int, gasPrice *big.Int) error {
	current, err := am.Allowance(ctx, tokenAddr, am.cc.WalletAddr, spender)
	if err != nil {
		return err
	}
	if current.Cmp(amount) >= 0 {
		return nil
	}

	data, err := am.erc20ABI.Pack("approve", spender, maxApproval)
	if err != nil {
		return err
	}

	nonce, err := am.cc.Client.PendingNonceAt(ctx, am.cc.WalletAddr)
	if err != nil {
		return fmt.Errorf("%w: nonce: %v", ErrNetwork, err)
	}

	tx := types.NewTransaction(nonce, tokenAddr, big.NewInt(0), approveGasLimit, gasPrice, data)
	signedTx, err := am.cc.SignTx(tx)
	if err != nil {
		if isUserRejection(err) {
			return fmt.Errorf("%w: %v", ErrUserRejected, err)
		}
		return err
	}

	if err := am.cc.Client.SendTransaction(ctx, signedTx); err != nil {
		if isUserRejection(err) {
			return fmt.Errorf("%w: %v", ErrUserRejected, err)
		}
		return fmt.Errorf("%w: send approval: %v", ErrNetwork, err)
	}

	telemetry.Infof("[allowance] approval submitted: token=%s spender=%s tx=%s",
		tokenAddr.Hex(), spender.Hex(), signedTx.Hash().Hex())

	receipt, err := waitMined(ctx, am.cc, signedTx.Hash(), am.confirmTimeout)
	if err != nil {
		return err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: approval tx %s reverted", ErrApprovalFailed, signedTx.Hash().Hex())
	}
	return nil
}

// receiptPollInterval paces receipt polling while waiting for confirmation.
const receiptPollInterval = 2 * time.Second

// waitMined blocks until the transaction has one confirmation, the timeout
// elapses or ctx ends. Timeouts classify as network failures.
func waitMined(ctx context.Context, cc *chain.Context, txHash common.Hash, timeout time.Duration) (*types.Receipt, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := cc.Client.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: waiting for tx %s: %v", ErrNetwork, txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
