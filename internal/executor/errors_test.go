package executor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/router"
)

func TestClassifyRevert(t *testing.T) {
	tests := []struct {
		msg  string
		want RevertKind
	}{
		{"UniswapV2: INSUFFICIENT_LIQUIDITY", RevertInsufficientLiquidity},
		{"UniswapV2Router: INSUFFICIENT_OUTPUT_AMOUNT", RevertSlippageExceeded},
		{"UniswapV2Router: INSUFFICIENT_A_AMOUNT", RevertSlippageExceeded},
		{"TransferHelper: TRANSFER_FROM_FAILED", RevertTransferFailed},
		{"UniswapV2Router: EXPIRED", RevertExpired},
		{"execution reverted", RevertUnknown},
		{"", RevertUnknown},
		// case-insensitive
		{"uniswapv2: insufficient_liquidity", RevertInsufficientLiquidity},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyRevert(tt.msg), "msg %q", tt.msg)
	}
}

func TestIsUserRejection(t *testing.T) {
	assert.True(t, isUserRejection(errors.New("MetaMask Tx Signature: User denied transaction signature")))
	assert.True(t, isUserRejection(errors.New("user rejected the request")))
	assert.False(t, isUserRejection(errors.New("execution reverted")))
	assert.False(t, isUserRejection(nil))
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))

	assert.Equal(t, "Transaction was cancelled in your wallet.",
		UserMessage(fmt.Errorf("%w: user denied", ErrUserRejected)))

	assert.Equal(t, "Token approval failed. No swap was attempted.",
		UserMessage(fmt.Errorf("%w: nonce too low", ErrApprovalFailed)))

	assert.Equal(t, "Network request failed. Please try again.",
		UserMessage(fmt.Errorf("%w: connection refused", ErrNetwork)))

	noRoute := &router.NoRouteError{TokenIn: common.Address{}, TokenOut: common.Address{}}
	assert.Equal(t, "Insufficient liquidity for this pair. Add liquidity first.",
		UserMessage(fmt.Errorf("finding route: %w", noRoute)))
}

func TestUserMessageRevertClassification(t *testing.T) {
	tests := []struct {
		reason string
		want   string
	}{
		{"UniswapV2: INSUFFICIENT_LIQUIDITY", "Insufficient liquidity for this pair. Add liquidity first."},
		{"INSUFFICIENT_OUTPUT_AMOUNT", "Price moved beyond your slippage tolerance. Re-quote and try again."},
		{"TRANSFER_FROM_FAILED", "Token transfer failed. Check your balance and allowance."},
		{"EXPIRED", "Transaction deadline passed. Try again."},
		{"something else", "Swap failed on-chain. Re-quote and try again."},
	}
	for _, tt := range tests {
		err := fmt.Errorf("%w: %s", ErrSwapReverted, tt.reason)
		assert.Equal(t, tt.want, UserMessage(err), "reason %q", tt.reason)
	}
}

func TestUserMessagePassthrough(t *testing.T) {
	err := errors.New("some unclassified failure")
	assert.Equal(t, "some unclassified failure", UserMessage(err))
}
