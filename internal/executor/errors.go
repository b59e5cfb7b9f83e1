package executor

import (
	"errors"
	"strings"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/router"
)

// Error kinds surfaced by execution. Quoting has its own cascade; an
// execution failure is terminal — the user must resubmit with a fresh quote.
var (
	ErrApprovalFailed = errors.New("token approval failed")
	ErrSwapReverted   = errors.New("swap reverted")
	ErrUserRejected   = errors.New("transaction rejected by signer")
	ErrNetwork        = errors.New("network error")
)

// RevertKind classifies an on-chain revert into a user-facing sub-case.
type RevertKind int

const (
	RevertUnknown RevertKind = iota
	RevertInsufficientLiquidity
	RevertSlippageExceeded
	RevertTransferFailed
	RevertExpired
)

// classifyRevert inspects a revert reason string. Router revert strings are
// stable enough across V2 forks to match on substrings.
func classifyRevert(msg string) RevertKind {
	m := strings.ToUpper(msg)
	switch {
	case strings.Contains(m, "INSUFFICIENT_LIQUIDITY"):
		return RevertInsufficientLiquidity
	case strings.Contains(m, "INSUFFICIENT_OUTPUT_AMOUNT") || strings.Contains(m, "INSUFFICIENT_A_AMOUNT") || strings.Contains(m, "INSUFFICIENT_B_AMOUNT"):
		return RevertSlippageExceeded
	case strings.Contains(m, "TRANSFER_FROM_FAILED") || strings.Contains(m, "TRANSFER_FAILED"):
		return RevertTransferFailed
	case strings.Contains(m, "EXPIRED"):
		return RevertExpired
	default:
		return RevertUnknown
	}
}

// isUserRejection detects a signer/wallet declining the prompt. Not a system
// failure; surfaced neutrally.
func isUserRejection(err error) bool {
	if err == nil {
		return false
	}
	m := strings.ToLower(err.Error())
	return strings.Contains(m, "user denied") ||
		strings.Contains(m, "user rejected") ||
		strings.Contains(m, "request rejected")
}

// UserMessage maps an execution error onto a short actionable message. The
// raw error goes to telemetry, never to the user verbatim unless nothing
// more specific matched.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUserRejected):
		return "Transaction was cancelled in your wallet."
	case errors.Is(err, ErrApprovalFailed):
		return "Token approval failed. No swap was attempted."
	case errors.Is(err, ErrNetwork):
		return "Network request failed. Please try again."
	}

	var noRoute *router.NoRouteError
	if errors.As(err, &noRoute) {
		return "Insufficient liquidity for this pair. Add liquidity first."
	}

	if errors.Is(err, ErrSwapReverted) {
		switch classifyRevert(err.Error()) {
		case RevertInsufficientLiquidity:
			return "Insufficient liquidity for this pair. Add liquidity first."
		case RevertSlippageExceeded:
			return "Price moved beyond your slippage tolerance. Re-quote and try again."
		case RevertTransferFailed:
			return "Token transfer failed. Check your balance and allowance."
		case RevertExpired:
			return "Transaction deadline passed. Try again."
		default:
			return "Swap failed on-chain. Re-quote and try again."
		}
	}

	return err.Error()
}
