package wrap

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/token"
)

// Direction of a wrap-pair operation.
type Direction int

const (
	Wrap   Direction = iota // native -> wrapped, deposit()
	Unwrap                  // wrapped -> native, withdraw(amount)
)

func (d Direction) String() string {
	if d == Wrap {
		return "wrap"
	}
	return "unwrap"
}

// WMON ABI (minimal fragment): the wrapped-native contract is 1:1 with the
// chain's native asset by construction; deposit/withdraw have no market.
const WrappedNativeABI = `[
	{"inputs":[],"name":"deposit","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"internalType":"uint256","name":"wad","type":"uint256"}],
	 "name":"withdraw","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

// Detector decides whether a token pair is the native/wrapped-native pair.
type Detector struct {
	native  common.Address
	wrapped common.Address
	wmonABI abi.ABI
}

func NewDetector(wrapped common.Address) (*Detector, error) {
	if wrapped == (common.Address{}) {
		return nil, fmt.Errorf("wrap: wrapped-native address must be set")
	}
	parsed, err := abi.JSON(strings.NewReader(WrappedNativeABI))
	if err != nil {
		return nil, fmt.Errorf("parse wrapped-native ABI: %w", err)
	}
	return &Detector{
		native:  token.NativeAddress,
		wrapped: wrapped,
		wmonABI: parsed,
	}, nil
}

// IsWrapPair reports whether {tokenIn, tokenOut} is exactly the
// native/wrapped pair, in either order. Same-token pairs never match.
func (d *Detector) IsWrapPair(tokenIn, tokenOut common.Address) bool {
	return (tokenIn == d.native && tokenOut == d.wrapped) ||
		(tokenIn == d.wrapped && tokenOut == d.native)
}

// DirectionOf returns the operation direction for a wrap pair. Callers must
// guard with IsWrapPair first.
func (d *Detector) DirectionOf(tokenIn common.Address) (Direction, error) {
	switch tokenIn {
	case d.native:
		return Wrap, nil
	case d.wrapped:
		return Unwrap, nil
	default:
		return 0, fmt.Errorf("wrap: %s is not a leg of the wrap pair", tokenIn.Hex())
	}
}

func (d *Detector) Wrapped() common.Address { return d.wrapped }

// DepositCalldata builds the deposit() call. The native amount rides along
// as transaction value, not calldata.
func (d *Detector) DepositCalldata() ([]byte, error) {
	return d.wmonABI.Pack("deposit")
}

// WithdrawCalldata builds the withdraw(amount) call.
func (d *Detector) WithdrawCalldata(amount *big.Int) ([]byte, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("wrap: withdraw amount must be positive")
	}
	return d.wmonABI.Pack("withdraw", amount)
}
