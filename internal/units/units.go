package units

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for amounts that are empty, unparsable, or
// not strictly positive.
var ErrInvalidAmount = fmt.Errorf("invalid amount")

// ToBaseUnits converts a human decimal amount into integer base units for a
// token with the given decimals. Excess fractional digits are truncated
// toward zero (never rounded up) so a user can never overspend by a unit.
func ToBaseUnits(decimalAmount string, decimals uint8) (*big.Int, error) {
	s := strings.TrimSpace(decimalAmount)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, decimalAmount)
	}
	if d.Sign() <= 0 {
		return nil, fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}
	// Truncate to the token's precision, then shift into base units.
	scaled := d.Truncate(int32(decimals)).Shift(int32(decimals))
	return scaled.BigInt(), nil
}

// FromBaseUnits converts integer base units back into a decimal string.
// Trailing fractional zeros are trimmed; a nil or zero value renders "0".
func FromBaseUnits(base *big.Int, decimals uint8) string {
	if base == nil || base.Sign() == 0 {
		return "0"
	}
	d := decimal.NewFromBigInt(base, -int32(decimals))
	return d.String()
}

// Rescale converts base units of one token into base units of another at a
// 1:1 decimal value. Used for the wrap pair, where decimals always match,
// and by the fallback pricer where they may not.
func Rescale(base *big.Int, fromDecimals, toDecimals uint8) *big.Int {
	if base == nil {
		return new(big.Int)
	}
	d := decimal.NewFromBigInt(base, -int32(fromDecimals))
	return d.Truncate(int32(toDecimals)).Shift(int32(toDecimals)).BigInt()
}

// ApplySlippageBps reduces amount by tolerance basis points, flooring the
// result. 100 bps = 1%.
func ApplySlippageBps(amount *big.Int, bps int64) *big.Int {
	if amount == nil || bps <= 0 {
		return new(big.Int).Set(amountOrZero(amount))
	}
	if bps >= 10000 {
		return new(big.Int)
	}
	out := new(big.Int).Mul(amount, big.NewInt(10000-bps))
	return out.Div(out, big.NewInt(10000))
}

func amountOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
