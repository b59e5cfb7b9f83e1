package helpers

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// FormatUnits renders base units with a sensible display precision for the
// token's decimals. Exact string conversion lives in the units package; this
// is for logs and terminal output only.
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	v := decimal.NewFromBigInt(amount, -int32(decimals))
	f, _ := v.Float64()
	switch {
	case f == 0:
		return "0"
	case f < 0.0001:
		return v.StringFixed(8)
	case f < 1:
		return v.StringFixed(6)
	case f < 100:
		return v.StringFixed(4)
	default:
		return v.StringFixed(2)
	}
}

// FormatUSD renders a display-only USD estimate.
func FormatUSD(v decimal.Decimal) string {
	return "$" + v.StringFixed(2)
}

// Format address for display
func FormatAddress(addr common.Address) string {
	hex := addr.Hex()
	if len(hex) > 10 {
		return hex[:6] + "..." + hex[len(hex)-4:]
	}
	return hex
}

// Format transaction hash for display
func FormatTxHash(hash common.Hash) string {
	hex := hash.Hex()
	if len(hex) > 12 {
		return hex[:10] + "..." + hex[len(hex)-6:]
	}
	return hex
}

// WeiToGwei formats a wei gas price as whole gwei.
func WeiToGwei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	gwei := new(big.Int).Div(wei, big.NewInt(1000000000))
	return gwei.String()
}

// GweiToWei parses a gwei string (integer or fractional) into wei.
func GweiToWei(gweiStr string) (*big.Int, error) {
	if gweiStr == "" {
		return nil, fmt.Errorf("empty gwei amount")
	}
	d, err := decimal.NewFromString(gweiStr)
	if err != nil {
		return nil, fmt.Errorf("invalid gwei amount: %s", gweiStr)
	}
	return d.Shift(9).Truncate(0).BigInt(), nil
}
