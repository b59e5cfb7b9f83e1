package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Table is a static symbol -> USD reference price map. It is the
// last-resort quote source and feeds display-only USD estimates; prices are
// refreshed only by redeployment, never by a live feed.
type Table struct {
	prices  map[string]decimal.Decimal
	feeRate decimal.Decimal
}

// DefaultFeeRate is the synthetic trading fee applied by fallback quotes,
// mirroring the 0.3% pool fee.
var DefaultFeeRate = decimal.NewFromFloat(0.003)

func NewTable(prices map[string]decimal.Decimal) *Table {
	t := &Table{
		prices:  make(map[string]decimal.Decimal, len(prices)),
		feeRate: DefaultFeeRate,
	}
	for sym, p := range prices {
		t.prices[strings.ToUpper(sym)] = p
	}
	return t
}

// DefaultTable carries reference prices for the testnet token set.
func DefaultTable() *Table {
	return NewTable(map[string]decimal.Decimal{
		"MON":  decimal.NewFromFloat(10.0),
		"WMON": decimal.NewFromFloat(10.0),
		"USDC": decimal.NewFromFloat(1.0),
		"USDT": decimal.NewFromFloat(1.0),
		"DAK":  decimal.NewFromFloat(2.5),
		"CHOG": decimal.NewFromFloat(0.15),
		"YAKI": decimal.NewFromFloat(0.02),
	})
}

// USD returns the reference price for a symbol.
func (t *Table) USD(symbol string) (decimal.Decimal, bool) {
	p, ok := t.prices[strings.ToUpper(symbol)]
	return p, ok
}

// Convert prices amountIn of symbolIn into symbolOut using the reference
// table, minus the synthetic fee. Returns false if either symbol is missing.
func (t *Table) Convert(amountIn decimal.Decimal, symbolIn, symbolOut string) (decimal.Decimal, bool) {
	pin, ok := t.USD(symbolIn)
	if !ok {
		return decimal.Zero, false
	}
	pout, ok := t.USD(symbolOut)
	if !ok || pout.IsZero() {
		return decimal.Zero, false
	}
	out := amountIn.Mul(pin).Div(pout)
	out = out.Mul(decimal.NewFromInt(1).Sub(t.feeRate))
	return out, true
}

// ValueUSD returns the display-only USD value of a decimal token amount.
func (t *Table) ValueUSD(amount decimal.Decimal, symbol string) (decimal.Decimal, bool) {
	p, ok := t.USD(symbol)
	if !ok {
		return decimal.Zero, false
	}
	return amount.Mul(p), true
}
