package quote

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/pricing"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/telemetry"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/token"
)

// TableSource is the last-resort synthetic pricer backed by the static USD
// table. It never fails with an error: a missing symbol yields a zero quote,
// which the engine surfaces as "no quote".
type TableSource struct {
	table *pricing.Table
}

func NewTableSource(table *pricing.Table) *TableSource {
	return &TableSource{table: table}
}

func (s *TableSource) Name() string { return "fallback" }

func (s *TableSource) Quote(ctx context.Context, req Request, amountInBase *big.Int) (*Quote, error) {
	inDec, err := decimal.NewFromString(req.AmountIn)
	if err != nil || inDec.Sign() <= 0 {
		return nil, ErrNoData
	}

	out, ok := s.table.Convert(inDec, req.TokenIn.Symbol, req.TokenOut.Symbol)
	q := &Quote{
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
		InputAmount:  req.AmountIn,
		OutputAmount: "0",
		Route:        []token.Token{req.TokenIn, req.TokenOut},
		SlippageBps:  req.SlippageBps,
		Source:       s.Name(),
	}
	if !ok {
		telemetry.Debugf("[quote] fallback table missing %s or %s", req.TokenIn.Symbol, req.TokenOut.Symbol)
		return q, nil
	}

	q.OutputAmount = out.Truncate(int32(req.TokenOut.Decimals)).String()
	q.MarketPrice = out.Div(inDec)
	q.ExecutionPrice = q.MarketPrice
	return q, nil
}
