package quote

import (
	"context"
	"errors"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/token"
)

// ErrNoData signals a source had nothing for the pair (as opposed to a
// transport failure). Both fall through to the next source.
var ErrNoData = errors.New("quote: no data for pair")

// ErrStale signals the request was superseded by a newer one while in
// flight; the caller must discard the result.
var ErrStale = errors.New("quote: superseded by newer request")

// Request is one quote computation. A resulting Quote is valid only for the
// exact (TokenIn, TokenOut, AmountIn) triple it was computed for.
type Request struct {
	TokenIn     token.Token
	TokenOut    token.Token
	AmountIn    string // human decimal
	SlippageBps int64
}

// Quote is the normalized result of any source. Quotes are ephemeral:
// recomputed on every input change, never persisted.
type Quote struct {
	TokenIn  token.Token
	TokenOut token.Token

	InputAmount  string // human decimal
	OutputAmount string // human decimal

	PriceImpactPct decimal.Decimal // >= 0; exactly 0 for wrap/unwrap
	Route          []token.Token   // length >= 2
	SlippageBps    int64

	MarketPrice    decimal.Decimal // tokenOut per tokenIn, undisturbed
	ExecutionPrice decimal.Decimal // after impact

	// USDValue is a display-only estimate from the static price table;
	// zero when the table lacks the symbol.
	USDValue decimal.Decimal

	Source string // which source produced this quote
	seq    uint64
}

// IsZero reports an empty/no-quote display state.
func (q *Quote) IsZero() bool {
	return q == nil || q.OutputAmount == "" || q.OutputAmount == "0"
}

// Source is a priority-ordered quote provider. amountInBase is the request
// amount already converted into tokenIn base units.
type Source interface {
	Name() string
	Quote(ctx context.Context, req Request, amountInBase *big.Int) (*Quote, error)
}

// firstSuccess tries sources in order and returns the first quote. This is
// the fallback chain as a visible data structure: strictly sequential,
// never a parallel race.
func firstSuccess(ctx context.Context, sources []Source, req Request, amountInBase *big.Int) (*Quote, error) {
	var lastErr error = ErrNoData
	for _, s := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q, err := s.Quote(ctx, req, amountInBase)
		if err != nil {
			lastErr = err
			continue
		}
		if q != nil {
			return q, nil
		}
	}
	return nil, lastErr
}
