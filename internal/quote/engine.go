package quote

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/pricing"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/telemetry"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/token"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/units"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/wrap"
)

// Engine runs the quoting state machine: validate, wrap check, then the
// source priority chain. Source failures cascade down the chain; the engine
// itself never propagates a source error to the caller.
type Engine struct {
	detector *wrap.Detector
	sources  []Source
	table    *pricing.Table

	// Monotonic request tag. A result whose tag is no longer current when
	// it resolves is discarded, so a late response can never overwrite the
	// display state of a newer request.
	seq    atomic.Uint64
	mu     sync.Mutex
	latest *Quote
}

// NewEngine builds an engine over the given priority-ordered sources. The
// table also feeds display-only USD estimates onto every quote.
func NewEngine(detector *wrap.Detector, table *pricing.Table, sources ...Source) *Engine {
	return &Engine{
		detector: detector,
		sources:  sources,
		table:    table,
	}
}

// Quote computes a fresh quote for the request. An unparsable or
// non-positive amount yields an empty quote, not an error; ErrStale means
// the request was superseded while in flight and the result must be
// discarded.
func (e *Engine) Quote(ctx context.Context, req Request) (*Quote, error) {
	tag := e.seq.Add(1)

	// Validate: bad input is an empty display state, never a surfaced error.
	amountInBase, err := units.ToBaseUnits(req.AmountIn, req.TokenIn.Decimals)
	if err != nil {
		if !errors.Is(err, units.ErrInvalidAmount) {
			telemetry.Debugf("[quote] amount parse: %v", err)
		}
		return e.publish(tag, e.emptyQuote(req))
	}

	// Wrap pair short-circuits everything: 1:1 by construction.
	if e.detector.IsWrapPair(req.TokenIn.Address, req.TokenOut.Address) {
		return e.publish(tag, e.wrapQuote(req))
	}

	q, err := firstSuccess(ctx, e.sources, req, amountInBase)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		telemetry.Warnf("[quote] all sources failed for %s->%s: %v",
			req.TokenIn.Symbol, req.TokenOut.Symbol, err)
		return e.publish(tag, e.emptyQuote(req))
	}

	e.attachUSD(q)
	return e.publish(tag, q)
}

// Latest returns the most recent non-discarded quote, or nil.
func (e *Engine) Latest() *Quote {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest
}

// publish installs the quote unless a newer request has started since.
func (e *Engine) publish(tag uint64, q *Quote) (*Quote, error) {
	q.seq = tag
	if e.seq.Load() != tag {
		telemetry.Debugf("[quote] discarding stale result (tag %d, current %d)", tag, e.seq.Load())
		return nil, ErrStale
	}
	e.mu.Lock()
	if e.latest == nil || e.latest.seq <= tag {
		e.latest = q
	}
	e.mu.Unlock()
	return q, nil
}

// wrapQuote is the hard 1:1 guarantee for the native/wrapped pair: equal
// output, zero impact, zero effective slippage. No market is involved.
func (e *Engine) wrapQuote(req Request) *Quote {
	q := &Quote{
		TokenIn:        req.TokenIn,
		TokenOut:       req.TokenOut,
		InputAmount:    req.AmountIn,
		OutputAmount:   req.AmountIn,
		PriceImpactPct: decimal.Zero,
		Route:          []token.Token{req.TokenIn, req.TokenOut},
		SlippageBps:    0,
		MarketPrice:    decimal.NewFromInt(1),
		ExecutionPrice: decimal.NewFromInt(1),
		Source:         "wrap",
	}
	e.attachUSD(q)
	return q
}

func (e *Engine) emptyQuote(req Request) *Quote {
	return &Quote{
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
		InputAmount:  req.AmountIn,
		OutputAmount: "0",
		Route:        []token.Token{req.TokenIn, req.TokenOut},
		SlippageBps:  req.SlippageBps,
		Source:       "none",
	}
}

func (e *Engine) attachUSD(q *Quote) {
	if e.table == nil {
		return
	}
	in, err := decimal.NewFromString(q.InputAmount)
	if err != nil {
		return
	}
	if usd, ok := e.table.ValueUSD(in, q.TokenIn.Symbol); ok {
		q.USDValue = usd
	}
}
