package quote

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/chain"
	v2 "github.com/Oussama2008x/kuru-nexus-swap/internal/dex/v2"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/telemetry"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/token"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/units"
)

const (
	// defaultFeeTier is the pool fee tier the quoter is asked about.
	// quoteExactInputSingle reverts if no pool exists there; that revert is
	// a normal fall-through, not a failure.
	defaultFeeTier = 3000

	// assumedImpactPct is the flat impact estimate applied to single-hop
	// AMM quotes, since the quoter returns no impact figure.
	assumedImpactPct = 0.5
)

// AMMSource quotes a single hop against the on-chain quoter contract.
type AMMSource struct {
	caller    chain.Caller
	dex       *v2.Registry
	quoterABI abi.ABI
}

func NewAMMSource(caller chain.Caller, dex *v2.Registry) (*AMMSource, error) {
	quoterABI, err := abi.JSON(strings.NewReader(v2.QuoterABI))
	if err != nil {
		return nil, fmt.Errorf("parse quoter ABI: %w", err)
	}
	return &AMMSource{caller: caller, dex: dex, quoterABI: quoterABI}, nil
}

func (s *AMMSource) Name() string { return "amm" }

func (s *AMMSource) Quote(ctx context.Context, req Request, amountInBase *big.Int) (*Quote, error) {
	quoter := s.dex.Quoter()
	if quoter == (common.Address{}) {
		return nil, ErrNoData
	}

	in := s.erc20(req.TokenIn.Address)
	out := s.erc20(req.TokenOut.Address)

	data, err := s.quoterABI.Pack("quoteExactInputSingle",
		in, out, big.NewInt(defaultFeeTier), amountInBase, big.NewInt(0))
	if err != nil {
		return nil, fmt.Errorf("pack quoteExactInputSingle: %w", err)
	}

	result, err := s.caller.CallContract(ctx, ethereum.CallMsg{
		To:   &quoter,
		Data: data,
	}, nil)
	if err != nil {
		// Revert means no pool at this tier.
		return nil, fmt.Errorf("quoter call: %w", err)
	}

	var amountOut *big.Int
	if err := s.quoterABI.UnpackIntoInterface(&amountOut, "quoteExactInputSingle", result); err != nil {
		return nil, fmt.Errorf("unpack quoter result: %w", err)
	}
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, ErrNoData
	}

	inDec, err := decimal.NewFromString(req.AmountIn)
	if err != nil || inDec.IsZero() {
		return nil, ErrNoData
	}
	outStr := units.FromBaseUnits(amountOut, req.TokenOut.Decimals)
	outDec, _ := decimal.NewFromString(outStr)

	market := outDec.Div(inDec)
	impact := decimal.NewFromFloat(assumedImpactPct)
	exec := market.Mul(decimal.NewFromInt(1).Sub(impact.Div(decimal.NewFromInt(100))))

	telemetry.Debugf("[quote] amm %s->%s out=%s fee=%d",
		req.TokenIn.Symbol, req.TokenOut.Symbol, outStr, defaultFeeTier)

	return &Quote{
		TokenIn:        req.TokenIn,
		TokenOut:       req.TokenOut,
		InputAmount:    req.AmountIn,
		OutputAmount:   outStr,
		PriceImpactPct: impact,
		Route:          []token.Token{req.TokenIn, req.TokenOut},
		SlippageBps:    req.SlippageBps,
		MarketPrice:    market,
		ExecutionPrice: exec,
		Source:         s.Name(),
	}, nil
}

func (s *AMMSource) erc20(addr common.Address) common.Address {
	if addr == token.NativeAddress {
		return s.dex.WMON()
	}
	return addr
}
