package router

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/chain"
	v2 "github.com/Oussama2008x/kuru-nexus-swap/internal/dex/v2"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/telemetry"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/token"
)

// probeTimeout bounds a single getAmountsOut call.
const probeTimeout = 10 * time.Second

// NoRouteError reports that no candidate path produced a nonzero output.
// Attempted carries every candidate probed, in order, for diagnostics.
type NoRouteError struct {
	TokenIn   common.Address
	TokenOut  common.Address
	Attempted [][]common.Address
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("no route with liquidity for %s -> %s (%d candidates tried)",
		e.TokenIn.Hex(), e.TokenOut.Hex(), len(e.Attempted))
}

// Route is an accepted candidate: the path plus the router's quoted amounts
// for it. Amounts[len-1] is the final-hop output.
type Route struct {
	Path    []common.Address
	Amounts []*big.Int
}

func (r Route) AmountOut() *big.Int {
	if len(r.Amounts) == 0 {
		return new(big.Int)
	}
	return r.Amounts[len(r.Amounts)-1]
}

// PathFinder probes candidate swap paths against the router's getAmountsOut
// and selects the first one with liquidity.
type PathFinder struct {
	caller    chain.Caller
	dex       *v2.Registry
	routerABI abi.ABI

	// BestOfAll switches from first-match to highest-output selection.
	// Off by default: first-match with direct-path-first ordering is the
	// contract the rest of the system is written against.
	BestOfAll bool
}

func NewPathFinder(caller chain.Caller, dex *v2.Registry) (*PathFinder, error) {
	routerABI, err := abi.JSON(strings.NewReader(v2.RouterABI))
	if err != nil {
		return nil, fmt.Errorf("parse router ABI: %w", err)
	}
	return &PathFinder{caller: caller, dex: dex, routerABI: routerABI}, nil
}

// routable maps the native sentinel onto the wrapped-native contract; the
// router only understands ERC-20 addresses.
func (pf *PathFinder) routable(addr common.Address) common.Address {
	if addr == token.NativeAddress {
		return pf.dex.WMON()
	}
	return addr
}

// Candidates enumerates paths in the deterministic tie-break order: the
// direct pair first, then one-hop paths through each configured base token
// in declared order.
func (pf *PathFinder) Candidates(tokenIn, tokenOut common.Address) [][]common.Address {
	in := pf.routable(tokenIn)
	out := pf.routable(tokenOut)

	candidates := [][]common.Address{{in, out}}
	for _, base := range pf.dex.BaseTokens() {
		if base == in || base == out {
			continue
		}
		candidates = append(candidates, []common.Address{in, base, out})
	}
	return candidates
}

// Find probes candidates sequentially and returns the first with a nonzero
// final output. Probing is strictly sequential: racing candidates and taking
// an arbitrary responder would break the tie-break contract. A failed probe
// rejects only that candidate.
func (pf *PathFinder) Find(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int) (*Route, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("pathfinder: amountIn must be positive")
	}

	candidates := pf.Candidates(tokenIn, tokenOut)

	var best *Route
	for _, path := range candidates {
		amounts, err := pf.probe(ctx, amountIn, path)
		if err != nil {
			telemetry.Debugf("[pathfinder] candidate rejected %v: %v", hexPath(path), err)
			continue
		}
		out := amounts[len(amounts)-1]
		if out.Sign() <= 0 {
			telemetry.Debugf("[pathfinder] candidate dry %v", hexPath(path))
			continue
		}

		route := &Route{Path: path, Amounts: amounts}
		if !pf.BestOfAll {
			telemetry.Debugf("[pathfinder] selected %v out=%s", hexPath(path), out.String())
			return route, nil
		}
		// Best-of-N keeps direct-path-first as the tie-break: a later
		// candidate must be strictly better to displace an earlier one.
		if best == nil || out.Cmp(best.AmountOut()) > 0 {
			best = route
		}
	}

	if best != nil {
		return best, nil
	}
	return nil, &NoRouteError{TokenIn: tokenIn, TokenOut: tokenOut, Attempted: candidates}
}

// probe runs one read-only getAmountsOut call for a candidate path.
func (pf *PathFinder) probe(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	data, err := pf.routerABI.Pack("getAmountsOut", amountIn, path)
	if err != nil {
		return nil, fmt.Errorf("pack getAmountsOut: %w", err)
	}

	routerAddr := pf.dex.Router()
	result, err := pf.caller.CallContract(ctx, ethereum.CallMsg{
		To:   &routerAddr,
		Data: data,
	}, nil)
	if err != nil {
		return nil, err
	}

	var amounts []*big.Int
	if err := pf.routerABI.UnpackIntoInterface(&amounts, "getAmountsOut", result); err != nil {
		return nil, fmt.Errorf("unpack getAmountsOut: %w", err)
	}
	if len(amounts) != len(path) {
		return nil, fmt.Errorf("router returned %d amounts for %d hops", len(amounts), len(path))
	}
	return amounts, nil
}

func hexPath(path []common.Address) []string {
	out := make([]string, len(path))
	for i, p := range path {
		out[i] = p.Hex()
	}
	return out
}
