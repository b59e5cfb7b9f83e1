package router

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v2 "github.com/Oussama2008x/kuru-nexus-swap/internal/dex/v2"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/token"
)

var (
	routerAddr = common.HexToAddress("0x00000000000000000000000000000000000000A1")
	wmonAddr   = common.HexToAddress("0x760AfE86e5de5fa0Ee542fc7B7B713e1c5425701")
	usdcAddr   = common.HexToAddress("0xf817257fed379853cDe0fa4F97AB987181B1E5Ea")
	usdtAddr   = common.HexToAddress("0x88b8E2161DEDC77EF4ab7585569D2415a1C1055D")
	dakAddr    = common.HexToAddress("0x0F0BDEbF0F83cD1EE3974779Bcb7315f9808c714")
)

// fakeCaller answers getAmountsOut from a canned path -> amounts map. Paths
// not in the table get an error, like a reverting router call.
type fakeCaller struct {
	routes map[string][]*big.Int
	calls  [][]common.Address
	router abi.ABI
}

func newFakeCaller(t *testing.T) *fakeCaller {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(v2.RouterABI))
	require.NoError(t, err)
	return &fakeCaller{routes: make(map[string][]*big.Int), router: parsed}
}

func pathKey(path []common.Address) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = p.Hex()
	}
	return strings.Join(parts, ">")
}

func (f *fakeCaller) set(amounts []*big.Int, path ...common.Address) {
	f.routes[pathKey(path)] = amounts
}

func (f *fakeCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	method := f.router.Methods["getAmountsOut"]
	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	path := args[1].([]common.Address)
	f.calls = append(f.calls, path)

	amounts, ok := f.routes[pathKey(path)]
	if !ok {
		return nil, errors.New("execution reverted: ds-math-sub-underflow")
	}
	return method.Outputs.Pack(amounts)
}

func newTestFinder(t *testing.T, caller *fakeCaller) *PathFinder {
	t.Helper()
	dex := v2.NewRegistry(v2.Config{
		Network:    v2.MonadTestnet,
		Router:     routerAddr,
		WMON:       wmonAddr,
		BaseTokens: []common.Address{wmonAddr, usdcAddr},
	})
	pf, err := NewPathFinder(caller, dex)
	require.NoError(t, err)
	return pf
}

func TestCandidatesDirectFirst(t *testing.T) {
	pf := newTestFinder(t, newFakeCaller(t))

	candidates := pf.Candidates(usdtAddr, dakAddr)
	require.Len(t, candidates, 3)
	assert.Equal(t, []common.Address{usdtAddr, dakAddr}, candidates[0])
	assert.Equal(t, []common.Address{usdtAddr, wmonAddr, dakAddr}, candidates[1])
	assert.Equal(t, []common.Address{usdtAddr, usdcAddr, dakAddr}, candidates[2])
}

func TestCandidatesSkipBaseEqualToEndpoint(t *testing.T) {
	pf := newTestFinder(t, newFakeCaller(t))

	// USDC is a base token; it must not appear as a hop for its own pair.
	candidates := pf.Candidates(usdcAddr, dakAddr)
	require.Len(t, candidates, 2)
	assert.Equal(t, []common.Address{usdcAddr, dakAddr}, candidates[0])
	assert.Equal(t, []common.Address{usdcAddr, wmonAddr, dakAddr}, candidates[1])
}

func TestCandidatesMapNativeToWrapped(t *testing.T) {
	pf := newTestFinder(t, newFakeCaller(t))

	candidates := pf.Candidates(token.NativeAddress, usdcAddr)
	require.NotEmpty(t, candidates)
	assert.Equal(t, []common.Address{wmonAddr, usdcAddr}, candidates[0])
}

func TestFindReturnsFirstMatch(t *testing.T) {
	caller := newFakeCaller(t)
	// Direct path has liquidity; hop paths would give more but must not win.
	caller.set([]*big.Int{big.NewInt(1000), big.NewInt(500)}, usdtAddr, dakAddr)
	caller.set([]*big.Int{big.NewInt(1000), big.NewInt(2000), big.NewInt(900)}, usdtAddr, wmonAddr, dakAddr)

	pf := newTestFinder(t, caller)
	route, err := pf.Find(context.Background(), usdtAddr, dakAddr, big.NewInt(1000))
	require.NoError(t, err)

	assert.Equal(t, []common.Address{usdtAddr, dakAddr}, route.Path)
	assert.Equal(t, "500", route.AmountOut().String())
	// first match stops probing
	assert.Len(t, caller.calls, 1)
}

func TestFindFallsThroughToHopPath(t *testing.T) {
	caller := newFakeCaller(t)
	caller.set([]*big.Int{big.NewInt(1000), big.NewInt(2000), big.NewInt(900)}, usdtAddr, wmonAddr, dakAddr)

	pf := newTestFinder(t, caller)
	route, err := pf.Find(context.Background(), usdtAddr, dakAddr, big.NewInt(1000))
	require.NoError(t, err)

	assert.Equal(t, []common.Address{usdtAddr, wmonAddr, dakAddr}, route.Path)
	assert.Equal(t, "900", route.AmountOut().String())
}

func TestFindSkipsDryCandidates(t *testing.T) {
	caller := newFakeCaller(t)
	// Direct path exists but quotes zero output; the hop path must win.
	caller.set([]*big.Int{big.NewInt(1000), big.NewInt(0)}, usdtAddr, dakAddr)
	caller.set([]*big.Int{big.NewInt(1000), big.NewInt(2000), big.NewInt(900)}, usdtAddr, wmonAddr, dakAddr)

	pf := newTestFinder(t, caller)
	route, err := pf.Find(context.Background(), usdtAddr, dakAddr, big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, "900", route.AmountOut().String())
}

func TestFindNoRoute(t *testing.T) {
	caller := newFakeCaller(t)
	pf := newTestFinder(t, caller)

	_, err := pf.Find(context.Background(), usdtAddr, dakAddr, big.NewInt(1000))
	require.Error(t, err)

	var noRoute *NoRouteError
	require.ErrorAs(t, err, &noRoute)
	assert.Equal(t, usdtAddr, noRoute.TokenIn)
	assert.Equal(t, dakAddr, noRoute.TokenOut)
	// every candidate was attempted before giving up
	assert.Len(t, noRoute.Attempted, 3)
	assert.Len(t, caller.calls, 3)
}

func TestFindBestOfAll(t *testing.T) {
	caller := newFakeCaller(t)
	caller.set([]*big.Int{big.NewInt(1000), big.NewInt(500)}, usdtAddr, dakAddr)
	caller.set([]*big.Int{big.NewInt(1000), big.NewInt(2000), big.NewInt(900)}, usdtAddr, wmonAddr, dakAddr)
	// Equal output must NOT displace the earlier candidate.
	caller.set([]*big.Int{big.NewInt(1000), big.NewInt(3000), big.NewInt(900)}, usdtAddr, usdcAddr, dakAddr)

	pf := newTestFinder(t, caller)
	pf.BestOfAll = true

	route, err := pf.Find(context.Background(), usdtAddr, dakAddr, big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, []common.Address{usdtAddr, wmonAddr, dakAddr}, route.Path)
	assert.Equal(t, "900", route.AmountOut().String())
	assert.Len(t, caller.calls, 3)
}

func TestFindRejectsNonPositiveAmount(t *testing.T) {
	pf := newTestFinder(t, newFakeCaller(t))

	_, err := pf.Find(context.Background(), usdtAddr, dakAddr, nil)
	assert.Error(t, err)
	_, err = pf.Find(context.Background(), usdtAddr, dakAddr, big.NewInt(0))
	assert.Error(t, err)
}
