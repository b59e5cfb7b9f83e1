package scanner

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

type fakeReader struct {
	erc20    abi.ABI
	code     map[common.Address][]byte
	decimals map[common.Address]uint8
}

func newFakeReader(t *testing.T) *fakeReader {
	t.Helper()
	erc20, err := abi.JSON(strings.NewReader(v2.ERC20ABI))
	require.NoError(t, err)
	return &fakeReader{
		erc20:    erc20,
		code:     make(map[common.Address][]byte),
		decimals: make(map[common.Address]uint8),
	}
}

func (f *fakeReader) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return f.code[account], nil
}

func (f *fakeReader) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	d, ok := f.decimals[*msg.To]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return f.erc20.Methods["decimals"].Outputs.Pack(d)
}

func TestVerifyPasses(t *testing.T) {
	usdc := common.HexToAddress("0xf817257fed379853cDe0fa4F97AB987181B1E5Ea")

	reader := newFakeReader(t)
	reader.code[usdc] = []byte{0x60, 0x80}
	reader.decimals[usdc] = 6

	tokens, err := token.NewRegistry([]token.Token{
		{Symbol: "MON", Address: token.NativeAddress, Decimals: 18},
		{Symbol: "USDC", Address: usdc, Decimals: 6},
	})
	require.NoError(t, err)

	sc, err := New(reader)
	require.NoError(t, err)

	reports := sc.Verify(context.Background(), tokens)
	// the native token is never probed
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Pass)
	assert.Empty(t, reports[0].Reasons)
}

func TestVerifyFlagsMissingCode(t *testing.T) {
	empty := common.HexToAddress("0x0000000000000000000000000000000000000B0b")

	reader := newFakeReader(t)
	tokens, err := token.NewRegistry([]token.Token{
		{Symbol: "GHOST", Address: empty, Decimals: 18},
	})
	require.NoError(t, err)

	sc, err := New(reader)
	require.NoError(t, err)

	reports := sc.Verify(context.Background(), tokens)
	require.Len(t, reports, 1)
	assert.False(t, reports[0].Pass)
	assert.Contains(t, reports[0].Reasons[0], "no contract code")
}

func TestVerifyFlagsDecimalsMismatch(t *testing.T) {
	usdc := common.HexToAddress("0xf817257fed379853cDe0fa4F97AB987181B1E5Ea")

	reader := newFakeReader(t)
	reader.code[usdc] = []byte{0x60, 0x80}
	reader.decimals[usdc] = 18 // chain disagrees with config

	tokens, err := token.NewRegistry([]token.Token{
		{Symbol: "USDC", Address: usdc, Decimals: 6},
	})
	require.NoError(t, err)

	sc, err := New(reader)
	require.NoError(t, err)

	reports := sc.Verify(context.Background(), tokens)
	require.Len(t, reports, 1)
	assert.False(t, reports[0].Pass)
	assert.Contains(t, reports[0].Reasons[0], "decimals mismatch")
}
