package token

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokens() []Token {
	return []Token{
		{Symbol: "MON", Name: "Monad", Address: NativeAddress, Decimals: 18},
		{Symbol: "WMON", Name: "Wrapped Monad", Address: common.HexToAddress("0x760AfE86e5de5fa0Ee542fc7B7B713e1c5425701"), Decimals: 18},
		{Symbol: "usdc", Name: "USD Coin", Address: common.HexToAddress("0xf817257fed379853cDe0fa4F97AB987181B1E5Ea"), Decimals: 6},
	}
}

func TestRegistryLookup(t *testing.T) {
	r, err := NewRegistry(testTokens())
	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())

	// symbols are normalized to upper case
	usdc, ok := r.BySymbol("USDC")
	require.True(t, ok)
	assert.Equal(t, "USDC", usdc.Symbol)
	assert.Equal(t, uint8(6), usdc.Decimals)

	// lookup is case-insensitive
	_, ok = r.BySymbol("wmon")
	assert.True(t, ok)

	byAddr, ok := r.ByAddress(usdc.Address)
	require.True(t, ok)
	assert.Equal(t, "USDC", byAddr.Symbol)

	_, ok = r.BySymbol("NOPE")
	assert.False(t, ok)
}

func TestRegistryPreservesOrder(t *testing.T) {
	r, err := NewRegistry(testTokens())
	require.NoError(t, err)

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, "MON", all[0].Symbol)
	assert.Equal(t, "WMON", all[1].Symbol)
	assert.Equal(t, "USDC", all[2].Symbol)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry([]Token{
		{Symbol: "USDC", Decimals: 6},
		{Symbol: "usdc", Decimals: 6},
	})
	assert.Error(t, err)
}

func TestRegistryRejectsDuplicateAddress(t *testing.T) {
	addr := common.HexToAddress("0xf817257fed379853cDe0fa4F97AB987181B1E5Ea")
	_, err := NewRegistry([]Token{
		{Symbol: "USDC", Address: addr, Decimals: 6},
		{Symbol: "USDX", Address: addr, Decimals: 6},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "share address")
}

func TestRegistryRejectsSecondNativeSentinel(t *testing.T) {
	_, err := NewRegistry([]Token{
		{Symbol: "MON", Address: NativeAddress, Decimals: 18},
		{Symbol: "USDC", Address: NativeAddress, Decimals: 6},
	})
	assert.Error(t, err)
}

func TestRegistryRejectsEmptySymbol(t *testing.T) {
	_, err := NewRegistry([]Token{{Symbol: "", Decimals: 18}})
	assert.Error(t, err)
}

func TestIsNative(t *testing.T) {
	assert.True(t, Token{Address: NativeAddress}.IsNative())
	assert.False(t, Token{Address: common.HexToAddress("0x01")}.IsNative())
}
