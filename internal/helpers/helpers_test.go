package helpers

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAddress(t *testing.T) {
	addr, err := ValidateAddress("0x760AfE86e5de5fa0Ee542fc7B7B713e1c5425701")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x760AfE86e5de5fa0Ee542fc7B7B713e1c5425701"), addr)

	// the zero address is a valid input (native sentinel)
	addr, err = ValidateAddress("0x0000000000000000000000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, addr)

	for _, bad := range []string{"", "0x123", "not-an-address", "0xZZ60AfE86e5de5fa0Ee542fc7B7B713e1c542570"} {
		_, err := ValidateAddress(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestValidatePrivateKey(t *testing.T) {
	// well-known test vector key
	keyHex := "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

	key, addr, err := ValidatePrivateKey(keyHex)
	require.NoError(t, err)
	require.NotNil(t, key)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), addr)

	// 0x prefix is accepted
	_, addr2, err := ValidatePrivateKey("0x" + keyHex)
	require.NoError(t, err)
	assert.Equal(t, addr, addr2)

	for _, bad := range []string{"", "abcd", keyHex + "00"} {
		_, _, err := ValidatePrivateKey(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestValidateTokenPair(t *testing.T) {
	a := common.HexToAddress("0x01")
	b := common.HexToAddress("0x02")

	assert.NoError(t, ValidateTokenPair(a, b))
	// zero-address native leg is legal
	assert.NoError(t, ValidateTokenPair(common.Address{}, a))
	assert.Error(t, ValidateTokenPair(a, a))
	assert.Error(t, ValidateTokenPair(common.Address{}, common.Address{}))
}

func TestValidateSlippageBps(t *testing.T) {
	assert.NoError(t, ValidateSlippageBps(0))
	assert.NoError(t, ValidateSlippageBps(50))
	assert.NoError(t, ValidateSlippageBps(5000))
	assert.Error(t, ValidateSlippageBps(-1))
	assert.Error(t, ValidateSlippageBps(5001))
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "0", FormatUnits(nil, 18))
	assert.Equal(t, "0", FormatUnits(big.NewInt(0), 18))
	// tiered precision
	assert.Equal(t, "0.300000", FormatUnits(big.NewInt(300000000000000000), 18))
	assert.Equal(t, "1000.00", FormatUnits(big.NewInt(1000000000), 6))
	assert.Equal(t, "2.5000", FormatUnits(big.NewInt(2500000), 6))
}

func TestFormatAddress(t *testing.T) {
	addr := common.HexToAddress("0x760AfE86e5de5fa0Ee542fc7B7B713e1c5425701")
	short := FormatAddress(addr)
	assert.Equal(t, "0x760A...5701", short)
}

func TestGweiConversions(t *testing.T) {
	wei, err := GweiToWei("100")
	require.NoError(t, err)
	assert.Equal(t, "100000000000", wei.String())

	wei, err = GweiToWei("1.5")
	require.NoError(t, err)
	assert.Equal(t, "1500000000", wei.String())

	assert.Equal(t, "100", WeiToGwei(big.NewInt(100000000000)))
	assert.Equal(t, "0", WeiToGwei(nil))

	_, err = GweiToWei("")
	assert.Error(t, err)
	_, err = GweiToWei("abc")
	assert.Error(t, err)
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$12.34", FormatUSD(decimal.NewFromFloat(12.34)))
	assert.Equal(t, "$0.00", FormatUSD(decimal.Zero))
}
