package helpers

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ValidateAddress checks if an address is valid
func ValidateAddress(address string) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("invalid address format: %s", address)
	}
	return common.HexToAddress(address), nil
}

// ValidateAmount checks if a base-unit amount is positive
func ValidateAmount(amount *big.Int) error {
	if amount == nil {
		return fmt.Errorf("amount is nil")
	}
	if amount.Sign() <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}

// ValidatePrivateKey validates and returns the private key
func ValidatePrivateKey(privateKeyHex string) (*ecdsa.PrivateKey, common.Address, error) {
	if privateKeyHex == "" {
		return nil, common.Address{}, fmt.Errorf("private key is empty")
	}

	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")

	// 64 hex chars = 32 bytes
	if len(privateKeyHex) != 64 {
		return nil, common.Address{}, fmt.Errorf("invalid private key length")
	}

	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("invalid private key: %w", err)
	}

	publicKey := privateKey.Public()
	publicKeyECDSA, ok := publicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, common.Address{}, fmt.Errorf("invalid public key type")
	}

	return privateKey, crypto.PubkeyToAddress(*publicKeyECDSA), nil
}

// ValidateTokenPair ensures the two legs of a swap are distinct tokens.
// The native sentinel (zero address) is a legal leg here.
func ValidateTokenPair(tokenIn, tokenOut common.Address) error {
	if tokenIn == tokenOut {
		return fmt.Errorf("token addresses must be different")
	}
	return nil
}

// ValidateSlippageBps ensures slippage tolerance is reasonable.
// 10000 bps would accept a total loss.
func ValidateSlippageBps(bps int64) error {
	if bps < 0 || bps > 5000 {
		return fmt.Errorf("slippage must be between 0 and 5000 bps")
	}
	return nil
}

// ValidateGasPrice ensures gas price is within reasonable bounds
func ValidateGasPrice(gasPrice *big.Int, maxGasPrice *big.Int) error {
	if gasPrice == nil {
		return fmt.Errorf("gas price is nil")
	}
	if gasPrice.Sign() <= 0 {
		return fmt.Errorf("gas price must be positive")
	}
	if maxGasPrice != nil && gasPrice.Cmp(maxGasPrice) > 0 {
		return fmt.Errorf("gas price exceeds maximum: %s > %s", gasPrice.String(), maxGasPrice.String())
	}
	return nil
}
