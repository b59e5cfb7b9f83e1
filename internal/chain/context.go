package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	v2 "github.com/Oussama2008x/kuru-nexus-swap/internal/dex/v2"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/helpers"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/token"
)

// Caller is the read-only slice of the RPC client. Path probing, allowance
// reads and balance reads go through this so tests can stub the chain.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Backend is everything the executor needs from an RPC client.
// *ethclient.Client satisfies it.
type Backend interface {
	Caller
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Context bundles the RPC client, contract registry, token registry and
// signing identity. Every component takes one of these explicitly; there are
// no package-level singletons.
type Context struct {
	Client     Backend
	ChainID    *big.Int
	Dex        *v2.Registry
	Tokens     *token.Registry
	PrivateKey *ecdsa.PrivateKey
	WalletAddr common.Address
}

// Dial connects to the RPC endpoint and assembles a Context. privateKeyHex
// may be empty for read-only use (quoting, balances).
func Dial(ctx context.Context, rpcURL string, dex *v2.Registry, tokens *token.Registry, privateKeyHex string) (*Context, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("get chain ID: %w", err)
	}

	cc := &Context{
		Client:  client,
		ChainID: chainID,
		Dex:     dex,
		Tokens:  tokens,
	}

	if privateKeyHex != "" {
		key, addr, err := helpers.ValidatePrivateKey(privateKeyHex)
		if err != nil {
			return nil, err
		}
		cc.PrivateKey = key
		cc.WalletAddr = addr
	}

	return cc, nil
}

// CanSign reports whether the context carries a signing key.
func (c *Context) CanSign() bool {
	return c.PrivateKey != nil
}

// SignTx signs with the context identity using EIP-155.
func (c *Context) SignTx(tx *types.Transaction) (*types.Transaction, error) {
	if !c.CanSign() {
		return nil, fmt.Errorf("chain: no signing key configured")
	}
	return types.SignTx(tx, types.NewEIP155Signer(c.ChainID), c.PrivateKey)
}
