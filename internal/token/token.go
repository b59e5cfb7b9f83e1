package token

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// NativeAddress is the sentinel address for the chain's native asset (MON).
// The wrapped representation (WMON) is a real ERC-20 contract; the two are
// paired 1:1 but distinguished by address everywhere in this codebase.
var NativeAddress = common.Address{}

// Token identifies a tradable asset. Values are immutable after
// configuration; Decimals never changes for a token's lifetime.
type Token struct {
	Symbol   string
	Name     string
	Address  common.Address
	Decimals uint8
}

func (t Token) IsNative() bool {
	return t.Address == NativeAddress
}

func (t Token) String() string {
	return t.Symbol
}

// Registry is the configured token list, keyed by symbol and by address.
type Registry struct {
	mu        sync.RWMutex
	bySymbol  map[string]Token
	byAddress map[common.Address]Token
	order     []string
}

func NewRegistry(tokens []Token) (*Registry, error) {
	r := &Registry{
		bySymbol:  make(map[string]Token, len(tokens)),
		byAddress: make(map[common.Address]Token, len(tokens)),
	}
	for _, t := range tokens {
		sym := strings.ToUpper(t.Symbol)
		if sym == "" {
			return nil, fmt.Errorf("token with empty symbol: %s", t.Address.Hex())
		}
		if _, dup := r.bySymbol[sym]; dup {
			return nil, fmt.Errorf("duplicate token symbol: %s", sym)
		}
		if prev, dup := r.byAddress[t.Address]; dup {
			return nil, fmt.Errorf("tokens %s and %s share address %s", prev.Symbol, sym, t.Address.Hex())
		}
		t.Symbol = sym
		r.bySymbol[sym] = t
		r.byAddress[t.Address] = t
		r.order = append(r.order, sym)
	}
	return r, nil
}

func (r *Registry) BySymbol(symbol string) (Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.bySymbol[strings.ToUpper(symbol)]
	return t, ok
}

func (r *Registry) ByAddress(addr common.Address) (Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byAddress[addr]
	return t, ok
}

// All returns tokens in declared order.
func (r *Registry) All() []Token {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Token, 0, len(r.order))
	for _, sym := range r.order {
		out = append(out, r.bySymbol[sym])
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
