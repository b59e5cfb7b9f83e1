package scanner

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	v2 "github.com/Oussama2008x/kuru-nexus-swap/internal/dex/v2"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/token"
)

// CodeReader is the chain surface the scanner needs: eth_call plus
// bytecode lookup.
type CodeReader interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// Report lists what the scanner found wrong with a configured token.
type Report struct {
	Token   token.Token
	Pass    bool
	Reasons []string
}

// Scanner sanity-checks configured token addresses against the chain: the
// address must hold code and its on-chain decimals must match the registry.
// A mismatched decimals entry silently corrupts every amount conversion, so
// this runs before anything irreversible.
type Scanner struct {
	reader CodeReader
	erc20  abi.ABI
	budget time.Duration
}

func New(reader CodeReader) (*Scanner, error) {
	erc20, err := abi.JSON(strings.NewReader(v2.ERC20ABI))
	if err != nil {
		return nil, fmt.Errorf("parse erc20 ABI: %w", err)
	}
	return &Scanner{reader: reader, erc20: erc20, budget: 5 * time.Second}, nil
}

// Verify checks every non-native token in the registry. Probe failures are
// reported, not returned; the caller sees one Report per token.
func (s *Scanner) Verify(ctx context.Context, tokens *token.Registry) []Report {
	reports := make([]Report, 0, tokens.Len())
	for _, t := range tokens.All() {
		if t.IsNative() {
			continue
		}
		reports = append(reports, s.verifyOne(ctx, t))
	}
	return reports
}

func (s *Scanner) verifyOne(parent context.Context, t token.Token) Report {
	ctx, cancel := context.WithTimeout(parent, s.budget)
	defer cancel()

	r := Report{Token: t, Pass: true}

	code, err := s.reader.CodeAt(ctx, t.Address, nil)
	if err != nil {
		r.Pass = false
		r.Reasons = append(r.Reasons, fmt.Sprintf("code fetch failed: %v", err))
		return r
	}
	if len(code) == 0 {
		r.Pass = false
		r.Reasons = append(r.Reasons, "no contract code at address")
		return r
	}

	decimals, err := s.probeDecimals(ctx, t.Address)
	if err != nil {
		r.Pass = false
		r.Reasons = append(r.Reasons, fmt.Sprintf("decimals() failed: %v", err))
		return r
	}
	if decimals != t.Decimals {
		r.Pass = false
		r.Reasons = append(r.Reasons, fmt.Sprintf("decimals mismatch: chain says %d, config says %d", decimals, t.Decimals))
	}
	return r
}

func (s *Scanner) probeDecimals(ctx context.Context, addr common.Address) (uint8, error) {
	data, err := s.erc20.Pack("decimals")
	if err != nil {
		return 0, err
	}
	out, err := s.reader.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: data}, nil)
	if err != nil {
		return 0, err
	}
	var decimals uint8
	if err := s.erc20.UnpackIntoInterface(&decimals, "decimals", out); err != nil {
		return 0, err
	}
	return decimals, nil
}
