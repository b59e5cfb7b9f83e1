package balances

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/chain"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/executor"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/telemetry"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/token"
)

// DefaultInterval between balance refreshes while the poller runs.
const DefaultInterval = 10 * time.Second

// Snapshot maps token symbol to base-unit balance at fetch time.
type Snapshot struct {
	Balances map[string]*big.Int
	At       time.Time
}

// Poller re-fetches native and ERC-20 balances on a fixed interval. There
// is no cache beyond the latest snapshot; every refresh goes to source.
type Poller struct {
	cc        *chain.Context
	allowance *executor.AllowanceManager
	interval  time.Duration

	mu     sync.RWMutex
	latest Snapshot
}

func NewPoller(cc *chain.Context, allowance *executor.AllowanceManager, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{cc: cc, allowance: allowance, interval: interval}
}

// Run polls until ctx is cancelled. An immediate fetch happens on start so
// callers see data before the first tick.
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// Latest returns the most recent snapshot; zero-valued before first fetch.
func (p *Poller) Latest() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// Fetch reads all configured balances once, bypassing the interval.
func (p *Poller) Fetch(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{
		Balances: make(map[string]*big.Int),
		At:       time.Now(),
	}

	for _, t := range p.cc.Tokens.All() {
		var (
			bal *big.Int
			err error
		)
		if t.IsNative() {
			bal, err = p.cc.Client.BalanceAt(ctx, p.cc.WalletAddr, nil)
		} else {
			bal, err = p.allowance.BalanceOf(ctx, t.Address, p.cc.WalletAddr)
		}
		if err != nil {
			return Snapshot{}, err
		}
		snap.Balances[t.Symbol] = bal
	}
	return snap, nil
}

func (p *Poller) refresh(ctx context.Context) {
	snap, err := p.Fetch(ctx)
	if err != nil {
		telemetry.Debugf("[balances] refresh failed: %v", err)
		return
	}

	p.mu.Lock()
	p.latest = snap
	p.mu.Unlock()
}

// Balance returns the latest known balance for a token, or nil.
func (p *Poller) Balance(t token.Token) *big.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.latest.Balances == nil {
		return nil
	}
	return p.latest.Balances[t.Symbol]
}
