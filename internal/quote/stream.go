package quote

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/telemetry"
)

// BookUpdate is one order-book change event for a market.
type BookUpdate struct {
	TokenIn   common.Address
	TokenOut  common.Address
	BestBid   string // base units
	BestAsk   string // base units
	Timestamp time.Time
}

// Subscription is a cancellable stream of book updates. Updates stops when
// the subscription is torn down; Err reports why.
type Subscription struct {
	updates chan BookUpdate
	cancel  context.CancelFunc
	err     error
}

func (s *Subscription) Updates() <-chan BookUpdate { return s.updates }

func (s *Subscription) Err() error { return s.err }

// Close tears the subscription down. Safe to call more than once.
func (s *Subscription) Close() {
	s.cancel()
}

// defaultBookPollInterval paces the book refresh. The API has no push
// channel on testnet, so the stream is poll-backed.
const defaultBookPollInterval = 5 * time.Second

// Subscribe produces a lazy stream of book updates for a market, polling the
// order-book API until ctx is cancelled or Close is called.
func (c *KuruClient) Subscribe(ctx context.Context, tokenIn, tokenOut common.Address, probeAmount string) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		updates: make(chan BookUpdate, 16),
		cancel:  cancel,
	}

	go func() {
		defer close(sub.updates)
		ticker := time.NewTicker(defaultBookPollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				sub.err = ctx.Err()
				return
			case <-ticker.C:
				amount, ok := newBigInt(probeAmount)
				if !ok {
					continue
				}
				resp, err := c.GetQuote(ctx, tokenIn.Hex(), tokenOut.Hex(), amount)
				if err != nil {
					telemetry.Debugf("[book] poll failed %s->%s: %v", tokenIn.Hex(), tokenOut.Hex(), err)
					continue
				}
				update := BookUpdate{
					TokenIn:   tokenIn,
					TokenOut:  tokenOut,
					BestAsk:   resp.AmountOut,
					Timestamp: time.Now(),
				}
				select {
				case sub.updates <- update:
				default:
					// Slow consumer; drop rather than block the poll loop.
				}
			}
		}
	}()

	return sub
}

func newBigInt(s string) (*big.Int, bool) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() <= 0 {
		return nil, false
	}
	return v, true
}
