package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/telemetry"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/token"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/units"
)

// KuruClient talks to the Kuru order-book API. The matching engine behind it
// is a black box: we send a (tokenIn, tokenOut, amountIn) triple and get an
// output estimate back, or an error that the engine treats as "try the next
// source".
type KuruClient struct {
	baseURL string
	http    *http.Client
}

const kuruTimeout = 15 * time.Second

func NewKuruClient(baseURL string) *KuruClient {
	return &KuruClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: kuruTimeout},
	}
}

type kuruQuoteRequest struct {
	TokenIn  string `json:"tokenIn"`
	TokenOut string `json:"tokenOut"`
	AmountIn string `json:"amountIn"` // base units, decimal string
}

type kuruQuoteResponse struct {
	AmountOut   string  `json:"amountOut"` // base units, decimal string
	PriceImpact float64 `json:"priceImpact,omitempty"`
	GasEstimate uint64  `json:"gasEstimate,omitempty"`
}

// GetQuote asks the order book for an output estimate.
func (c *KuruClient) GetQuote(ctx context.Context, tokenIn, tokenOut string, amountInBase *big.Int) (*kuruQuoteResponse, error) {
	body, err := json.Marshal(kuruQuoteRequest{
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		AmountIn: amountInBase.String(),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/quote", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kuru quote request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("kuru API status %d: %s", resp.StatusCode, string(data))
	}

	var out kuruQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode kuru response: %w", err)
	}
	return &out, nil
}

// KuruSource adapts the order-book client to the Source interface. It is the
// primary quote source when configured.
type KuruSource struct {
	client *KuruClient
}

func NewKuruSource(client *KuruClient) *KuruSource {
	return &KuruSource{client: client}
}

func (s *KuruSource) Name() string { return "kuru" }

func (s *KuruSource) Quote(ctx context.Context, req Request, amountInBase *big.Int) (*Quote, error) {
	if s.client == nil {
		return nil, ErrNoData
	}

	resp, err := s.client.GetQuote(ctx, req.TokenIn.Address.Hex(), req.TokenOut.Address.Hex(), amountInBase)
	if err != nil {
		return nil, err
	}

	outBase, ok := new(big.Int).SetString(resp.AmountOut, 10)
	if !ok || outBase.Sign() <= 0 {
		return nil, ErrNoData
	}

	inDec, err := decimal.NewFromString(req.AmountIn)
	if err != nil || inDec.IsZero() {
		return nil, ErrNoData
	}
	outStr := units.FromBaseUnits(outBase, req.TokenOut.Decimals)
	outDec, _ := decimal.NewFromString(outStr)

	market := outDec.Div(inDec)
	impact := decimal.NewFromFloat(resp.PriceImpact)
	exec := market.Mul(decimal.NewFromInt(1).Sub(impact.Div(decimal.NewFromInt(100))))

	telemetry.Debugf("[quote] kuru %s->%s out=%s impact=%.3f%%",
		req.TokenIn.Symbol, req.TokenOut.Symbol, outStr, resp.PriceImpact)

	return &Quote{
		TokenIn:        req.TokenIn,
		TokenOut:       req.TokenOut,
		InputAmount:    req.AmountIn,
		OutputAmount:   outStr,
		PriceImpactPct: impact,
		Route:          []token.Token{req.TokenIn, req.TokenOut},
		SlippageBps:    req.SlippageBps,
		MarketPrice:    market,
		ExecutionPrice: exec,
		Source:         s.Name(),
	}, nil
}
