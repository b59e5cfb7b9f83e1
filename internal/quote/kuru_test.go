package quote

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKuruClientGetQuote(t *testing.T) {
	var gotReq kuruQuoteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/quote", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(kuruQuoteResponse{
			AmountOut:   "300000000000000000",
			PriceImpact: 0.12,
		})
	}))
	defer srv.Close()

	client := NewKuruClient(srv.URL)
	resp, err := client.GetQuote(context.Background(), usdcAddr.Hex(), wmonAddr.Hex(), big.NewInt(1000000000))
	require.NoError(t, err)

	assert.Equal(t, usdcAddr.Hex(), gotReq.TokenIn)
	assert.Equal(t, wmonAddr.Hex(), gotReq.TokenOut)
	assert.Equal(t, "1000000000", gotReq.AmountIn)
	assert.Equal(t, "300000000000000000", resp.AmountOut)
	assert.InDelta(t, 0.12, resp.PriceImpact, 1e-9)
}

func TestKuruClientNotFoundIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewKuruClient(srv.URL)
	_, err := client.GetQuote(context.Background(), usdcAddr.Hex(), wmonAddr.Hex(), big.NewInt(1))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestKuruClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "order book offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewKuruClient(srv.URL)
	_, err := client.GetQuote(context.Background(), usdcAddr.Hex(), wmonAddr.Hex(), big.NewInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestKuruSourceQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(kuruQuoteResponse{
			AmountOut:   "300000000000000000",
			PriceImpact: 0.5,
		})
	}))
	defer srv.Close()

	src := NewKuruSource(NewKuruClient(srv.URL))
	q, err := src.Quote(context.Background(), Request{
		TokenIn:     usdcToken,
		TokenOut:    wmonToken,
		AmountIn:    "1000",
		SlippageBps: 50,
	}, big.NewInt(1000000000))
	require.NoError(t, err)

	assert.Equal(t, "kuru", q.Source)
	assert.Equal(t, "0.3", q.OutputAmount)
	assert.Equal(t, "0.5", q.PriceImpactPct.String())
	// market = 0.3 / 1000
	assert.Equal(t, "0.0003", q.MarketPrice.String())
	// execution = market * (1 - 0.5%)
	assert.True(t, q.ExecutionPrice.LessThan(q.MarketPrice))
	assert.EqualValues(t, 50, q.SlippageBps)
}

func TestKuruSourceRejectsZeroOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(kuruQuoteResponse{AmountOut: "0"})
	}))
	defer srv.Close()

	src := NewKuruSource(NewKuruClient(srv.URL))
	_, err := src.Quote(context.Background(), Request{
		TokenIn:  usdcToken,
		TokenOut: wmonToken,
		AmountIn: "1000",
	}, big.NewInt(1000000000))
	assert.ErrorIs(t, err, ErrNoData)
}
