package router

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routerlabs/quote-aggregator/internal/quote"
)

func testRequest() *quote.Request {
	s := 0.5
	return &quote.Request{
		RequestID:       "req-1",
		TokenInChainID:  1,
		TokenOutChainID: 1,
		TokenIn:         "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		TokenOut:        "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		Amount:          big.NewInt(100),
		TradeType:       quote.TradeTypeExactInput,
		Slippage:        &s,
	}
}

func TestClient_Quote(t *testing.T) {
	var gotBody map[string]any
	var gotAPIKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/quote", r.URL.Path)
		gotAPIKey = r.Header.Get("x-api-key")

		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &gotBody))

		_, _ = w.Write([]byte(`{"amount":"100","quote":"95"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)

	bips := 5
	raw, err := c.Quote(context.Background(), testRequest(), quote.RoutingTypeClassic, QuoteOptions{
		PortionBips:      &bips,
		PortionRecipient: "0xfee",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"100","quote":"95"}`, string(raw))

	assert.Equal(t, "secret", gotAPIKey)
	assert.Equal(t, "req-1", gotBody["requestId"])
	assert.Equal(t, "100", gotBody["amount"])
	assert.Equal(t, "EXACT_INPUT", gotBody["type"])
	assert.Equal(t, "CLASSIC", gotBody["routingType"])
	assert.Equal(t, 0.5, gotBody["slippageTolerance"])
	assert.Equal(t, float64(5), gotBody["portionBips"])
	assert.Equal(t, "0xfee", gotBody["portionRecipient"])
}

func TestClient_Quote_OmitsAbsentPortion(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &gotBody))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	_, err := c.Quote(context.Background(), testRequest(), quote.RoutingTypeClassic, QuoteOptions{})
	require.NoError(t, err)

	_, present := gotBody["portionBips"]
	assert.False(t, present)
	_, present = gotBody["portionRecipient"]
	assert.False(t, present)
}

func TestClient_Quote_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no route"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	raw, err := c.Quote(context.Background(), testRequest(), quote.RoutingTypeClassic, QuoteOptions{})
	assert.Nil(t, raw)
	require.Error(t, err)

	httpErr, ok := err.(*HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Contains(t, httpErr.Error(), "no route")
}

func TestClient_Quote_RequiresAmount(t *testing.T) {
	c := NewClient("http://localhost:1", "", time.Second)

	req := testRequest()
	req.Amount = nil
	_, err := c.Quote(context.Background(), req, quote.RoutingTypeClassic, QuoteOptions{})
	assert.Error(t, err)
}
