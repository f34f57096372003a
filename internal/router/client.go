// Package router talks to the smart-order-router backend that actually
// prices trades. Its responses are opaque here: raw payloads handed to the
// quote factory together with the routing type they were requested for.
package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/routerlabs/quote-aggregator/internal/quote"
)

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  strings.TrimSpace(apiKey),
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("router http %d", e.StatusCode)
	}
	return fmt.Sprintf("router http %d: %s", e.StatusCode, b)
}

type quoteRequest struct {
	RequestID        string   `json:"requestId,omitempty"`
	TokenInChainID   int      `json:"tokenInChainId"`
	TokenOutChainID  int      `json:"tokenOutChainId"`
	TokenIn          string   `json:"tokenIn"`
	TokenOut         string   `json:"tokenOut"`
	Amount           string   `json:"amount"`
	Type             string   `json:"type"`
	RoutingType      string   `json:"routingType"`
	Swapper          string   `json:"swapper,omitempty"`
	Slippage         *float64 `json:"slippageTolerance,omitempty"`
	PortionBips      *int     `json:"portionBips,omitempty"`
	PortionRecipient string   `json:"portionRecipient,omitempty"`
}

// QuoteOptions carries per-call extras forwarded to the backend.
type QuoteOptions struct {
	PortionBips      *int
	PortionRecipient string
}

// Quote requests a quote for the given routing type and returns the raw
// response body for factory parsing.
func (c *Client) Quote(ctx context.Context, req *quote.Request, routingType quote.RoutingType, opts QuoteOptions) ([]byte, error) {
	if req.Amount == nil {
		return nil, fmt.Errorf("amount is required")
	}

	payload := quoteRequest{
		RequestID:        req.RequestID,
		TokenInChainID:   req.TokenInChainID,
		TokenOutChainID:  req.TokenOutChainID,
		TokenIn:          req.TokenIn,
		TokenOut:         req.TokenOut,
		Amount:           req.Amount.String(),
		Type:             string(req.TradeType),
		RoutingType:      string(routingType),
		Swapper:          req.Swapper,
		Slippage:         req.Slippage,
		PortionBips:      opts.PortionBips,
		PortionRecipient: opts.PortionRecipient,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal quote request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/quote", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("accept", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("x-api-key", c.APIKey)
	}

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: raw}
	}
	return raw, nil
}
