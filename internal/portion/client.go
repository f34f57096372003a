package portion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query identifies the token pair a portion is requested for.
type Query struct {
	TokenInChainID  int
	TokenInAddress  string
	TokenOutChainID int
	TokenOutAddress string
}

// Client calls the upstream portion service over HTTP.
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
		return fmt.Sprintf("portion http %d", e.StatusCode)
	}
	return fmt.Sprintf("portion http %d: %s", e.StatusCode, b)
}

// GetPortion fetches the portion for a token pair. Non-2xx responses and
// undecodable bodies are errors; the caller decides the fallback.
func (c *Client) GetPortion(ctx context.Context, req Query) (*GetPortionResponse, error) {
	if strings.TrimSpace(req.TokenInAddress) == "" {
		return nil, fmt.Errorf("tokenInAddress is required")
	}
	if strings.TrimSpace(req.TokenOutAddress) == "" {
		return nil, fmt.Errorf("tokenOutAddress is required")
	}

	q := url.Values{}
	q.Set("tokenInChainId", strconv.Itoa(req.TokenInChainID))
	q.Set("tokenInAddress", req.TokenInAddress)
	q.Set("tokenOutChainId", strconv.Itoa(req.TokenOutChainID))
	q.Set("tokenOutAddress", req.TokenOutAddress)

	u := c.BaseURL + "/portion?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("accept", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("x-api-key", c.APIKey)
	}

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: body}
	}

	var out GetPortionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode portion response: %w", err)
	}
	// Keep the hasPortion/portion invariant even if upstream disagrees
	// with itself.
	out.HasPortion = out.Portion != nil
	return &out, nil
}
