package server

// ErrorResponse is the standardized error body for every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details any    `json:"details,omitempty"` // dev mode only
}

// HealthResponse is the health check body.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// QuoteRequestBody is the public quote request contract.
type QuoteRequestBody struct {
	RequestID       string   `json:"requestId"`
	TokenInChainID  int      `json:"tokenInChainId"`
	TokenOutChainID int      `json:"tokenOutChainId"`
	TokenIn         string   `json:"tokenIn"`
	TokenOut        string   `json:"tokenOut"`
	Amount          string   `json:"amount"`
	Type            string   `json:"type"`
	RoutingType     string   `json:"routingType"`
	Swapper         string   `json:"swapper,omitempty"`
	Slippage        *float64 `json:"slippageTolerance,omitempty"`
}

// FlagSetRequest creates or updates a feature flag.
type FlagSetRequest struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

// FlagUpdateRequest updates an existing feature flag.
type FlagUpdateRequest struct {
	Value bool `json:"value"`
}
