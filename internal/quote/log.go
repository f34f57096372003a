package quote

import "time"

// LogRecord is the flat analytics view of a quote: explicit amountIn/out and
// their adjusted counterparts as decimal strings, without route traces or
// other raw payload noise. Rows of this shape land in the quote-log store.
type LogRecord struct {
	QuoteID              string    `json:"quoteId"`
	RequestID            string    `json:"requestId"`
	RoutingType          string    `json:"routingType"`
	TokenInChainID       int       `json:"tokenInChainId"`
	TokenOutChainID      int       `json:"tokenOutChainId"`
	TokenIn              string    `json:"tokenIn"`
	TokenOut             string    `json:"tokenOut"`
	TradeType            string    `json:"tradeType"`
	Swapper              string    `json:"swapper,omitempty"`
	AmountIn             string    `json:"amountIn"`
	AmountOut            string    `json:"amountOut"`
	AmountInGasAdjusted  string    `json:"amountInGasAdjusted,omitempty"`
	AmountOutGasAdjusted string    `json:"amountOutGasAdjusted,omitempty"`
	GasPriceWei          string    `json:"gasPriceWei,omitempty"`
	GasUseEstimate       string    `json:"gasUseEstimate,omitempty"`
	PortionBips          int       `json:"portionBips,omitempty"`
	PortionRecipient     string    `json:"portionRecipient,omitempty"`
	PortionAmount        string    `json:"portionAmount,omitempty"`
	Slippage             float64   `json:"slippage"`
	CreatedAtMs          int64     `json:"createdAtMs"`
	CreatedAt            time.Time `json:"createdAt"`
}
