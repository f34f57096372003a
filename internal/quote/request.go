package quote

import "math/big"

// TradeType says which side of the trade is fixed by the requester.
type TradeType string

const (
	TradeTypeExactInput  TradeType = "EXACT_INPUT"
	TradeTypeExactOutput TradeType = "EXACT_OUTPUT"
)

func (t TradeType) Valid() bool {
	return t == TradeTypeExactInput || t == TradeTypeExactOutput
}

// RoutingType is the execution mechanism a quote was produced for.
type RoutingType string

const (
	RoutingTypeClassic    RoutingType = "CLASSIC"
	RoutingTypeDutchLimit RoutingType = "DUTCH_LIMIT"
)

// Request is the originating quote request. Quotes reference it for trade
// direction and requester metadata but do not own it.
type Request struct {
	RequestID       string
	TokenInChainID  int
	TokenOutChainID int
	TokenIn         string
	TokenOut        string
	Amount          *big.Int
	TradeType       TradeType
	Swapper         string
	Slippage        *float64
}

// SlippageOrDefault returns the requested slippage percentage, or -1 when
// the request did not carry one.
func (r *Request) SlippageOrDefault() float64 {
	if r.Slippage == nil {
		return -1
	}
	return *r.Slippage
}
