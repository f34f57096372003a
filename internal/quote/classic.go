package quote

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/google/uuid"
)

// ClassicQuoteData is the wire payload of an immediate on-chain swap quote
// as produced by the routing backend. Amount and Quote are required; every
// other field rides through verbatim.
type ClassicQuoteData struct {
	Amount                             string          `json:"amount"`
	AmountDecimals                     string          `json:"amountDecimals,omitempty"`
	Quote                              string          `json:"quote"`
	QuoteDecimals                      string          `json:"quoteDecimals,omitempty"`
	QuoteGasAdjusted                   string          `json:"quoteGasAdjusted,omitempty"`
	QuoteGasAdjustedDecimals           string          `json:"quoteGasAdjustedDecimals,omitempty"`
	QuoteGasAndPortionAdjusted         string          `json:"quoteGasAndPortionAdjusted,omitempty"`
	QuoteGasAndPortionAdjustedDecimals string          `json:"quoteGasAndPortionAdjustedDecimals,omitempty"`
	GasUseEstimate                     string          `json:"gasUseEstimate,omitempty"`
	GasUseEstimateQuote                string          `json:"gasUseEstimateQuote,omitempty"`
	GasUseEstimateQuoteDecimals        string          `json:"gasUseEstimateQuoteDecimals,omitempty"`
	GasUseEstimateUSD                  string          `json:"gasUseEstimateUSD,omitempty"`
	GasPriceWei                        string          `json:"gasPriceWei,omitempty"`
	Route                              json.RawMessage `json:"route,omitempty"`
	RouteString                        string          `json:"routeString,omitempty"`
	PortionBips                        *int            `json:"portionBips,omitempty"`
	PortionRecipient                   string          `json:"portionRecipient,omitempty"`
	PortionAmount                      string          `json:"portionAmount,omitempty"`
	PortionAmountDecimals              string          `json:"portionAmountDecimals,omitempty"`
}

// ClassicQuote wraps a swap quote payload. It owns its copy of the payload
// and holds a non-owning reference to the originating request, whose trade
// type decides which raw field plays amountIn and which amountOut.
type ClassicQuote struct {
	request     *Request
	data        ClassicQuoteData
	quoteID     string
	createdAtMs int64

	amount                *big.Int
	quote                 *big.Int
	gasAdjusted           *big.Int
	gasAndPortionAdjusted *big.Int

	allowance *Allowance
	now       func() time.Time
}

// ParseClassic decodes the raw payload and constructs the entity.
func ParseClassic(req *Request, raw []byte) (*ClassicQuote, error) {
	var data ClassicQuoteData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode classic quote: %w", err)
	}
	return NewClassic(req, data)
}

func NewClassic(req *Request, data ClassicQuoteData) (*ClassicQuote, error) {
	amount, ok := new(big.Int).SetString(data.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("classic quote: invalid amount %q", data.Amount)
	}
	quoted, ok := new(big.Int).SetString(data.Quote, 10)
	if !ok {
		return nil, fmt.Errorf("classic quote: invalid quote %q", data.Quote)
	}

	q := &ClassicQuote{
		request:     req,
		data:        data,
		quoteID:     uuid.NewString(),
		createdAtMs: time.Now().UnixMilli(),
		amount:      amount,
		quote:       quoted,
		now:         time.Now,
	}
	if data.QuoteGasAdjusted != "" {
		v, ok := new(big.Int).SetString(data.QuoteGasAdjusted, 10)
		if !ok {
			return nil, fmt.Errorf("classic quote: invalid quoteGasAdjusted %q", data.QuoteGasAdjusted)
		}
		q.gasAdjusted = v
	}
	if data.QuoteGasAndPortionAdjusted != "" {
		v, ok := new(big.Int).SetString(data.QuoteGasAndPortionAdjusted, 10)
		if !ok {
			return nil, fmt.Errorf("classic quote: invalid quoteGasAndPortionAdjusted %q", data.QuoteGasAndPortionAdjusted)
		}
		q.gasAndPortionAdjusted = v
	}
	return q, nil
}

func (q *ClassicQuote) RoutingType() RoutingType { return RoutingTypeClassic }
func (q *ClassicQuote) Request() *Request        { return q.request }
func (q *ClassicQuote) QuoteID() string          { return q.quoteID }

// CreatedAtMs is the construction timestamp in milliseconds; CreatedAt
// derives the same instant in whole seconds.
func (q *ClassicQuote) CreatedAtMs() int64 { return q.createdAtMs }
func (q *ClassicQuote) CreatedAt() int64   { return q.createdAtMs / 1000 }

func (q *ClassicQuote) exactInput() bool {
	return q.request.TradeType == TradeTypeExactInput
}

// AmountIn is the raw amount for exact-input trades (the fixed side) and the
// computed quote for exact-output trades.
func (q *ClassicQuote) AmountIn() *big.Int {
	if q.exactInput() {
		return q.amount
	}
	return q.quote
}

func (q *ClassicQuote) AmountOut() *big.Int {
	if q.exactInput() {
		return q.quote
	}
	return q.amount
}

// quoteGasAdjustedOrQuote returns the gas-adjusted computed amount, or the
// unadjusted quote when the backend sent none.
func (q *ClassicQuote) quoteGasAdjustedOrQuote() *big.Int {
	if q.gasAdjusted != nil {
		return q.gasAdjusted
	}
	return q.quote
}

// quoteGasAndPortionAdjustedOrFallback falls back to the gas-adjusted value
// when the portion-adjusted field is absent (the portion feature was off for
// that upstream quote). Downstream consumers assume presence, so this never
// returns nil.
func (q *ClassicQuote) quoteGasAndPortionAdjustedOrFallback() *big.Int {
	if q.gasAndPortionAdjusted != nil {
		return q.gasAndPortionAdjusted
	}
	return q.quoteGasAdjustedOrQuote()
}

// AmountInGasAdjusted applies the gas adjustment to the computed side only;
// the fixed side of the trade is never gas-adjusted.
func (q *ClassicQuote) AmountInGasAdjusted() *big.Int {
	if q.exactInput() {
		return q.amount
	}
	return q.quoteGasAdjustedOrQuote()
}

func (q *ClassicQuote) AmountOutGasAdjusted() *big.Int {
	if q.exactInput() {
		return q.quoteGasAdjustedOrQuote()
	}
	return q.amount
}

func (q *ClassicQuote) AmountInGasAndPortionAdjusted() *big.Int {
	if q.exactInput() {
		return q.amount
	}
	return q.quoteGasAndPortionAdjustedOrFallback()
}

func (q *ClassicQuote) AmountOutGasAndPortionAdjusted() *big.Int {
	if q.exactInput() {
		return q.quoteGasAndPortionAdjustedOrFallback()
	}
	return q.amount
}

func (q *ClassicQuote) Slippage() float64 {
	return q.request.SlippageOrDefault()
}

// SetAllowance binds the externally observed token allowance. This is the
// only mutation allowed after construction.
func (q *ClassicQuote) SetAllowance(a *Allowance) {
	q.allowance = a
}

// PermitData returns nil when there is nobody to permit for, or when the
// recorded allowance already covers amountIn and has not expired. Otherwise
// it builds fresh permit typed data with the best-known nonce.
func (q *ClassicQuote) PermitData() *apitypes.TypedData {
	if q.request.Swapper == "" {
		return nil
	}
	if q.allowance.Covers(q.AmountIn(), q.now().Unix()) {
		return nil
	}
	return buildPermit(q.request.TokenIn, q.request.TokenInChainID, q.allowance.NonceOrZero(), q.now())
}

type classicJSON struct {
	ClassicQuoteData
	QuoteID    string              `json:"quoteId"`
	RequestID  string              `json:"requestId"`
	TradeType  TradeType           `json:"tradeType"`
	Slippage   float64             `json:"slippage"`
	PermitData *apitypes.TypedData `json:"permitData,omitempty"`
}

// ToJSON is the public API contract: the full upstream payload plus the
// entity's identity and derived fields. Changes must stay additive.
func (q *ClassicQuote) ToJSON() ([]byte, error) {
	return json.Marshal(classicJSON{
		ClassicQuoteData: q.data,
		QuoteID:          q.quoteID,
		RequestID:        q.request.RequestID,
		TradeType:        q.request.TradeType,
		Slippage:         q.Slippage(),
		PermitData:       q.PermitData(),
	})
}

// ToLog flattens the quote into the analytics record, dropping route traces
// and other raw fields irrelevant to analysis.
func (q *ClassicQuote) ToLog() LogRecord {
	rec := LogRecord{
		QuoteID:              q.quoteID,
		RequestID:            q.request.RequestID,
		RoutingType:          string(RoutingTypeClassic),
		TokenInChainID:       q.request.TokenInChainID,
		TokenOutChainID:      q.request.TokenOutChainID,
		TokenIn:              q.request.TokenIn,
		TokenOut:             q.request.TokenOut,
		TradeType:            string(q.request.TradeType),
		Swapper:              q.request.Swapper,
		AmountIn:             q.AmountIn().String(),
		AmountOut:            q.AmountOut().String(),
		AmountInGasAdjusted:  q.AmountInGasAdjusted().String(),
		AmountOutGasAdjusted: q.AmountOutGasAdjusted().String(),
		GasPriceWei:          q.data.GasPriceWei,
		GasUseEstimate:       q.data.GasUseEstimate,
		PortionRecipient:     q.data.PortionRecipient,
		PortionAmount:        q.data.PortionAmount,
		Slippage:             q.Slippage(),
		CreatedAtMs:          q.createdAtMs,
		CreatedAt:            time.UnixMilli(q.createdAtMs).UTC(),
	}
	if q.data.PortionBips != nil {
		rec.PortionBips = *q.data.PortionBips
	}
	return rec
}
