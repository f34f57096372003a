package quote

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/google/uuid"
)

// DutchLimitQuoteData is the wire payload of a limit-order quote. Unlike the
// classic shape it carries both sides explicitly: the order terms are fixed
// at auction start, so there is no computed side to gas-adjust.
type DutchLimitQuoteData struct {
	AmountIn               string `json:"amountIn"`
	AmountOut              string `json:"amountOut"`
	Swapper                string `json:"swapper,omitempty"`
	Filler                 string `json:"filler,omitempty"`
	ExclusivityOverrideBps int    `json:"exclusivityOverrideBps,omitempty"`
	AuctionPeriodSecs      int    `json:"auctionPeriodSecs,omitempty"`
	DeadlineBufferSecs     int    `json:"deadlineBufferSecs,omitempty"`
	SlippageTolerance      string `json:"slippageTolerance,omitempty"`
}

// DutchLimitQuote wraps a limit-order quote payload under the same contract
// as ClassicQuote.
type DutchLimitQuote struct {
	request     *Request
	data        DutchLimitQuoteData
	quoteID     string
	createdAtMs int64

	amountIn  *big.Int
	amountOut *big.Int

	allowance *Allowance
	now       func() time.Time
}

func ParseDutchLimit(req *Request, raw []byte) (*DutchLimitQuote, error) {
	var data DutchLimitQuoteData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode dutch limit quote: %w", err)
	}
	return NewDutchLimit(req, data)
}

func NewDutchLimit(req *Request, data DutchLimitQuoteData) (*DutchLimitQuote, error) {
	amountIn, ok := new(big.Int).SetString(data.AmountIn, 10)
	if !ok {
		return nil, fmt.Errorf("dutch limit quote: invalid amountIn %q", data.AmountIn)
	}
	amountOut, ok := new(big.Int).SetString(data.AmountOut, 10)
	if !ok {
		return nil, fmt.Errorf("dutch limit quote: invalid amountOut %q", data.AmountOut)
	}

	return &DutchLimitQuote{
		request:     req,
		data:        data,
		quoteID:     uuid.NewString(),
		createdAtMs: time.Now().UnixMilli(),
		amountIn:    amountIn,
		amountOut:   amountOut,
		now:         time.Now,
	}, nil
}

func (q *DutchLimitQuote) RoutingType() RoutingType { return RoutingTypeDutchLimit }
func (q *DutchLimitQuote) Request() *Request        { return q.request }
func (q *DutchLimitQuote) QuoteID() string          { return q.quoteID }
func (q *DutchLimitQuote) CreatedAtMs() int64       { return q.createdAtMs }
func (q *DutchLimitQuote) CreatedAt() int64         { return q.createdAtMs / 1000 }

func (q *DutchLimitQuote) AmountIn() *big.Int  { return q.amountIn }
func (q *DutchLimitQuote) AmountOut() *big.Int { return q.amountOut }

func (q *DutchLimitQuote) Slippage() float64 {
	return q.request.SlippageOrDefault()
}

// SetAllowance binds the externally observed token allowance, the only
// post-construction mutation.
func (q *DutchLimitQuote) SetAllowance(a *Allowance) {
	q.allowance = a
}

func (q *DutchLimitQuote) PermitData() *apitypes.TypedData {
	if q.request.Swapper == "" {
		return nil
	}
	if q.allowance.Covers(q.AmountIn(), q.now().Unix()) {
		return nil
	}
	return buildPermit(q.request.TokenIn, q.request.TokenInChainID, q.allowance.NonceOrZero(), q.now())
}

type dutchLimitJSON struct {
	DutchLimitQuoteData
	QuoteID    string              `json:"quoteId"`
	RequestID  string              `json:"requestId"`
	TradeType  TradeType           `json:"tradeType"`
	Slippage   float64             `json:"slippage"`
	PermitData *apitypes.TypedData `json:"permitData,omitempty"`
}

func (q *DutchLimitQuote) ToJSON() ([]byte, error) {
	return json.Marshal(dutchLimitJSON{
		DutchLimitQuoteData: q.data,
		QuoteID:             q.quoteID,
		RequestID:           q.request.RequestID,
		TradeType:           q.request.TradeType,
		Slippage:            q.Slippage(),
		PermitData:          q.PermitData(),
	})
}

func (q *DutchLimitQuote) ToLog() LogRecord {
	return LogRecord{
		QuoteID:         q.quoteID,
		RequestID:       q.request.RequestID,
		RoutingType:     string(RoutingTypeDutchLimit),
		TokenInChainID:  q.request.TokenInChainID,
		TokenOutChainID: q.request.TokenOutChainID,
		TokenIn:         q.request.TokenIn,
		TokenOut:        q.request.TokenOut,
		TradeType:       string(q.request.TradeType),
		Swapper:         q.request.Swapper,
		AmountIn:        q.amountIn.String(),
		AmountOut:       q.amountOut.String(),
		Slippage:        q.Slippage(),
		CreatedAtMs:     q.createdAtMs,
		CreatedAt:       time.UnixMilli(q.createdAtMs).UTC(),
	}
}
