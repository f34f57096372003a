package quote

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDutchLimit_Amounts(t *testing.T) {
	q, err := NewDutchLimit(testRequest(TradeTypeExactInput), DutchLimitQuoteData{
		AmountIn:  "100",
		AmountOut: "95",
	})
	require.NoError(t, err)

	// Both sides arrive explicit; trade type plays no role.
	assert.Equal(t, big.NewInt(100), q.AmountIn())
	assert.Equal(t, big.NewInt(95), q.AmountOut())

	q, err = NewDutchLimit(testRequest(TradeTypeExactOutput), DutchLimitQuoteData{
		AmountIn:  "100",
		AmountOut: "95",
	})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), q.AmountIn())
	assert.Equal(t, big.NewInt(95), q.AmountOut())
}

func TestDutchLimit_InvalidAmounts(t *testing.T) {
	_, err := NewDutchLimit(testRequest(TradeTypeExactInput), DutchLimitQuoteData{AmountIn: "", AmountOut: "95"})
	assert.Error(t, err)

	_, err = NewDutchLimit(testRequest(TradeTypeExactInput), DutchLimitQuoteData{AmountIn: "100", AmountOut: "9.5"})
	assert.Error(t, err)
}

func TestParseDutchLimit_MalformedJSON(t *testing.T) {
	_, err := ParseDutchLimit(testRequest(TradeTypeExactInput), []byte(`[`))
	assert.Error(t, err)
}

func TestDutchLimit_PermitData(t *testing.T) {
	req := testRequest(TradeTypeExactInput)
	req.Swapper = "0x27213E28D7fDA5c57Fe9e5dD923818DBCcf71c47"

	q, err := NewDutchLimit(req, DutchLimitQuoteData{AmountIn: "100", AmountOut: "95"})
	require.NoError(t, err)

	td := q.PermitData()
	require.NotNil(t, td)
	assert.Equal(t, "PermitSingle", td.PrimaryType)

	now := time.Now()
	q.now = func() time.Time { return now }
	q.SetAllowance(&Allowance{
		Amount:     big.NewInt(100),
		Expiration: now.Add(time.Hour).Unix(),
		Nonce:      big.NewInt(1),
	})
	assert.Nil(t, q.PermitData())
}

func TestDutchLimit_ToJSON(t *testing.T) {
	q, err := NewDutchLimit(testRequest(TradeTypeExactInput), DutchLimitQuoteData{
		AmountIn:               "100",
		AmountOut:              "95",
		Filler:                 "0x1111111111111111111111111111111111111111",
		ExclusivityOverrideBps: 100,
		AuctionPeriodSecs:      60,
	})
	require.NoError(t, err)

	b, err := q.ToJSON()
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))

	assert.Equal(t, "100", out["amountIn"])
	assert.Equal(t, "95", out["amountOut"])
	assert.Equal(t, "0x1111111111111111111111111111111111111111", out["filler"])
	assert.Equal(t, float64(100), out["exclusivityOverrideBps"])
	assert.Equal(t, q.QuoteID(), out["quoteId"])
	assert.Equal(t, "req-1", out["requestId"])
	assert.Equal(t, float64(-1), out["slippage"])
}

func TestDutchLimit_ToLog(t *testing.T) {
	q, err := NewDutchLimit(testRequest(TradeTypeExactInput), DutchLimitQuoteData{
		AmountIn:  "100",
		AmountOut: "95",
	})
	require.NoError(t, err)

	rec := q.ToLog()
	assert.Equal(t, "DUTCH_LIMIT", rec.RoutingType)
	assert.Equal(t, "100", rec.AmountIn)
	assert.Equal(t, "95", rec.AmountOut)
	assert.Empty(t, rec.AmountInGasAdjusted)
	assert.Equal(t, float64(-1), rec.Slippage)
}
