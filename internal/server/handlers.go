package server

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/routerlabs/quote-aggregator/internal/flags"
	"github.com/routerlabs/quote-aggregator/internal/portion"
	"github.com/routerlabs/quote-aggregator/internal/quote"
	"github.com/routerlabs/quote-aggregator/internal/router"
	"github.com/routerlabs/quote-aggregator/internal/storage"
)

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Portion *portion.Fetcher   // Portion fee resolution
	Router  *router.Client     // Smart-order-router backend (optional)
	Quotes  storage.QuoteStore // Quote analytics sink (optional)
	Flags   *flags.Store       // Redis-backed feature flags store
	DevMode bool               // Enable detailed error responses in development
	Logger  *logrus.Logger     // Structured logger
}

// logger never returns nil so handlers can log without wiring checks.
func (h *Handlers) logger() *logrus.Logger {
	if h.Logger == nil {
		return logrus.StandardLogger()
	}
	return h.Logger
}

// err returns a standardized JSON error response; details are included only
// in dev mode.
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// Quote requests a quote from the routing backend, normalizes it into a
// typed entity and returns the entity's public JSON contract. Portion data
// is resolved first and forwarded so the backend can price the fee in.
func (h *Handlers) Quote(c echo.Context) error {
	if h.Router == nil {
		return h.err(c, http.StatusBadRequest, "router backend is not configured", nil)
	}

	var body QuoteRequestBody
	if err := c.Bind(&body); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	if !common.IsHexAddress(body.TokenIn) {
		return h.err(c, http.StatusBadRequest, "invalid tokenIn", map[string]any{"tokenIn": "must be a hex address"})
	}
	if !common.IsHexAddress(body.TokenOut) {
		return h.err(c, http.StatusBadRequest, "invalid tokenOut", map[string]any{"tokenOut": "must be a hex address"})
	}
	if body.Swapper != "" && !common.IsHexAddress(body.Swapper) {
		return h.err(c, http.StatusBadRequest, "invalid swapper", map[string]any{"swapper": "must be a hex address"})
	}
	if body.TokenInChainID <= 0 || body.TokenOutChainID <= 0 {
		return h.err(c, http.StatusBadRequest, "invalid chain id", nil)
	}
	amount, ok := new(big.Int).SetString(strings.TrimSpace(body.Amount), 10)
	if !ok || amount.Sign() <= 0 {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "must be a positive integer"})
	}
	tradeType := quote.TradeType(body.Type)
	if !tradeType.Valid() {
		return h.err(c, http.StatusBadRequest, "invalid type", map[string]any{"type": "must be EXACT_INPUT or EXACT_OUTPUT"})
	}
	if strings.TrimSpace(body.RoutingType) == "" {
		return h.err(c, http.StatusBadRequest, "invalid routingType", map[string]any{"routingType": "required"})
	}

	req := &quote.Request{
		RequestID:       body.RequestID,
		TokenInChainID:  body.TokenInChainID,
		TokenOutChainID: body.TokenOutChainID,
		TokenIn:         body.TokenIn,
		TokenOut:        body.TokenOut,
		Amount:          amount,
		TradeType:       tradeType,
		Swapper:         body.Swapper,
		Slippage:        body.Slippage,
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	// Portion resolution never fails; a quote is valid without fee data.
	p := h.Portion.GetPortion(ctx, req.TokenInChainID, req.TokenIn, req.TokenOutChainID, req.TokenOut)
	var opts router.QuoteOptions
	if p.HasPortion {
		bips := p.Portion.Bips
		opts.PortionBips = &bips
		opts.PortionRecipient = p.Portion.Recipient
	}

	raw, err := h.Router.Quote(ctx, req, quote.RoutingType(body.RoutingType), opts)
	if err != nil {
		return h.err(c, http.StatusBadGateway, "router quote failed", map[string]any{"err": err.Error()})
	}

	q, err := quote.Parse(req, quote.RoutingType(body.RoutingType), raw)
	if err != nil {
		var unknown *quote.UnknownRoutingTypeError
		if errors.As(err, &unknown) {
			return h.err(c, http.StatusBadRequest, "unknown routing type", map[string]any{"routingType": unknown.RoutingType})
		}
		return h.err(c, http.StatusBadGateway, "invalid router response", map[string]any{"err": err.Error()})
	}

	if h.Quotes != nil {
		rec := q.ToLog()
		if err := h.Quotes.InsertQuoteLog(ctx, &rec); err != nil {
			h.logger().WithError(err).Warn("failed to persist quote log")
		}
	}

	out, err := q.ToJSON()
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to serialize quote", nil)
	}
	return c.JSONBlob(http.StatusOK, out)
}

// Portion resolves portion data for a token pair. The response is always
// 200: failures degrade to the no-portion answer inside the fetcher.
func (h *Handlers) PortionLookup(c echo.Context) error {
	tokenInChainID, err := strconv.Atoi(strings.TrimSpace(c.QueryParam("tokenInChainId")))
	if err != nil || tokenInChainID <= 0 {
		return h.err(c, http.StatusBadRequest, "invalid tokenInChainId", map[string]any{"tokenInChainId": "must be a positive integer"})
	}
	tokenOutChainID, err := strconv.Atoi(strings.TrimSpace(c.QueryParam("tokenOutChainId")))
	if err != nil || tokenOutChainID <= 0 {
		return h.err(c, http.StatusBadRequest, "invalid tokenOutChainId", map[string]any{"tokenOutChainId": "must be a positive integer"})
	}
	tokenIn := strings.TrimSpace(c.QueryParam("tokenInAddress"))
	if !common.IsHexAddress(tokenIn) {
		return h.err(c, http.StatusBadRequest, "invalid tokenInAddress", map[string]any{"tokenInAddress": "must be a hex address"})
	}
	tokenOut := strings.TrimSpace(c.QueryParam("tokenOutAddress"))
	if !common.IsHexAddress(tokenOut) {
		return h.err(c, http.StatusBadRequest, "invalid tokenOutAddress", map[string]any{"tokenOutAddress": "must be a hex address"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp := h.Portion.GetPortion(ctx, tokenInChainID, tokenIn, tokenOutChainID, tokenOut)
	return c.JSON(http.StatusOK, resp)
}

// FlagsSet creates or updates a feature flag
func (h *Handlers) FlagsSet(c echo.Context) error {
	if h.Flags == nil {
		return h.err(c, http.StatusBadRequest, "flags are not configured", nil)
	}
	var req FlagSetRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if err := flags.ValidateKey(req.Key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Set(ctx, req.Key, req.Value)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to set flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

// FlagsUpdate updates an existing feature flag with the given key
func (h *Handlers) FlagsUpdate(c echo.Context) error {
	if h.Flags == nil {
		return h.err(c, http.StatusBadRequest, "flags are not configured", nil)
	}
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}
	var req FlagUpdateRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Set(ctx, key, req.Value)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to update flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

// FlagsGet retrieves a feature flag by its key, 404 when absent
func (h *Handlers) FlagsGet(c echo.Context) error {
	if h.Flags == nil {
		return h.err(c, http.StatusBadRequest, "flags are not configured", nil)
	}
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Get(ctx, key)
	if err != nil {
		if errors.Is(err, flags.ErrNotFound) {
			return h.err(c, http.StatusNotFound, "flag not found", nil)
		}
		return h.err(c, http.StatusInternalServerError, "failed to get flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

// FlagsList returns all feature flags in the system
func (h *Handlers) FlagsList(c echo.Context) error {
	if h.Flags == nil {
		return h.err(c, http.StatusBadRequest, "flags are not configured", nil)
	}
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Flags.List(ctx)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to list flags", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// FlagsDelete removes a feature flag by its key, 204 on success
func (h *Handlers) FlagsDelete(c echo.Context) error {
	if h.Flags == nil {
		return h.err(c, http.StatusBadRequest, "flags are not configured", nil)
	}
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.Flags.Delete(ctx, key); err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to delete flag", nil)
	}
	return c.NoContent(http.StatusNoContent)
}
