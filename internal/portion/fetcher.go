package portion

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/routerlabs/quote-aggregator/internal/cache"
	"github.com/routerlabs/quote-aggregator/internal/flags"
	"github.com/routerlabs/quote-aggregator/internal/metrics"
)

// Tokens whose pairs currently earn the constant flat fee. Lookup goes
// through common.HexToAddress, so caller casing never matters.
var feeEligibleTokens = map[common.Address]struct{}{
	// Native ETH sentinel
	common.HexToAddress("0x0000000000000000000000000000000000000000"): {},
	// Mainnet USDC
	common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"): {},
}

const flatFeeBips = 5

var flatFeeRecipient = common.HexToAddress("0x27213E28D7fDA5c57Fe9e5dD923818DBCcf71c47")

// flatFee is the deterministic answer for allowlisted pairs.
var flatFee = GetPortionResponse{
	HasPortion: true,
	Portion: &Portion{
		Bips:      flatFeeBips,
		Recipient: flatFeeRecipient.Hex(),
		Type:      TypeFlat,
	},
}

// RemoteClient is the upstream portion service boundary.
type RemoteClient interface {
	GetPortion(ctx context.Context, req Query) (*GetPortionResponse, error)
}

// FetcherConfig wires a Fetcher's collaborators. BypassCache makes
// GetPortionFromService skip both the cache read and the cache write while
// still hitting the remote; it exists so tests cannot contaminate each other
// through shared cache state.
type FetcherConfig struct {
	Client      RemoteClient
	Cache       cache.Store
	Flags       flags.Provider
	FlagKey     string
	Metrics     metrics.Emitter
	Logger      *logrus.Logger
	PositiveTTL time.Duration
	NegativeTTL time.Duration
	BypassCache bool
}

// Fetcher resolves portion data for token pairs. Every failure path resolves
// to NoPortion; a quote is valid without fee data.
type Fetcher struct {
	client      RemoteClient
	cache       cache.Store
	flags       flags.Provider
	flagKey     string
	metrics     metrics.Emitter
	logger      *logrus.Logger
	positiveTTL time.Duration
	negativeTTL time.Duration
	bypassCache bool
}

func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.PositiveTTL <= 0 {
		cfg.PositiveTTL = 600 * time.Second
	}
	if cfg.NegativeTTL <= 0 {
		cfg.NegativeTTL = 60 * time.Second
	}
	return &Fetcher{
		client:      cfg.Client,
		cache:       cfg.Cache,
		flags:       cfg.Flags,
		flagKey:     cfg.FlagKey,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		positiveTTL: cfg.PositiveTTL,
		negativeTTL: cfg.NegativeTTL,
		bypassCache: cfg.BypassCache,
	}
}

// GetPortion never fails: the flag is re-read on every call, allowlisted
// pairs get the constant flat fee, everything else gets NoPortion. Neither
// the cache nor the remote service is touched here; the service-backed path
// lives in GetPortionFromService and is currently shadowed by the allowlist
// policy.
func (f *Fetcher) GetPortion(ctx context.Context, tokenInChainID int, tokenInAddress string, tokenOutChainID int, tokenOutAddress string) GetPortionResponse {
	if !f.flags.Enabled(ctx, f.flagKey) {
		f.metrics.Count("portion_flag_disabled_total", 1)
		return NoPortion
	}

	if f.feeEligible(tokenInAddress) && f.feeEligible(tokenOutAddress) {
		f.metrics.Count("portion_allowlist_hits_total", 1)
		return flatFee
	}

	f.metrics.Count("portion_not_eligible_total", 1)
	return NoPortion
}

func (f *Fetcher) feeEligible(address string) bool {
	// HexToAddress maps malformed input to the zero address, which is the
	// allowlisted native-ETH sentinel, so garbage must be rejected first.
	if !common.IsHexAddress(address) {
		return false
	}
	_, ok := feeEligibleTokens[common.HexToAddress(address)]
	return ok
}

// GetPortionFromService is the cache-aside path against the remote portion
// service. Found-fee answers are cached with the positive TTL, no-fee answers
// with the shorter negative TTL. Remote failures are absorbed into NoPortion
// and cache nothing, so the next call retries naturally.
func (f *Fetcher) GetPortionFromService(ctx context.Context, req Query) GetPortionResponse {
	key := CacheKey(req.TokenInChainID, req.TokenInAddress, req.TokenOutChainID, req.TokenOutAddress)

	if !f.bypassCache {
		if cached, ok := f.readCache(ctx, key); ok {
			f.metrics.Count("portion_cache_hits_total", 1)
			return cached
		}
		f.metrics.Count("portion_cache_misses_total", 1)
	}

	start := time.Now()
	resp, err := f.client.GetPortion(ctx, req)
	if err != nil {
		f.metrics.Count("portion_errors_total", 1)
		f.logger.WithError(err).WithFields(logrus.Fields{
			"tokenIn":  req.TokenInAddress,
			"tokenOut": req.TokenOutAddress,
		}).Warn("portion fetch failed")
		return NoPortion
	}
	f.metrics.Count("portion_requests_total", 1)
	f.metrics.Timing("portion_fetch_latency_ms", time.Since(start))

	if !f.bypassCache {
		f.writeCache(ctx, key, resp)
	}
	return *resp
}

func (f *Fetcher) readCache(ctx context.Context, key string) (GetPortionResponse, bool) {
	b, ok, err := f.cache.Get(ctx, key)
	if err != nil {
		f.logger.WithError(err).Warn("portion cache read failed")
		return NoPortion, false
	}
	if !ok {
		return NoPortion, false
	}
	var resp GetPortionResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		f.logger.WithError(err).Warn("portion cache entry corrupt")
		return NoPortion, false
	}
	return resp, true
}

func (f *Fetcher) writeCache(ctx context.Context, key string, resp *GetPortionResponse) {
	ttl := f.negativeTTL
	if resp.HasPortion {
		ttl = f.positiveTTL
	}
	b, err := json.Marshal(resp)
	if err != nil {
		f.logger.WithError(err).Warn("portion cache marshal failed")
		return
	}
	if err := f.cache.Set(ctx, key, b, ttl); err != nil {
		f.logger.WithError(err).Warn("portion cache write failed")
	}
}
