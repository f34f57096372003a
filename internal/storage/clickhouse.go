package storage

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/routerlabs/quote-aggregator/internal/quote"
)

type ClickHouseStore struct {
	conn driver.Conn
}

type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
}

func NewClickHouseStore(cfg ClickHouseConfig) (*ClickHouseStore, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}
	return &ClickHouseStore{conn: conn}, nil
}

func (c *ClickHouseStore) InsertQuoteLog(ctx context.Context, rec *quote.LogRecord) error {
	query := `
		INSERT INTO quote_logs (
			quote_id, request_id, routing_type, token_in_chain_id, token_out_chain_id,
			token_in, token_out, trade_type, swapper,
			amount_in, amount_out, amount_in_gas_adjusted, amount_out_gas_adjusted,
			gas_price_wei, gas_use_estimate,
			portion_bips, portion_recipient, portion_amount,
			slippage, created_at_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := c.conn.Exec(ctx, query,
		rec.QuoteID,
		rec.RequestID,
		rec.RoutingType,
		rec.TokenInChainID,
		rec.TokenOutChainID,
		rec.TokenIn,
		rec.TokenOut,
		rec.TradeType,
		rec.Swapper,
		rec.AmountIn,
		rec.AmountOut,
		rec.AmountInGasAdjusted,
		rec.AmountOutGasAdjusted,
		rec.GasPriceWei,
		rec.GasUseEstimate,
		rec.PortionBips,
		rec.PortionRecipient,
		rec.PortionAmount,
		rec.Slippage,
		rec.CreatedAtMs,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quote log: %w", err)
	}
	return nil
}

func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *ClickHouseStore) Close() error {
	return c.conn.Close()
}
