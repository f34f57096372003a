package storage

import (
	"context"
	"io"

	"github.com/routerlabs/quote-aggregator/internal/quote"
)

// QuoteStore persists quote log records for analytics. Writes are best
// effort from the caller's point of view: a failed insert never fails the
// quote that produced it.
type QuoteStore interface {
	// InsertQuoteLog stores one log record.
	InsertQuoteLog(ctx context.Context, rec *quote.LogRecord) error

	// Ping checks if the store is reachable.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	io.Closer
}
