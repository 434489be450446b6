package ports

import (
	"context"

	"cryptoPaperBot/internal/domain"
)

// KlineRepository defines the interface for caching fetched candles locally.
// The cache holds market data only; simulated account state is never
// persisted.
type KlineRepository interface {
	// SaveKlines upserts a batch of klines keyed by (symbol, interval, open time).
	SaveKlines(ctx context.Context, klines []*domain.Kline) error
	// FindRecent retrieves the most recent cached klines for a symbol and
	// interval, oldest first, up to limit.
	FindRecent(ctx context.Context, symbol, interval string, limit int) ([]*domain.Kline, error)
	// CountBySymbol returns the number of cached klines for a symbol and interval.
	CountBySymbol(ctx context.Context, symbol, interval string) (int, error)
}
