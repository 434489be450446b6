package ports

import (
	"context"

	"cryptoPaperBot/internal/domain"
)

// MarketDataProvider defines the read-only exchange interface the bot needs:
// historical candles and the latest traded price. There is no order
// placement; all trading is simulated.
type MarketDataProvider interface {
	// Name returns the provider identifier used in logs and failover reporting.
	Name() string
	// GetKlines retrieves up to limit historical klines for the symbol,
	// oldest first.
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Kline, error)
	// GetTickerPrice retrieves the last traded price for the symbol.
	GetTickerPrice(ctx context.Context, symbol string) (float64, error)
}
