package indicators

import (
	"context"

	"cryptoPaperBot/internal/domain"
)

// Indicator represents a technical indicator computed from candle data.
type Indicator interface {
	// Calculate computes the indicator value for the given klines (oldest first).
	Calculate(ctx context.Context, klines []*domain.Kline) (float64, error)

	// RequiredDataPoints returns the minimum number of klines needed.
	RequiredDataPoints() int

	// Name returns the name of the indicator.
	Name() string
}

// IndicatorConfig holds common configuration for indicators.
type IndicatorConfig struct {
	Period int
}

// BaseIndicator provides common functionality for indicators.
type BaseIndicator struct {
	Config IndicatorConfig
}

// RequiredDataPoints returns the minimum number of klines needed.
func (b *BaseIndicator) RequiredDataPoints() int {
	return b.Config.Period
}
