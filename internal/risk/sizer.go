package risk

import (
	"fmt"
	"math"

	"cryptoPaperBot/internal/ports"
)

// Config holds risk-management parameters applied around the simulator.
type Config struct {
	// MaxNotionalFraction caps a single trade's notional at this fraction of
	// current equity (e.g. 0.20 for 20%).
	MaxNotionalFraction float64
	// DefaultRiskPercent is the risk percentage used when a caller does not
	// supply one (e.g. 1.0 for 1% of equity).
	DefaultRiskPercent float64
}

// DefaultConfig returns the stock risk parameters: 20% equity cap per trade,
// 1% default risk.
func DefaultConfig() Config {
	return Config{
		MaxNotionalFraction: 0.20,
		DefaultRiskPercent:  1.0,
	}
}

// MaxNotional returns the largest notional the cap allows at the given equity.
func (c Config) MaxNotional(equity float64) float64 {
	return equity * c.MaxNotionalFraction
}

// CheckNotionalCap rejects a notional exceeding the per-trade equity cap.
func (c Config) CheckNotionalCap(notional, equity float64) error {
	if c.MaxNotionalFraction <= 0 {
		return nil // cap disabled
	}
	maxNotional := c.MaxNotional(equity)
	if notional > maxNotional {
		return fmt.Errorf("%w: notional %.2f exceeds max allowed %.2f (%.0f%% of equity %.2f)",
			ports.ErrInvalidArgument, notional, maxNotional, c.MaxNotionalFraction*100, equity)
	}
	return nil
}

// Suggestion is the audit trail of a notional sizing: the suggested notional
// plus every input the computation used.
type Suggestion struct {
	Notional     float64 `json:"notional"`
	Equity       float64 `json:"equity"`
	LastPrice    float64 `json:"last_price"`
	RiskAmount   float64 `json:"risk_amount"`
	StopDistance float64 `json:"stop_distance"`
}

// SuggestNotional converts a risk budget into a position size: it returns the
// notional for which a move from lastPrice to stopLoss loses approximately
// riskPercent of equity.
//
// The stop distance is the fractional gap |1 - stopLoss/lastPrice|, taken
// without regard to the side of the trade. That side-agnostic approximation
// is deliberate and matches how the suggestion is consumed.
func SuggestNotional(equity, lastPrice, stopLoss, riskPercent float64) (*Suggestion, error) {
	if equity <= 0 {
		return nil, fmt.Errorf("%w: equity %.2f, cannot size position", ports.ErrNonPositiveEquity, equity)
	}
	if riskPercent <= 0 || math.IsNaN(riskPercent) {
		return nil, fmt.Errorf("%w: risk percent must be > 0, got %v", ports.ErrInvalidArgument, riskPercent)
	}
	if lastPrice <= 0 {
		return nil, fmt.Errorf("%w: last price must be positive, got %v", ports.ErrInvalidArgument, lastPrice)
	}
	if stopLoss <= 0 {
		return nil, fmt.Errorf("%w: stop loss must be positive, got %v", ports.ErrInvalidArgument, stopLoss)
	}

	stopDistance := math.Abs(1.0 - stopLoss/lastPrice)
	if stopDistance <= 0 {
		return nil, fmt.Errorf("%w: stop loss %v equals last price %v, choose a different stop",
			ports.ErrZeroStopDistance, stopLoss, lastPrice)
	}

	riskAmount := equity * riskPercent / 100.0
	return &Suggestion{
		Notional:     riskAmount / stopDistance,
		Equity:       equity,
		LastPrice:    lastPrice,
		RiskAmount:   riskAmount,
		StopDistance: stopDistance,
	}, nil
}
