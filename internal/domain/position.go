package domain

import "time"

// Position represents a single simulated spot position. Notional is the
// amount of quote currency committed to the trade; PnL is measured in the
// same quote currency.
type Position struct {
	ID         string         `json:"id"`          // Unique identifier, assigned at creation
	Pair       string         `json:"pair"`        // Market symbol (e.g., "BTC/USDT")
	Side       Side           `json:"side"`        // Long or short
	EntryPrice float64        `json:"entry_price"` // Price at which the position was entered
	Notional   float64        `json:"notional"`    // Quote-currency amount committed
	StopLoss   *float64       `json:"stop_loss"`   // Stop-loss price level, if any
	TakeProfit *float64       `json:"take_profit"` // Take-profit price level, if any
	OpenedAt   time.Time      `json:"opened_at"`   // Timestamp when the position was opened (UTC)
	Status     PositionStatus `json:"status"`      // Current status (open, closed)

	// Set together when the position closes; nil while open.
	ClosedAt    *time.Time  `json:"closed_at,omitempty"`
	ClosePrice  *float64    `json:"close_price,omitempty"`
	PNL         *float64    `json:"pnl,omitempty"`
	CloseReason CloseReason `json:"close_reason,omitempty"`
}

// IsOpen checks if the position status is open.
func (p *Position) IsOpen() bool {
	return p.Status == StatusOpen
}

// PNLAt returns the position's profit or loss evaluated at the given price.
// For an open position this is the unrealized PnL. Entry price and price
// must both be positive; callers enforce that before calling.
func (p *Position) PNLAt(price float64) float64 {
	if p.Side == SideLong {
		return p.Notional * (price/p.EntryPrice - 1.0)
	}
	return p.Notional * (p.EntryPrice/price - 1.0)
}

// Clone returns a deep copy of the position so callers hold a read view
// that does not alias internal ledger state.
func (p *Position) Clone() *Position {
	c := *p
	c.StopLoss = cloneFloat(p.StopLoss)
	c.TakeProfit = cloneFloat(p.TakeProfit)
	c.ClosePrice = cloneFloat(p.ClosePrice)
	c.PNL = cloneFloat(p.PNL)
	if p.ClosedAt != nil {
		t := *p.ClosedAt
		c.ClosedAt = &t
	}
	return &c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
