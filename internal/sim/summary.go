package sim

import "cryptoPaperBot/internal/domain"

// Snapshot is a read-only view of the account at one instant. Equity is
// derived as cash plus unrealized PnL of open positions marked at the last
// observed prices; it is never stored.
type Snapshot struct {
	InitialBalance float64            `json:"initial_balance"`
	Cash           float64            `json:"cash"`
	Equity         float64            `json:"equity"`
	RealizedPNL    float64            `json:"realized_pnl"`
	OpenPositions  []*domain.Position `json:"open_positions"`
	OpenCount      int                `json:"open_count"`
	TradeCount     int                `json:"trade_count"`
}

// HistorySummary aggregates the most recent closed trades. Wins are trades
// with positive PnL, losses negative; a zero-PnL trade counts as neither.
// TotalPNL is summed over the returned window only.
type HistorySummary struct {
	TotalTrades int                `json:"total_trades"`
	Wins        int                `json:"wins"`
	Losses      int                `json:"losses"`
	WinRate     float64            `json:"win_rate"`
	TotalPNL    float64            `json:"total_pnl"`
	Trades      []*domain.Position `json:"trades"`
}

// PortfolioState returns a consistent snapshot of the account.
func (s *Simulator) PortfolioState() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		InitialBalance: s.initialBalance,
		Cash:           s.cash,
		OpenCount:      len(s.open),
		TradeCount:     len(s.history),
	}

	unrealized := 0.0
	snap.OpenPositions = make([]*domain.Position, 0, len(s.open))
	for _, id := range s.openOrder {
		pos := s.open[id]
		snap.OpenPositions = append(snap.OpenPositions, pos.Clone())
		// Markets with no observed price contribute no unrealized PnL.
		if price, ok := s.lastPrices[pos.Pair]; ok {
			unrealized += pos.PNLAt(price)
		}
	}
	snap.Equity = s.cash + unrealized

	for _, t := range s.history {
		if t.PNL != nil {
			snap.RealizedPNL += *t.PNL
		}
	}
	return snap
}

// TradeHistory returns the most recent limit closed trades in close order,
// most recent last, along with win/loss statistics over that window.
// A non-positive limit (or one larger than the history) returns everything.
// An empty history reports a win rate of 0.0.
func (s *Simulator) TradeHistory(limit int) HistorySummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	trades := s.history
	if limit > 0 && limit < len(trades) {
		trades = trades[len(trades)-limit:]
	}

	summary := HistorySummary{
		TotalTrades: len(trades),
		Trades:      make([]*domain.Position, 0, len(trades)),
	}
	for _, t := range trades {
		summary.Trades = append(summary.Trades, t.Clone())
		if t.PNL == nil {
			continue
		}
		summary.TotalPNL += *t.PNL
		if *t.PNL > 0 {
			summary.Wins++
		} else if *t.PNL < 0 {
			summary.Losses++
		}
	}
	if summary.TotalTrades > 0 {
		summary.WinRate = float64(summary.Wins) / float64(summary.TotalTrades)
	}
	return summary
}
