// Package tools exposes the simulator, risk sizing and market data behind
// the flat operation set an automated caller (an agent loop, a script, the
// CLI) invokes. Every method returns a typed payload or an error built on
// the ports sentinels with the offending values in the message, so results
// can be shown to an end user without translation. Nothing here panics
// across the boundary.
package tools

import (
	"context"
	"fmt"

	"cryptoPaperBot/internal/domain"
	"cryptoPaperBot/internal/indicators"
	"cryptoPaperBot/internal/marketdata"
	"cryptoPaperBot/internal/ports"
	"cryptoPaperBot/internal/risk"
	"cryptoPaperBot/internal/sim"
)

// Toolbelt bundles the simulated account with the services the operations
// need. Construct one per simulation run.
type Toolbelt struct {
	sim    *sim.Simulator
	risk   risk.Config
	market *marketdata.Service // nil disables the fetch tools
	logger ports.Logger

	rsiPeriod  int
	overbought float64
	oversold   float64
}

// Config holds construction parameters for a Toolbelt.
type Config struct {
	Simulator *sim.Simulator
	Risk      risk.Config
	// Market is optional; without it FetchOHLCV and MarketSummary fail with
	// a clear error instead of being absent.
	Market *marketdata.Service
	Logger ports.Logger
	// RSIPeriod defaults to 14, thresholds to 70/30.
	RSIPeriod  int
	Overbought float64
	Oversold   float64
}

// New creates a toolbelt around an existing simulator.
func New(cfg Config) (*Toolbelt, error) {
	if cfg.Simulator == nil {
		return nil, fmt.Errorf("simulator is required for toolbelt")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for toolbelt")
	}
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = 14
	}
	if cfg.Overbought == 0 {
		cfg.Overbought = 70
	}
	if cfg.Oversold == 0 {
		cfg.Oversold = 30
	}
	return &Toolbelt{
		sim:        cfg.Simulator,
		risk:       cfg.Risk,
		market:     cfg.Market,
		logger:     cfg.Logger,
		rsiPeriod:  cfg.RSIPeriod,
		overbought: cfg.Overbought,
		oversold:   cfg.Oversold,
	}, nil
}

// PlaceOrder opens a simulated position after applying the per-trade equity
// cap. The cap reads equity before the order, so a rejected order changes
// nothing.
func (t *Toolbelt) PlaceOrder(ctx context.Context, req sim.PlaceOrderRequest) (*domain.Position, error) {
	equity := t.sim.PortfolioState().Equity
	if err := t.risk.CheckNotionalCap(req.Notional, equity); err != nil {
		return nil, err
	}
	return t.sim.PlaceOrder(ctx, req)
}

// ClosePosition closes a simulated position, at the given price or the last
// observed one.
func (t *Toolbelt) ClosePosition(ctx context.Context, id string, price *float64) (*domain.Position, error) {
	return t.sim.ClosePosition(ctx, id, price)
}

// PortfolioState reports balances, equity, open positions and realized PnL.
func (t *Toolbelt) PortfolioState(ctx context.Context) sim.Snapshot {
	return t.sim.PortfolioState()
}

// TradeHistory reports the most recent closed trades with win/loss stats.
func (t *Toolbelt) TradeHistory(ctx context.Context, limit int) sim.HistorySummary {
	return t.sim.TradeHistory(limit)
}

// StrategyQuality is the performance view of recent trades: the same window
// as TradeHistory, read for its aggregate metrics.
func (t *Toolbelt) StrategyQuality(ctx context.Context, limit int) sim.HistorySummary {
	return t.sim.TradeHistory(limit)
}

// Reset restores the account and reports the fresh state.
func (t *Toolbelt) Reset(ctx context.Context, initialBalance *float64) (sim.Snapshot, error) {
	if err := t.sim.Reset(ctx, initialBalance); err != nil {
		return sim.Snapshot{}, err
	}
	return t.sim.PortfolioState(), nil
}

// SuggestNotional sizes a position so the loss at the stop is approximately
// riskPercent of current equity. A riskPercent of zero or below uses the
// configured default.
func (t *Toolbelt) SuggestNotional(ctx context.Context, riskPercent float64, pair string, stopLoss float64) (*risk.Suggestion, error) {
	if riskPercent <= 0 {
		riskPercent = t.risk.DefaultRiskPercent
	}
	lastPrice, ok := t.sim.LastPrice(pair)
	if !ok {
		return nil, fmt.Errorf("%w: %s (fetch candles first so a price has been ingested)",
			ports.ErrNoPriceAvailable, pair)
	}
	equity := t.sim.PortfolioState().Equity
	return risk.SuggestNotional(equity, lastPrice, stopLoss, riskPercent)
}

// Exposure summarizes open positions and the total notional committed.
type Exposure struct {
	Portfolio          sim.Snapshot `json:"portfolio"`
	OpenPositionsCount int          `json:"open_positions_count"`
	TotalNotional      float64      `json:"total_notional"`
}

// CurrentExposure reports what the account is holding right now.
func (t *Toolbelt) CurrentExposure(ctx context.Context) Exposure {
	snap := t.sim.PortfolioState()
	exposure := Exposure{
		Portfolio:          snap,
		OpenPositionsCount: snap.OpenCount,
	}
	for _, p := range snap.OpenPositions {
		exposure.TotalNotional += p.Notional
	}
	return exposure
}

// FetchOHLCV fetches candles through the failover market data service,
// updating the ledger's last price as a side effect.
func (t *Toolbelt) FetchOHLCV(ctx context.Context, pair, interval string, limit int) (*marketdata.FetchResult, error) {
	if t.market == nil {
		return nil, fmt.Errorf("%w: no market data service configured", ports.ErrProviderUnavailable)
	}
	return t.market.FetchOHLCV(ctx, pair, interval, limit)
}

// MarketSummary fetches candles and digests them into the latest price and
// RSI reading.
func (t *Toolbelt) MarketSummary(ctx context.Context, pair, interval string, limit int) (*indicators.Summary, error) {
	res, err := t.FetchOHLCV(ctx, pair, interval, limit)
	if err != nil {
		return nil, err
	}
	return indicators.Summarize(ctx, res.Klines, t.rsiPeriod, t.overbought, t.oversold)
}
