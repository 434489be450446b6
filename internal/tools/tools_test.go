package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoPaperBot/internal/ports"
	"cryptoPaperBot/internal/risk"
	"cryptoPaperBot/internal/sim"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func fp(v float64) *float64 { return &v }

func newTestToolbelt(t *testing.T, balance float64, riskCfg risk.Config) (*Toolbelt, *sim.Simulator) {
	t.Helper()
	simulator, err := sim.New(sim.Config{InitialBalance: balance, Logger: &mockLogger{}})
	require.NoError(t, err)

	belt, err := New(Config{
		Simulator: simulator,
		Risk:      riskCfg,
		Logger:    &mockLogger{},
	})
	require.NoError(t, err)
	return belt, simulator
}

func TestPlaceOrder_AppliesEquityCap(t *testing.T) {
	ctx := context.Background()
	belt, _ := newTestToolbelt(t, 10_000, risk.Config{MaxNotionalFraction: 0.20})

	// 20% of 10k equity = 2000 cap.
	_, err := belt.PlaceOrder(ctx, sim.PlaceOrderRequest{
		Pair: "BTC/USDT", Side: "long", Notional: 2_500, EntryPrice: fp(100),
	})
	require.ErrorIs(t, err, ports.ErrInvalidArgument)

	// Rejection left the account untouched.
	snap := belt.PortfolioState(ctx)
	assert.Equal(t, 10_000.0, snap.Cash)
	assert.Equal(t, 0, snap.OpenCount)

	pos, err := belt.PlaceOrder(ctx, sim.PlaceOrderRequest{
		Pair: "BTC/USDT", Side: "long", Notional: 2_000, EntryPrice: fp(100),
	})
	require.NoError(t, err)
	assert.Equal(t, 2_000.0, pos.Notional)
}

func TestPlaceOrder_CapDisabled(t *testing.T) {
	ctx := context.Background()
	belt, _ := newTestToolbelt(t, 10_000, risk.Config{})

	_, err := belt.PlaceOrder(ctx, sim.PlaceOrderRequest{
		Pair: "BTC/USDT", Side: "long", Notional: 9_000, EntryPrice: fp(100),
	})
	assert.NoError(t, err)
}

func TestSuggestNotional(t *testing.T) {
	ctx := context.Background()
	belt, simulator := newTestToolbelt(t, 10_000, risk.Config{DefaultRiskPercent: 1})

	// No price ingested yet.
	_, err := belt.SuggestNotional(ctx, 1, "BTC/USDT", 95)
	require.ErrorIs(t, err, ports.ErrNoPriceAvailable)

	_, err = simulator.UpdatePrice(ctx, "BTC/USDT", 100)
	require.NoError(t, err)

	suggestion, err := belt.SuggestNotional(ctx, 1, "BTC/USDT", 95)
	require.NoError(t, err)
	assert.InDelta(t, 2_000.0, suggestion.Notional, 1e-9)
	assert.InDelta(t, 100.0, suggestion.RiskAmount, 1e-9)
	assert.Equal(t, 100.0, suggestion.LastPrice)

	// Zero risk percent falls back to the configured default (1%).
	viaDefault, err := belt.SuggestNotional(ctx, 0, "BTC/USDT", 95)
	require.NoError(t, err)
	assert.InDelta(t, suggestion.Notional, viaDefault.Notional, 1e-9)
}

func TestCurrentExposure(t *testing.T) {
	ctx := context.Background()
	belt, _ := newTestToolbelt(t, 10_000, risk.Config{})

	exposure := belt.CurrentExposure(ctx)
	assert.Equal(t, 0, exposure.OpenPositionsCount)
	assert.Equal(t, 0.0, exposure.TotalNotional)

	_, err := belt.PlaceOrder(ctx, sim.PlaceOrderRequest{
		Pair: "BTC/USDT", Side: "long", Notional: 1_000, EntryPrice: fp(100),
	})
	require.NoError(t, err)
	_, err = belt.PlaceOrder(ctx, sim.PlaceOrderRequest{
		Pair: "ETH/USDT", Side: "short", Notional: 500, EntryPrice: fp(2_000),
	})
	require.NoError(t, err)

	exposure = belt.CurrentExposure(ctx)
	assert.Equal(t, 2, exposure.OpenPositionsCount)
	assert.InDelta(t, 1_500.0, exposure.TotalNotional, 1e-9)
}

func TestResetAndQuality(t *testing.T) {
	ctx := context.Background()
	belt, _ := newTestToolbelt(t, 10_000, risk.Config{})

	pos, err := belt.PlaceOrder(ctx, sim.PlaceOrderRequest{
		Pair: "BTC/USDT", Side: "long", Notional: 1_000, EntryPrice: fp(100),
	})
	require.NoError(t, err)
	_, err = belt.ClosePosition(ctx, pos.ID, fp(110))
	require.NoError(t, err)

	quality := belt.StrategyQuality(ctx, 50)
	assert.Equal(t, 1, quality.TotalTrades)
	assert.Equal(t, 1, quality.Wins)
	assert.InDelta(t, 1.0, quality.WinRate, 1e-9)

	snap, err := belt.Reset(ctx, fp(5_000))
	require.NoError(t, err)
	assert.Equal(t, 5_000.0, snap.Cash)
	assert.Equal(t, 0, snap.TradeCount)
}

func TestFetchTools_RequireMarketService(t *testing.T) {
	ctx := context.Background()
	belt, _ := newTestToolbelt(t, 10_000, risk.Config{})

	_, err := belt.FetchOHLCV(ctx, "BTC/USDT", "1h", 100)
	assert.ErrorIs(t, err, ports.ErrProviderUnavailable)

	_, err = belt.MarketSummary(ctx, "BTC/USDT", "1h", 100)
	assert.ErrorIs(t, err, ports.ErrProviderUnavailable)
}
