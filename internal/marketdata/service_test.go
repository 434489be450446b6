package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoPaperBot/internal/domain"
	"cryptoPaperBot/internal/ports"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

type mockProvider struct {
	name      string
	klines    []*domain.Kline
	err       error
	calls     int
	lastLimit int
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Kline, error) {
	m.calls++
	m.lastLimit = limit
	return m.klines, m.err
}

func (m *mockProvider) GetTickerPrice(ctx context.Context, symbol string) (float64, error) {
	return 0, errors.New("not used")
}

type mockSink struct {
	pairs      []string
	prices     []float64
	autoClosed []*domain.Position
	err        error
}

func (m *mockSink) UpdatePrice(ctx context.Context, pair string, price float64) ([]*domain.Position, error) {
	m.pairs = append(m.pairs, pair)
	m.prices = append(m.prices, price)
	return m.autoClosed, m.err
}

type mockCache struct {
	saved [][]*domain.Kline
	err   error
}

func (m *mockCache) SaveKlines(ctx context.Context, klines []*domain.Kline) error {
	m.saved = append(m.saved, klines)
	return m.err
}

func (m *mockCache) FindRecent(ctx context.Context, symbol, interval string, limit int) ([]*domain.Kline, error) {
	return nil, nil
}

func (m *mockCache) CountBySymbol(ctx context.Context, symbol, interval string) (int, error) {
	return 0, nil
}

func testKlines(closes ...float64) []*domain.Kline {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	klines := make([]*domain.Kline, 0, len(closes))
	for i, c := range closes {
		open := start.Add(time.Duration(i) * time.Hour)
		klines = append(klines, &domain.Kline{
			OpenTime: open, CloseTime: open.Add(time.Hour),
			Symbol: "BTC/USDT", Interval: "1h", Close: c, IsFinal: true,
		})
	}
	return klines
}

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = &mockLogger{}
	}
	if cfg.AttemptsPerProvider == 0 {
		cfg.AttemptsPerProvider = 1 // keep tests fast, no backoff sleeps
	}
	svc, err := New(cfg)
	require.NoError(t, err)
	return svc
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Logger: &mockLogger{}})
	assert.Error(t, err, "providers required")

	_, err = New(Config{Providers: []ports.MarketDataProvider{&mockProvider{name: "a"}}})
	assert.Error(t, err, "logger required")
}

func TestFetchOHLCV_PushesPriceAndCaches(t *testing.T) {
	provider := &mockProvider{name: "binance", klines: testKlines(100, 101, 102)}
	sink := &mockSink{}
	cache := &mockCache{}
	svc := newTestService(t, Config{
		Providers: []ports.MarketDataProvider{provider},
		Sink:      sink,
		Cache:     cache,
	})

	res, err := svc.FetchOHLCV(context.Background(), "BTC/USDT", "1h", 200)
	require.NoError(t, err)

	assert.Equal(t, "binance", res.Provider)
	assert.Equal(t, 102.0, res.LastPrice)
	assert.Len(t, res.Klines, 3)
	assert.Equal(t, []string{"BTC/USDT"}, sink.pairs)
	assert.Equal(t, []float64{102}, sink.prices)
	require.Len(t, cache.saved, 1)
	assert.Len(t, cache.saved[0], 3)
}

func TestFetchOHLCV_EnforcesMinimumCandleCount(t *testing.T) {
	provider := &mockProvider{name: "binance", klines: testKlines(100, 101)}
	svc := newTestService(t, Config{Providers: []ports.MarketDataProvider{provider}})

	_, err := svc.FetchOHLCV(context.Background(), "BTC/USDT", "1h", 5)
	require.NoError(t, err)
	assert.Equal(t, 60, provider.lastLimit)
}

func TestFetchOHLCV_FailsOverAndPromotes(t *testing.T) {
	primary := &mockProvider{name: "binance", err: ports.ErrProviderUnavailable}
	fallback := &mockProvider{name: "kraken", klines: testKlines(100, 101)}
	svc := newTestService(t, Config{
		Providers: []ports.MarketDataProvider{primary, fallback},
	})
	require.Equal(t, "binance", svc.Primary())

	res, err := svc.FetchOHLCV(context.Background(), "BTC/USDT", "1h", 60)
	require.NoError(t, err)
	assert.Equal(t, "kraken", res.Provider)
	assert.Equal(t, "kraken", svc.Primary())
	assert.Equal(t, 1, primary.calls)

	// The promoted provider is tried first next time; the old primary is
	// not touched once the new one succeeds.
	_, err = svc.FetchOHLCV(context.Background(), "BTC/USDT", "1h", 60)
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, fallback.calls)
}

func TestFetchOHLCV_AllProvidersFail(t *testing.T) {
	a := &mockProvider{name: "binance", err: ports.ErrRateLimited}
	b := &mockProvider{name: "kraken", err: ports.ErrProviderUnavailable}
	svc := newTestService(t, Config{Providers: []ports.MarketDataProvider{a, b}})

	_, err := svc.FetchOHLCV(context.Background(), "BTC/USDT", "1h", 60)
	require.ErrorIs(t, err, ports.ErrAllProvidersFailed)
	// The failure report names every attempted provider.
	assert.Contains(t, err.Error(), "binance")
	assert.Contains(t, err.Error(), "kraken")
}

func TestFetchOHLCV_EmptyResponseCountsAsFailure(t *testing.T) {
	empty := &mockProvider{name: "binance"}
	full := &mockProvider{name: "kraken", klines: testKlines(100, 101)}
	svc := newTestService(t, Config{Providers: []ports.MarketDataProvider{empty, full}})

	res, err := svc.FetchOHLCV(context.Background(), "BTC/USDT", "1h", 60)
	require.NoError(t, err)
	assert.Equal(t, "kraken", res.Provider)
}

func TestFetchOHLCV_RetriesBeforeFailover(t *testing.T) {
	flaky := &mockProvider{name: "binance", err: ports.ErrProviderUnavailable}
	svc := newTestService(t, Config{
		Providers:           []ports.MarketDataProvider{flaky},
		AttemptsPerProvider: 3,
	})

	_, err := svc.FetchOHLCV(context.Background(), "BTC/USDT", "1h", 60)
	require.ErrorIs(t, err, ports.ErrAllProvidersFailed)
	assert.Equal(t, 3, flaky.calls)
}

func TestFetchOHLCV_CacheFailureIsNotFatal(t *testing.T) {
	provider := &mockProvider{name: "binance", klines: testKlines(100, 101)}
	cache := &mockCache{err: ports.ErrQueryFailed}
	svc := newTestService(t, Config{
		Providers: []ports.MarketDataProvider{provider},
		Cache:     cache,
	})

	_, err := svc.FetchOHLCV(context.Background(), "BTC/USDT", "1h", 60)
	assert.NoError(t, err)
}

func TestFetchOHLCV_ReportsAutoClosedPositions(t *testing.T) {
	pnl := -110.0
	closed := &domain.Position{ID: "abc", Pair: "BTC/USDT", Status: domain.StatusClosed, PNL: &pnl}
	provider := &mockProvider{name: "binance", klines: testKlines(100, 89)}
	sink := &mockSink{autoClosed: []*domain.Position{closed}}
	svc := newTestService(t, Config{
		Providers: []ports.MarketDataProvider{provider},
		Sink:      sink,
	})

	res, err := svc.FetchOHLCV(context.Background(), "BTC/USDT", "1h", 60)
	require.NoError(t, err)
	require.Len(t, res.AutoClosed, 1)
	assert.Equal(t, "abc", res.AutoClosed[0].ID)
}
