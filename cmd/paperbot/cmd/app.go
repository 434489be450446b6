package cmd

import (
	"context"
	"fmt"
	"strings"

	"cryptoPaperBot/config"
	"cryptoPaperBot/internal/adapters/binanceclient"
	"cryptoPaperBot/internal/adapters/logger"
	"cryptoPaperBot/internal/adapters/sqlite"
	"cryptoPaperBot/internal/marketdata"
	"cryptoPaperBot/internal/ports"
	"cryptoPaperBot/internal/risk"
	"cryptoPaperBot/internal/sim"
	"cryptoPaperBot/internal/tools"
)

// app wires the full dependency chain for a command invocation: config,
// logger, optional kline cache, market data providers, simulator, toolbelt.
type app struct {
	cfg    *config.Config
	logger ports.Logger
	sim    *sim.Simulator
	belt   *tools.Toolbelt
	market *marketdata.Service
	cache  *sqlite.Repository
}

// newApp builds the application from environment configuration. The market
// data service is skipped when no provider can be constructed without error.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.NewStdLogger(cfg.LogLevel)

	simulator, err := sim.New(sim.Config{
		InitialBalance: cfg.InitialBalance,
		Logger:         log,
	})
	if err != nil {
		return nil, fmt.Errorf("create simulator: %w", err)
	}

	a := &app{cfg: cfg, logger: log, sim: simulator}

	if cfg.KlineDBPath != "" {
		cache, err := sqlite.NewRepository(sqlite.Config{
			DBPath: cfg.KlineDBPath,
			Logger: log,
		})
		if err != nil {
			return nil, fmt.Errorf("open kline cache: %w", err)
		}
		a.cache = cache
	}

	providers := make([]ports.MarketDataProvider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		p, err := buildProvider(name, cfg, log)
		if err != nil {
			a.closeQuietly(ctx)
			return nil, err
		}
		providers = append(providers, p)
	}

	var cache ports.KlineRepository
	if a.cache != nil {
		cache = a.cache
	}
	market, err := marketdata.New(marketdata.Config{
		Providers: providers,
		Sink:      simulator,
		Cache:     cache,
		Logger:    log,
	})
	if err != nil {
		a.closeQuietly(ctx)
		return nil, fmt.Errorf("create market data service: %w", err)
	}
	a.market = market

	belt, err := tools.New(tools.Config{
		Simulator: simulator,
		Risk: risk.Config{
			MaxNotionalFraction: cfg.MaxNotionalFraction,
			DefaultRiskPercent:  cfg.DefaultRiskPercent,
		},
		Market:     market,
		Logger:     log,
		RSIPeriod:  cfg.RSIPeriod,
		Overbought: cfg.RSIOverbought,
		Oversold:   cfg.RSIOversold,
	})
	if err != nil {
		a.closeQuietly(ctx)
		return nil, fmt.Errorf("create toolbelt: %w", err)
	}
	a.belt = belt

	return a, nil
}

// buildProvider constructs a market data adapter by name.
func buildProvider(name string, cfg *config.Config, log ports.Logger) (ports.MarketDataProvider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "binance":
		return binanceclient.New(binanceclient.Config{
			APIKey:     cfg.APIKey,
			SecretKey:  cfg.SecretKey,
			UseTestnet: cfg.IsTestnet,
			Logger:     log,
		})
	default:
		return nil, fmt.Errorf("unsupported market data provider: %q", name)
	}
}

// Close releases resources held by the app. Safe to call once per app.
func (a *app) Close(ctx context.Context) {
	a.closeQuietly(ctx)
}

func (a *app) closeQuietly(ctx context.Context) {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn(ctx, "Failed to close kline cache", map[string]interface{}{"error": err.Error()})
		}
		a.cache = nil
	}
}

// seedPrice makes sure the simulator has a last price for the pair, fetching
// recent candles when none was supplied explicitly.
func (a *app) seedPrice(ctx context.Context, pair string, explicit *float64) error {
	if explicit != nil {
		_, err := a.sim.UpdatePrice(ctx, pair, *explicit)
		return err
	}
	if _, ok := a.sim.LastPrice(pair); ok {
		return nil
	}
	_, err := a.belt.FetchOHLCV(ctx, pair, a.cfg.Interval, 0)
	if err != nil {
		return fmt.Errorf("no price supplied and fetch failed: %w", err)
	}
	return nil
}
