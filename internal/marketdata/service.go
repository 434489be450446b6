package marketdata

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jpillora/backoff"

	"cryptoPaperBot/internal/domain"
	"cryptoPaperBot/internal/ports"
)

// minCandles is the floor applied to every fetch so indicator math always
// has enough history to work with.
const minCandles = 60

// PriceSink receives the latest observed close for a market. The simulator's
// UpdatePrice satisfies this; the returned positions are the ones the price
// ingestion auto-closed.
type PriceSink interface {
	UpdatePrice(ctx context.Context, pair string, price float64) ([]*domain.Position, error)
}

// Service fetches OHLCV data with failover across an ordered list of
// providers. The provider that last succeeded is promoted to primary and
// tried first on subsequent fetches. Every successful fetch pushes the
// latest close into the price sink and, when a cache is configured, writes
// the candles through to it.
type Service struct {
	logger   ports.Logger
	sink     PriceSink
	cache    ports.KlineRepository
	attempts int

	mu         sync.Mutex
	providers  []ports.MarketDataProvider
	primaryIdx int
}

// Config holds construction parameters for the market data service.
type Config struct {
	// Providers in preference order; the first is the initial primary.
	Providers []ports.MarketDataProvider
	// Sink receives the latest close after each successful fetch. Optional.
	Sink PriceSink
	// Cache is an optional write-through kline cache.
	Cache ports.KlineRepository
	// AttemptsPerProvider is how often a single provider is retried before
	// failing over. Defaults to 3.
	AttemptsPerProvider int
	Logger              ports.Logger
}

// New creates the failover market data service.
func New(cfg Config) (*Service, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for market data service")
	}
	if len(cfg.Providers) == 0 {
		return nil, fmt.Errorf("at least one market data provider is required")
	}
	attempts := cfg.AttemptsPerProvider
	if attempts <= 0 {
		attempts = 3
	}
	return &Service{
		logger:    cfg.Logger,
		sink:      cfg.Sink,
		cache:     cfg.Cache,
		attempts:  attempts,
		providers: cfg.Providers,
	}, nil
}

// FetchResult is the outcome of one OHLCV fetch.
type FetchResult struct {
	Pair       string             `json:"pair"`
	Interval   string             `json:"interval"`
	Provider   string             `json:"provider"` // provider that supplied the data
	Klines     []*domain.Kline    `json:"klines"`
	LastPrice  float64            `json:"last_price"`
	AutoClosed []*domain.Position `json:"auto_closed"` // positions the price ingestion closed
}

// FetchOHLCV fetches candles for the pair, trying the primary provider first
// and failing over through the rest of the configured order. Requests for
// fewer than minCandles candles are raised to minCandles.
func (s *Service) FetchOHLCV(ctx context.Context, pair, interval string, limit int) (*FetchResult, error) {
	if limit < minCandles {
		limit = minCandles
	}

	var attemptErrs []string
	for _, idx := range s.candidateOrder() {
		provider := s.providers[idx]
		klines, err := s.fetchWithRetry(ctx, provider, pair, interval, limit)
		if err != nil {
			attemptErrs = append(attemptErrs, fmt.Sprintf("%s: %v", provider.Name(), err))
			if ctx.Err() != nil {
				break
			}
			s.logger.Warn(ctx, "Provider failed, trying next", map[string]interface{}{
				"provider": provider.Name(),
				"pair":     pair,
			})
			continue
		}
		if len(klines) == 0 {
			attemptErrs = append(attemptErrs, fmt.Sprintf("%s: returned no candles", provider.Name()))
			continue
		}

		s.promote(idx)
		return s.finishFetch(ctx, provider.Name(), pair, interval, klines)
	}

	return nil, fmt.Errorf("%w for %s %s: attempts: [%s]",
		ports.ErrAllProvidersFailed, pair, interval, strings.Join(attemptErrs, "; "))
}

// fetchWithRetry retries one provider a few times with exponential backoff
// before giving up on it.
func (s *Service) fetchWithRetry(ctx context.Context, provider ports.MarketDataProvider, pair, interval string, limit int) ([]*domain.Kline, error) {
	b := &backoff.Backoff{
		Min:    200 * time.Millisecond,
		Max:    5 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		klines, err := provider.GetKlines(ctx, pair, interval, limit)
		if err == nil {
			return klines, nil
		}
		lastErr = err

		if attempt == s.attempts || ctx.Err() != nil {
			break
		}
		s.logger.Debug(ctx, "Retrying provider", map[string]interface{}{
			"provider": provider.Name(),
			"attempt":  attempt,
		})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(b.Duration()):
		}
	}
	return nil, lastErr
}

// finishFetch runs the post-fetch side effects: cache write-through and the
// price push into the ledger. Cache failures are logged, not fatal.
func (s *Service) finishFetch(ctx context.Context, providerName, pair, interval string, klines []*domain.Kline) (*FetchResult, error) {
	result := &FetchResult{
		Pair:      pair,
		Interval:  interval,
		Provider:  providerName,
		Klines:    klines,
		LastPrice: klines[len(klines)-1].Close,
	}

	if s.cache != nil {
		if err := s.cache.SaveKlines(ctx, klines); err != nil {
			s.logger.Warn(ctx, "Failed to cache klines", map[string]interface{}{
				"pair":  pair,
				"error": err.Error(),
			})
		}
	}

	if s.sink != nil {
		autoClosed, err := s.sink.UpdatePrice(ctx, pair, result.LastPrice)
		if err != nil {
			return nil, fmt.Errorf("pushing price into ledger: %w", err)
		}
		result.AutoClosed = autoClosed
	}

	s.logger.Info(ctx, "Fetched OHLCV", map[string]interface{}{
		"pair":      pair,
		"interval":  interval,
		"provider":  providerName,
		"count":     len(klines),
		"lastPrice": result.LastPrice,
	})
	return result, nil
}

// candidateOrder returns provider indexes with the current primary first and
// the rest in their configured order.
func (s *Service) candidateOrder() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := make([]int, 0, len(s.providers))
	order = append(order, s.primaryIdx)
	for i := range s.providers {
		if i != s.primaryIdx {
			order = append(order, i)
		}
	}
	return order
}

// promote makes the provider at idx the primary for subsequent fetches.
func (s *Service) promote(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primaryIdx = idx
}

// Primary returns the name of the current primary provider.
func (s *Service) Primary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.providers[s.primaryIdx].Name()
}
