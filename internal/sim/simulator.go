package sim

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"cryptoPaperBot/internal/domain"
	"cryptoPaperBot/internal/ports"
)

// Simulator is the paper-trading ledger for a single simulated spot account.
// It tracks cash, open positions, closed-trade history and the last observed
// price per market, and evaluates stop-loss/take-profit triggers on every
// price update.
//
// Cash conservation holds at all times:
//
//	cash + sum(open notional) == initial balance + sum(realized PnL)
//
// A mutex makes every operation a single critical section, so readers never
// observe a torn intermediate state.
type Simulator struct {
	logger ports.Logger
	now    func() time.Time

	mu             sync.Mutex
	initialBalance float64
	cash           float64
	open           map[string]*domain.Position
	openOrder      []string // insertion order, fixes the trigger sweep order
	closed         map[string]*domain.Position
	history        []*domain.Position // append-only, close order
	lastPrices     map[string]float64
}

// Config holds the construction parameters for a Simulator.
type Config struct {
	InitialBalance float64
	Logger         ports.Logger
	// Now overrides the clock, for tests. Defaults to time.Now in UTC.
	Now func() time.Time
}

// New creates a simulator with a fresh account. Each simulator is fully
// independent; tests and multiple simulations can coexist.
func New(cfg Config) (*Simulator, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for simulator")
	}
	if cfg.InitialBalance <= 0 || !isFinite(cfg.InitialBalance) {
		return nil, fmt.Errorf("%w: initial balance must be positive, got %v",
			ports.ErrInvalidArgument, cfg.InitialBalance)
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	s := &Simulator{
		logger:         cfg.Logger,
		now:            now,
		initialBalance: cfg.InitialBalance,
	}
	s.resetLocked(cfg.InitialBalance)
	return s, nil
}

// PlaceOrderRequest carries the parameters for opening a simulated position.
// EntryPrice defaults to the last observed price for the pair when nil.
type PlaceOrderRequest struct {
	Pair       string
	Side       string
	Notional   float64
	EntryPrice *float64
	StopLoss   *float64
	TakeProfit *float64
}

// PlaceOrder opens a new position, reserving the notional from cash.
// It returns a read copy of the created position.
func (s *Simulator) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*domain.Position, error) {
	side, err := domain.ParseSide(req.Side)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrInvalidArgument, err)
	}
	if req.Notional <= 0 || !isFinite(req.Notional) {
		return nil, fmt.Errorf("%w: notional must be > 0, got %v", ports.ErrInvalidArgument, req.Notional)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Notional > s.cash {
		return nil, fmt.Errorf("%w: requested %v, available %v",
			ports.ErrInsufficientFunds, req.Notional, s.cash)
	}

	entryPrice, err := s.resolvePriceLocked(req.Pair, req.EntryPrice)
	if err != nil {
		return nil, err
	}

	pos := &domain.Position{
		ID:         uuid.NewString(),
		Pair:       req.Pair,
		Side:       side,
		EntryPrice: entryPrice,
		Notional:   req.Notional,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		OpenedAt:   s.now(),
		Status:     domain.StatusOpen,
	}

	s.cash -= req.Notional
	s.open[pos.ID] = pos
	s.openOrder = append(s.openOrder, pos.ID)

	s.logger.Info(ctx, "Simulated position opened", map[string]interface{}{
		"id":       pos.ID,
		"pair":     pos.Pair,
		"side":     pos.Side,
		"notional": pos.Notional,
		"entry":    pos.EntryPrice,
	})
	return pos.Clone(), nil
}

// ClosePosition closes an open position at the given price, or at the last
// observed price for its pair when price is nil. Closing an already-closed
// position is idempotent: the stored result is returned unchanged and no new
// history entry is made.
func (s *Simulator) ClosePosition(ctx context.Context, id string, price *float64) (*domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos, ok := s.closed[id]; ok {
		return pos.Clone(), nil
	}
	pos, ok := s.open[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %q", ports.ErrNotFound, id)
	}

	closePrice, err := s.resolvePriceLocked(pos.Pair, price)
	if err != nil {
		return nil, err
	}

	s.closeLocked(ctx, pos, closePrice, domain.CloseReasonManual)
	return pos.Clone(), nil
}

// UpdatePrice ingests a newly observed price for a market, then sweeps every
// open position on that market for stop-loss/take-profit triggers in
// insertion order. When a gapping price satisfies both levels at once, the
// stop-loss wins. It returns read copies of the positions it auto-closed.
func (s *Simulator) UpdatePrice(ctx context.Context, pair string, price float64) ([]*domain.Position, error) {
	if price <= 0 || !isFinite(price) {
		return nil, fmt.Errorf("%w: price must be positive and finite, got %v",
			ports.ErrInvalidArgument, price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastPrices[pair] = price

	var autoClosed []*domain.Position
	// Snapshot the sweep order: closing mutates openOrder.
	ids := make([]string, len(s.openOrder))
	copy(ids, s.openOrder)
	for _, id := range ids {
		pos, ok := s.open[id]
		if !ok || pos.Pair != pair {
			continue
		}
		if reason, hit := checkTriggers(pos, price); hit {
			s.closeLocked(ctx, pos, price, reason)
			autoClosed = append(autoClosed, pos.Clone())
		}
	}
	return autoClosed, nil
}

// checkTriggers evaluates stop-loss and take-profit against a price.
// Stop-loss is checked first, so it takes precedence when both trigger.
func checkTriggers(pos *domain.Position, price float64) (domain.CloseReason, bool) {
	if pos.StopLoss != nil {
		sl := *pos.StopLoss
		if (pos.Side == domain.SideLong && price <= sl) ||
			(pos.Side == domain.SideShort && price >= sl) {
			return domain.CloseReasonStopLoss, true
		}
	}
	if pos.TakeProfit != nil {
		tp := *pos.TakeProfit
		if (pos.Side == domain.SideLong && price >= tp) ||
			(pos.Side == domain.SideShort && price <= tp) {
			return domain.CloseReasonTakeProfit, true
		}
	}
	return "", false
}

// closeLocked realizes PnL at closePrice and moves the position from the open
// set into history. Caller holds the lock and has validated closePrice.
func (s *Simulator) closeLocked(ctx context.Context, pos *domain.Position, closePrice float64, reason domain.CloseReason) {
	pnl := pos.PNLAt(closePrice)
	closedAt := s.now()

	s.cash += pos.Notional + pnl
	pos.Status = domain.StatusClosed
	pos.ClosedAt = &closedAt
	pos.ClosePrice = &closePrice
	pos.PNL = &pnl
	pos.CloseReason = reason

	delete(s.open, pos.ID)
	for i, id := range s.openOrder {
		if id == pos.ID {
			s.openOrder = append(s.openOrder[:i], s.openOrder[i+1:]...)
			break
		}
	}
	s.closed[pos.ID] = pos
	s.history = append(s.history, pos)

	s.logger.Info(ctx, "Simulated position closed", map[string]interface{}{
		"id":     pos.ID,
		"pair":   pos.Pair,
		"reason": reason,
		"price":  closePrice,
		"pnl":    pnl,
	})
}

// resolvePriceLocked picks the explicit price when given, otherwise falls
// back to the last observed price for the pair. Non-positive prices are
// rejected before they can reach the PnL arithmetic.
func (s *Simulator) resolvePriceLocked(pair string, explicit *float64) (float64, error) {
	price := 0.0
	if explicit != nil {
		price = *explicit
	} else {
		last, ok := s.lastPrices[pair]
		if !ok {
			return 0, fmt.Errorf("%w: %s (ingest a price first or pass one explicitly)",
				ports.ErrNoPriceAvailable, pair)
		}
		price = last
	}
	if price <= 0 || !isFinite(price) {
		return 0, fmt.Errorf("%w: price must be positive and finite, got %v",
			ports.ErrInvalidArgument, price)
	}
	return price, nil
}

// LastPrice returns the last ingested price for a pair, if any.
func (s *Simulator) LastPrice(pair string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lastPrices[pair]
	return p, ok
}

// Reset restores the account to its initial state: cash back to the initial
// balance (or to newBalance when non-nil), open positions, history and last
// prices cleared.
func (s *Simulator) Reset(ctx context.Context, newBalance *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance := s.initialBalance
	if newBalance != nil {
		if *newBalance <= 0 || !isFinite(*newBalance) {
			return fmt.Errorf("%w: initial balance must be positive, got %v",
				ports.ErrInvalidArgument, *newBalance)
		}
		balance = *newBalance
	}
	s.resetLocked(balance)
	s.logger.Info(ctx, "Simulator reset", map[string]interface{}{"initialBalance": balance})
	return nil
}

func (s *Simulator) resetLocked(balance float64) {
	s.initialBalance = balance
	s.cash = balance
	s.open = make(map[string]*domain.Position)
	s.openOrder = nil
	s.closed = make(map[string]*domain.Position)
	s.history = nil
	s.lastPrices = make(map[string]float64)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
