package ports

import "errors"

// Standard application-level errors.
// Adapters and the simulator wrap context (offending values, limits) around
// these sentinels with fmt.Errorf("...: %w", ...), so callers can both match
// with errors.Is and show the message to an end user as-is.
var (
	// Ledger / risk-sizing errors
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInsufficientFunds = errors.New("insufficient cash for requested notional")
	ErrNoPriceAvailable  = errors.New("no price available for market")
	ErrNotFound          = errors.New("position not found")
	ErrNonPositiveEquity = errors.New("equity is non-positive")
	ErrZeroStopDistance  = errors.New("stop distance is zero")

	// Market data provider errors
	ErrInvalidRequest       = errors.New("invalid request parameters or format")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrTimeout              = errors.New("operation timed out")
	ErrAuthenticationFailed = errors.New("provider authentication failed (check API keys)")
	ErrProviderUnavailable  = errors.New("market data provider is unavailable")
	ErrAllProvidersFailed   = errors.New("all market data providers failed")

	// Database errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
)
