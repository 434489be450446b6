package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoPaperBot/internal/ports"
)

func TestSuggestNotional(t *testing.T) {
	tests := []struct {
		name         string
		equity       float64
		lastPrice    float64
		stopLoss     float64
		riskPercent  float64
		wantNotional float64
		wantRisk     float64
		wantErr      error
	}{
		{
			name:   "one percent risk with five percent stop",
			equity: 10_000, lastPrice: 100, stopLoss: 95, riskPercent: 1,
			wantNotional: 2_000, wantRisk: 100,
		},
		{
			name:   "stop above price sizes the same as below",
			equity: 10_000, lastPrice: 100, stopLoss: 105, riskPercent: 1,
			wantNotional: 2_000, wantRisk: 100,
		},
		{
			name:   "two percent risk",
			equity: 5_000, lastPrice: 200, stopLoss: 190, riskPercent: 2,
			wantNotional: 2_000, wantRisk: 100,
		},
		{
			name:   "non-positive equity",
			equity: 0, lastPrice: 100, stopLoss: 95, riskPercent: 1,
			wantErr: ports.ErrNonPositiveEquity,
		},
		{
			name:   "zero risk percent",
			equity: 10_000, lastPrice: 100, stopLoss: 95, riskPercent: 0,
			wantErr: ports.ErrInvalidArgument,
		},
		{
			name:   "stop equals last price",
			equity: 10_000, lastPrice: 100, stopLoss: 100, riskPercent: 1,
			wantErr: ports.ErrZeroStopDistance,
		},
		{
			name:   "non-positive stop",
			equity: 10_000, lastPrice: 100, stopLoss: -5, riskPercent: 1,
			wantErr: ports.ErrInvalidArgument,
		},
		{
			name:   "non-positive last price",
			equity: 10_000, lastPrice: 0, stopLoss: 95, riskPercent: 1,
			wantErr: ports.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SuggestNotional(tt.equity, tt.lastPrice, tt.stopLoss, tt.riskPercent)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantNotional, got.Notional, 1e-9)
			assert.InDelta(t, tt.wantRisk, got.RiskAmount, 1e-9)
			assert.Equal(t, tt.equity, got.Equity)
			assert.Equal(t, tt.lastPrice, got.LastPrice)
		})
	}
}

func TestCheckNotionalCap(t *testing.T) {
	cfg := Config{MaxNotionalFraction: 0.20}

	assert.NoError(t, cfg.CheckNotionalCap(2_000, 10_000))
	assert.NoError(t, cfg.CheckNotionalCap(2_000.0, 10_000)) // exactly at the cap

	err := cfg.CheckNotionalCap(2_000.01, 10_000)
	require.ErrorIs(t, err, ports.ErrInvalidArgument)

	// A zero fraction disables the cap.
	unlimited := Config{MaxNotionalFraction: 0}
	assert.NoError(t, unlimited.CheckNotionalCap(1e9, 10))
}
