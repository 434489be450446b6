package indicators

import (
	"context"
	"fmt"
	"time"

	"cryptoPaperBot/internal/domain"
)

// Summary is the indicator digest of a fetched candle series: the latest
// close, its time, and RSI over the series.
type Summary struct {
	Pair        string    `json:"pair"`
	Interval    string    `json:"interval"`
	LatestPrice float64   `json:"latest_price"`
	LatestTime  time.Time `json:"latest_time"`
	RSI         float64   `json:"rsi"`
	Overbought  bool      `json:"overbought"`
	Oversold    bool      `json:"oversold"`
	CandleCount int       `json:"candle_count"`
	RSIPeriod   int       `json:"rsi_period"`
}

// Summarize computes the basic indicator summary for a candle series
// (oldest first). The series must hold at least rsiPeriod+1 candles.
func Summarize(ctx context.Context, klines []*domain.Kline, rsiPeriod int, overbought, oversold float64) (*Summary, error) {
	if len(klines) == 0 {
		return nil, fmt.Errorf("summarize requires a non-empty candle series")
	}
	if rsiPeriod <= 0 {
		return nil, fmt.Errorf("rsi period must be positive, got %d", rsiPeriod)
	}
	if len(klines) < rsiPeriod+1 {
		return nil, fmt.Errorf("not enough candles to compute RSI: got %d, need at least %d",
			len(klines), rsiPeriod+1)
	}

	rsi := NewRSI(RSIConfig{
		IndicatorConfig: IndicatorConfig{Period: rsiPeriod},
		Overbought:      overbought,
		Oversold:        oversold,
	})
	value, err := rsi.Calculate(ctx, klines)
	if err != nil {
		return nil, err
	}

	latest := klines[len(klines)-1]
	return &Summary{
		Pair:        latest.Symbol,
		Interval:    latest.Interval,
		LatestPrice: latest.Close,
		LatestTime:  latest.CloseTime,
		RSI:         value,
		Overbought:  rsi.IsOverbought(value),
		Oversold:    rsi.IsOversold(value),
		CandleCount: len(klines),
		RSIPeriod:   rsiPeriod,
	}, nil
}
