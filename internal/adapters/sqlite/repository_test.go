package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoPaperBot/internal/domain"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// setupTestDB creates a temporary database for testing
func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "paper-bot-test-*")
	require.NoError(t, err)

	repo, err := NewRepository(Config{
		DBPath: filepath.Join(tmpDir, "test.db"),
		Logger: &mockLogger{},
	})
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		os.RemoveAll(tmpDir)
	}
	return repo, cleanup
}

func makeKlines(symbol, interval string, start time.Time, closes ...float64) []*domain.Kline {
	klines := make([]*domain.Kline, 0, len(closes))
	for i, c := range closes {
		open := start.Add(time.Duration(i) * time.Hour)
		klines = append(klines, &domain.Kline{
			OpenTime:  open,
			CloseTime: open.Add(time.Hour),
			Symbol:    symbol,
			Interval:  interval,
			Open:      c - 1,
			High:      c + 2,
			Low:       c - 2,
			Close:     c,
			Volume:    10,
			IsFinal:   true,
		})
	}
	return klines
}

func TestRepository_SaveAndFindRecent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	klines := makeKlines("BTCUSDT", "1h", start, 100, 101, 102, 103, 104)
	require.NoError(t, repo.SaveKlines(ctx, klines))

	// Most recent 3, oldest first.
	got, err := repo.FindRecent(ctx, "BTCUSDT", "1h", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 102.0, got[0].Close)
	assert.Equal(t, 104.0, got[2].Close)
	assert.True(t, got[0].OpenTime.Before(got[1].OpenTime))

	// Other symbols and intervals stay invisible.
	got, err = repo.FindRecent(ctx, "ETHUSDT", "1h", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
	got, err = repo.FindRecent(ctx, "BTCUSDT", "4h", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepository_SaveIsUpsert(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveKlines(ctx, makeKlines("BTCUSDT", "1h", start, 100, 101)))

	// Re-save the same window with a revised close.
	revised := makeKlines("BTCUSDT", "1h", start, 100, 150)
	require.NoError(t, repo.SaveKlines(ctx, revised))

	count, err := repo.CountBySymbol(ctx, "BTCUSDT", "1h")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := repo.FindRecent(ctx, "BTCUSDT", "1h", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 150.0, got[1].Close)
}

func TestRepository_SaveEmptyBatch(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, repo.SaveKlines(context.Background(), nil))
}

func TestNewRepository_RequiresLogger(t *testing.T) {
	_, err := NewRepository(Config{DBPath: "ignored.db"})
	assert.Error(t, err)
}
