package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cryptoPaperBot/internal/domain"
	"cryptoPaperBot/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.KlineRepository using SQLite. It is a local
// cache of fetched market data; no simulated account state is stored here.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite kline cache.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/klines.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("%w: failed to create data directory '%s': %v",
			ports.ErrDBConnection, filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("%w: failed to open database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("%w: failed to ping database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite works best with a single writer connection from Go.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	cfg.Logger.Info(context.Background(), "SQLite kline cache ready", map[string]interface{}{"path": dbPath})
	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS klines (
		symbol TEXT NOT NULL,
		interval TEXT NOT NULL,
		open_time TIMESTAMP NOT NULL,
		close_time TIMESTAMP NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume REAL NOT NULL,
		is_final INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (symbol, interval, open_time)
	);
	CREATE INDEX IF NOT EXISTS idx_klines_symbol_interval_open_time
		ON klines (symbol, interval, open_time);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: schema initialization: %v", ports.ErrQueryFailed, err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite kline cache")
		return r.db.Close()
	}
	return nil
}

// SaveKlines upserts a batch of klines inside one transaction. Re-fetching
// the same window simply overwrites the previous rows.
func (r *Repository) SaveKlines(ctx context.Context, klines []*domain.Kline) error {
	if len(klines) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", ports.ErrQueryFailed, err)
	}
	defer tx.Rollback()

	const query = `
	INSERT OR REPLACE INTO klines
		(symbol, interval, open_time, close_time, open, high, low, close, volume, is_final)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %v", ports.ErrQueryFailed, err)
	}
	defer stmt.Close()

	for _, k := range klines {
		if _, err := stmt.ExecContext(ctx,
			k.Symbol, k.Interval, k.OpenTime, k.CloseTime,
			k.Open, k.High, k.Low, k.Close, k.Volume, k.IsFinal,
		); err != nil {
			return fmt.Errorf("%w: insert kline %s/%s@%s: %v",
				ports.ErrQueryFailed, k.Symbol, k.Interval, k.OpenTime, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ports.ErrQueryFailed, err)
	}
	return nil
}

// FindRecent retrieves the most recent cached klines, oldest first.
func (r *Repository) FindRecent(ctx context.Context, symbol, interval string, limit int) ([]*domain.Kline, error) {
	const query = `
	SELECT symbol, interval, open_time, close_time, open, high, low, close, volume, is_final
	FROM klines
	WHERE symbol = ? AND interval = ?
	ORDER BY open_time DESC
	LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, symbol, interval, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query klines for %s/%s: %v", ports.ErrQueryFailed, symbol, interval, err)
	}
	defer rows.Close()

	var klines []*domain.Kline
	for rows.Next() {
		k := &domain.Kline{}
		if err := rows.Scan(
			&k.Symbol, &k.Interval, &k.OpenTime, &k.CloseTime,
			&k.Open, &k.High, &k.Low, &k.Close, &k.Volume, &k.IsFinal,
		); err != nil {
			return nil, fmt.Errorf("%w: scan kline row: %v", ports.ErrQueryFailed, err)
		}
		klines = append(klines, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate kline rows: %v", ports.ErrQueryFailed, err)
	}

	// Query returned newest first; flip to oldest first for indicator math.
	for i, j := 0, len(klines)-1; i < j; i, j = i+1, j-1 {
		klines[i], klines[j] = klines[j], klines[i]
	}
	return klines, nil
}

// CountBySymbol returns the number of cached klines for a symbol and interval.
func (r *Repository) CountBySymbol(ctx context.Context, symbol, interval string) (int, error) {
	const query = `SELECT COUNT(*) FROM klines WHERE symbol = ? AND interval = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, symbol, interval).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count klines for %s/%s: %v", ports.ErrQueryFailed, symbol, interval, err)
	}
	return count, nil
}
