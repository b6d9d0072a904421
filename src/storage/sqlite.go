package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"market-signals/src/logger"
	"market-signals/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type AsyncSQLiteDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAsyncSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*AsyncSQLiteDB, error) {
	return &AsyncSQLiteDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Initialize() error {
	dsn := d.Config.Storage.DBPath
	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create db dir: %w", err)
		}
	}

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	// one writer at a time
	db.SetMaxOpenConns(1)
	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) createTables() error {
	// SQLite types: INTEGER for int64, REAL for float64, TEXT for string
	query := `
		CREATE TABLE IF NOT EXISTS series_rows (
			symbol TEXT,
			timestamp INTEGER,
			price REAL,
			rolling_mean REAL,
			rolling_std_dev REAL,
			signal INTEGER,
			position REAL,
			pnl REAL,
			PRIMARY KEY (symbol, timestamp)
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create series_rows: %w", err)
	}

	query = `
		CREATE TABLE IF NOT EXISTS tickers (
			symbol TEXT PRIMARY KEY,
			interval_minutes INTEGER,
			bars INTEGER,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create tickers: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

// SaveSeries replaces the rows of one ticker inside a single transaction.
func (d *AsyncSQLiteDB) SaveSeries(series *models.MTickerSeries) error {
	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM series_rows WHERE symbol = ?", series.Symbol); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO series_rows (symbol, timestamp, price, rolling_mean, rolling_std_dev, signal, position, pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range series.Samples {
		row := series.Row(i)
		_, err := stmt.Exec(row.Symbol, row.Timestamp.Unix(), row.Price, row.RollingMean, row.RollingStdDev, row.Signal, row.Position, row.PnL)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`
		INSERT INTO tickers (symbol, interval_minutes, bars, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (symbol) DO UPDATE SET
			interval_minutes = excluded.interval_minutes,
			bars = excluded.bars,
			updated_at = excluded.updated_at
	`, series.Symbol, series.IntervalMinutes, series.Len(), time.Now().UTC())
	if err != nil {
		return err
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) DeleteSeries(symbol string) error {
	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM series_rows WHERE symbol = ?", symbol); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM tickers WHERE symbol = ?", symbol); err != nil {
		return err
	}
	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) LoadRows(symbol string) ([]models.MSeriesRow, error) {
	rows, err := d.DB.Query(`
		SELECT symbol, timestamp, price, rolling_mean, rolling_std_dev, signal, position, pnl
		FROM series_rows WHERE symbol = ? ORDER BY timestamp
	`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

// -----------------------------------------------------------------------------

// scanRows is shared by both backends; timestamps are stored as unix seconds.
func scanRows(rows *sql.Rows) ([]models.MSeriesRow, error) {
	var out []models.MSeriesRow
	for rows.Next() {
		var (
			r    models.MSeriesRow
			ts   int64
			mean sql.NullFloat64
			std  sql.NullFloat64
		)
		if err := rows.Scan(&r.Symbol, &ts, &r.Price, &mean, &std, &r.Signal, &r.Position, &r.PnL); err != nil {
			return nil, err
		}
		r.Timestamp = time.Unix(ts, 0).UTC()
		if mean.Valid {
			r.RollingMean = &mean.Float64
		}
		if std.Valid {
			r.RollingStdDev = &std.Float64
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
