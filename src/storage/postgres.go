package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"market-signals/src/logger"
	"market-signals/src/models"

	_ "github.com/lib/pq"
)

var identifierCleaner = regexp.MustCompile(`[^A-Za-z0-9_]`)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	name := cfg.Name
	if name == "" {
		// Fall back to the executable name for the schema
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable name: %w", err)
		}
		name = filepath.Base(exe)
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	return &PostgresDB{
		Config: cfg,
		Schema: SchemaName(name),
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

// SchemaName turns an application name into a safe identifier.
func SchemaName(name string) string {
	return strings.ToLower(identifierCleaner.ReplaceAllString(name, "_"))
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	// Create Schema
	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", d.Schema, err)
	}

	if err := d.createTables(); err != nil {
		return err
	}

	d.Logger.Info("PostgresDB initialized successfully (Schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) createTables() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."series_rows" (
			symbol TEXT,
			timestamp BIGINT,
			price DOUBLE PRECISION,
			rolling_mean DOUBLE PRECISION,
			rolling_std_dev DOUBLE PRECISION,
			signal SMALLINT,
			position DOUBLE PRECISION,
			pnl DOUBLE PRECISION,
			PRIMARY KEY (symbol, timestamp)
		);
	`, d.Schema)
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create series_rows: %w", err)
	}

	query = fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."tickers" (
			symbol TEXT PRIMARY KEY,
			interval_minutes INTEGER,
			bars INTEGER,
			source TEXT,
			updated_at TIMESTAMP
		);
	`, d.Schema)
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create tickers: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) SaveSeries(series *models.MTickerSeries) error {
	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM "%s"."series_rows" WHERE symbol = $1`, d.Schema), series.Symbol); err != nil {
		return err
	}

	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT INTO "%s"."series_rows" (symbol, timestamp, price, rolling_mean, rolling_std_dev, signal, position, pnl)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, d.Schema))
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

	if err := d.upsertTicker(tx, series.Symbol, series.IntervalMinutes, series.Len(), "series"); err != nil {
		return err
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) upsertTicker(tx *sql.Tx, symbol string, interval, bars int, source string) error {
	_, err := tx.Exec(fmt.Sprintf(`
		INSERT INTO "%s"."tickers" (symbol, interval_minutes, bars, source, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (symbol) DO UPDATE SET
			interval_minutes = EXCLUDED.interval_minutes,
			bars = EXCLUDED.bars,
			source = EXCLUDED.source,
			updated_at = EXCLUDED.updated_at
	`, d.Schema), symbol, interval, bars, source, time.Now().UTC())
	return err
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) DeleteSeries(symbol string) error {
	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM "%s"."series_rows" WHERE symbol = $1`, d.Schema), symbol); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM "%s"."tickers" WHERE symbol = $1`, d.Schema), symbol); err != nil {
		return err
	}
	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) LoadRows(symbol string) ([]models.MSeriesRow, error) {
	rows, err := d.DB.Query(fmt.Sprintf(`
		SELECT symbol, timestamp, price, rolling_mean, rolling_std_dev, signal, position, pnl
		FROM "%s"."series_rows" WHERE symbol = $1 ORDER BY timestamp
	`, d.Schema), symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
