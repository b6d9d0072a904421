package storage

import (
	"fmt"

	"market-signals/src/interfaces"
	"market-signals/src/logger"
	"market-signals/src/models"
)

// NewDatabase builds and initializes the configured backend. A nil database
// means persistence is disabled.
func NewDatabase(cfg *models.MConfig, log *logger.Logger) (interfaces.IDatabase, error) {
	var (
		db  interfaces.IDatabase
		err error
	)

	switch cfg.Storage.DBType {
	case "", "none":
		return nil, nil
	case "postgres":
		db, err = NewPostgresDB(cfg, log)
	case "sqlite":
		db, err = NewAsyncSQLiteDB(cfg, log)
	default:
		return nil, fmt.Errorf("unknown db type: %s", cfg.Storage.DBType)
	}
	if err != nil {
		return nil, err
	}

	if err := db.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize %s: %w", cfg.Storage.DBType, err)
	}
	return db, nil
}
