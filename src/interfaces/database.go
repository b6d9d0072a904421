package interfaces

import "market-signals/src/models"

// -----------------------------------------------------------------------------
// IDatabase defines the contract for storage operations.
// -----------------------------------------------------------------------------

type IDatabase interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveSeries replaces the stored rows of one ticker with the annotated series.
	SaveSeries(series *models.MTickerSeries) error

	// -----------------------------------------------------------------------------

	// DeleteSeries removes every stored row of a ticker.
	DeleteSeries(symbol string) error

	// -----------------------------------------------------------------------------

	// LoadRows returns the stored rows of a ticker in timestamp order.
	LoadRows(symbol string) ([]models.MSeriesRow, error)

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}

// -----------------------------------------------------------------------------
// ITickerDirectory is implemented by backends that can resolve ticker lists.
// -----------------------------------------------------------------------------

type ITickerDirectory interface {

	// ExpandTickers replaces table references with the symbols they hold.
	ExpandTickers(raw []string) ([]string, error)
}
