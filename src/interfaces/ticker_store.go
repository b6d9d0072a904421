package interfaces

import (
	"context"
	"time"

	"market-signals/src/models"
)

// -----------------------------------------------------------------------------
// ITickerStore is what the HTTP and gRPC surfaces need from the store.
// -----------------------------------------------------------------------------

type ITickerStore interface {
	AddTicker(ctx context.Context, symbol string) (*models.MTickerSeries, error)
	DeleteTicker(symbol string) error
	RefreshAll(ctx context.Context) models.MRefreshResult
	Symbols() []string
	Snapshot() map[string]*models.MTickerSeries
	QueryAt(t time.Time) map[string]models.MPointInTime
	LatestRows(symbols ...string) map[string]models.MSeriesRow
	History(symbol string) ([]models.MSeriesRow, error)
}
