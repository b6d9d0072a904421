package interfaces

import (
	"context"

	"market-signals/src/models"
)

// -----------------------------------------------------------------------------
// IHistoricalDataProvider loads the intraday history used to seed a ticker.
// -----------------------------------------------------------------------------

type IHistoricalDataProvider interface {

	// Name returns the unique identifier of the provider
	Name() string

	// -----------------------------------------------------------------------------

	// FetchHistorical returns samples in ascending timestamp order.
	// An empty result and an error both mean the ticker cannot be seeded.
	FetchHistorical(ctx context.Context, symbol string, intervalMinutes int) ([]models.MSample, error)
}

// -----------------------------------------------------------------------------
// IRealtimeQuoteProvider returns the latest quote for a ticker.
// -----------------------------------------------------------------------------

type IRealtimeQuoteProvider interface {

	// Name returns the unique identifier of the provider
	Name() string

	// -----------------------------------------------------------------------------

	// FetchQuote returns the current price and its exchange timestamp.
	FetchQuote(ctx context.Context, symbol string) (models.MSample, error)
}
