package analysis

import (
	"errors"
	"sort"
	"time"

	"market-signals/src/analysis/core"
	"market-signals/src/helpers"
	"market-signals/src/logger"
	"market-signals/src/models"
)

type AnalysisFacade struct {
	IntervalMinutes int
	Window          int
	Logger          *logger.Logger
	now             func() time.Time
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(intervalMinutes int, log *logger.Logger) (*AnalysisFacade, error) {
	window, err := core.WindowSize(intervalMinutes)
	if err != nil {
		return nil, err
	}

	return &AnalysisFacade{
		IntervalMinutes: intervalMinutes,
		Window:          window,
		Logger:          log,
		now:             time.Now,
	}, nil
}

// -----------------------------------------------------------------------------

// Annotate runs rolling stats, signal classification and the position/PnL fold
// over the full sample list and returns a new series. The input is not retained.
func (a *AnalysisFacade) Annotate(symbol string, samples []models.MSample) (*models.MTickerSeries, error) {
	owned := make([]models.MSample, len(samples))
	copy(owned, samples)

	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].Timestamp.Before(owned[j].Timestamp)
	})

	prices := make([]float64, len(owned))
	for i, s := range owned {
		if s.Price <= 0 {
			return nil, helpers.NewZeroPriceError(symbol, i)
		}
		prices[i] = s.Price
	}

	// 1. Rolling statistics
	means, stds := core.RollingMeanStd(prices, a.Window)

	// 2. Signals
	signals := core.CalculateSignals(prices, means, stds)

	// 3. Position and PnL
	positions := core.FoldPositions(prices, signals)
	pnl, err := core.CalculatePnL(prices, positions)
	if err != nil {
		var priceErr *core.NonPositivePriceError
		if errors.As(err, &priceErr) {
			return nil, helpers.NewZeroPriceError(symbol, priceErr.Index)
		}
		return nil, err
	}

	return &models.MTickerSeries{
		Symbol:          symbol,
		IntervalMinutes: a.IntervalMinutes,
		Samples:         owned,
		RollingMean:     means,
		RollingStdDev:   stds,
		Signal:          signals,
		Position:        positions,
		PnL:             pnl,
		UpdatedAt:       a.now().UTC(),
	}, nil
}

// -----------------------------------------------------------------------------

// Extend appends one sample to an existing series and recomputes everything.
// The previous series is left untouched.
func (a *AnalysisFacade) Extend(series *models.MTickerSeries, sample models.MSample) (*models.MTickerSeries, error) {
	if last, ok := series.Last(); ok && !sample.Timestamp.After(last.Timestamp) {
		return nil, helpers.NewStaleQuoteError(series.Symbol,
			"quote at "+sample.Timestamp.Format(time.RFC3339)+" is not after last bar "+last.Timestamp.Format(time.RFC3339))
	}
	if sample.Price <= 0 {
		return nil, helpers.NewZeroPriceError(series.Symbol, series.Len())
	}

	samples := make([]models.MSample, 0, series.Len()+1)
	samples = append(samples, series.Samples...)
	samples = append(samples, sample)

	return a.Annotate(series.Symbol, samples)
}
