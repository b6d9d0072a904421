package store

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"market-signals/src/analysis"
	"market-signals/src/helpers"
	"market-signals/src/interfaces"
	"market-signals/src/logger"
	"market-signals/src/metrics"
	"market-signals/src/models"
)

type tickerEntry struct {
	mu     sync.Mutex
	series *models.MTickerSeries
	// set by DeleteTicker under mu; writers must not persist afterwards
	removed bool
}

func (e *tickerEntry) load() *models.MTickerSeries {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.series
}

// TickerStore owns every tracked series. The RWMutex guards the key set, each
// entry's mutex guards its series pointer. Provider calls run with no lock held.
type TickerStore struct {
	Historical interfaces.IHistoricalDataProvider
	Realtime   interfaces.IRealtimeQuoteProvider
	Analysis   *analysis.AnalysisFacade
	Database   interfaces.IDatabase
	Logger     *logger.Logger

	mu        sync.RWMutex
	entries   map[string]*tickerEntry
	listeners []func(models.MRefreshResult)
}

// -----------------------------------------------------------------------------

func NewTickerStore(
	historical interfaces.IHistoricalDataProvider,
	realtime interfaces.IRealtimeQuoteProvider,
	facade *analysis.AnalysisFacade,
	db interfaces.IDatabase,
	log *logger.Logger,
) *TickerStore {
	return &TickerStore{
		Historical: historical,
		Realtime:   realtime,
		Analysis:   facade,
		Database:   db,
		Logger:     log,
		entries:    make(map[string]*tickerEntry),
	}
}

// -----------------------------------------------------------------------------

// OnRefresh registers a callback invoked after every refresh cycle.
func (s *TickerStore) OnRefresh(fn func(models.MRefreshResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// -----------------------------------------------------------------------------

func (s *TickerStore) lookup(symbol string) *tickerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[symbol]
}

// -----------------------------------------------------------------------------

// AddTicker seeds a ticker from its intraday history.
func (s *TickerStore) AddTicker(ctx context.Context, symbol string) (*models.MTickerSeries, error) {
	symbol = helpers.NormalizeSymbol(symbol)

	if s.lookup(symbol) != nil {
		return nil, helpers.NewDuplicateTickerError(symbol)
	}

	samples, err := s.Historical.FetchHistorical(ctx, symbol, s.Analysis.IntervalMinutes)
	if err != nil || len(samples) == 0 {
		s.Logger.Error("Error adding %s: no historical data (%v)", symbol, err)
		return nil, helpers.NewEmptySeriesError(symbol, err)
	}

	series, err := s.Analysis.Annotate(symbol, samples)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, exists := s.entries[symbol]; exists {
		s.mu.Unlock()
		return nil, helpers.NewDuplicateTickerError(symbol)
	}
	entry := &tickerEntry{series: series}
	s.entries[symbol] = entry
	count := len(s.entries)
	s.mu.Unlock()

	metrics.TrackedTickers.Set(float64(count))

	entry.mu.Lock()
	if !entry.removed {
		s.publishMetrics(series)
		s.persist(series)
	}
	entry.mu.Unlock()

	s.Logger.Info("Added %s with %d bars", symbol, series.Len())
	return series, nil
}

// -----------------------------------------------------------------------------

// DeleteTicker stops tracking a ticker.
func (s *TickerStore) DeleteTicker(symbol string) error {
	symbol = helpers.NormalizeSymbol(symbol)

	s.mu.Lock()
	entry, exists := s.entries[symbol]
	if !exists {
		s.mu.Unlock()
		return helpers.NewUnknownTickerError(symbol)
	}
	delete(s.entries, symbol)
	count := len(s.entries)
	s.mu.Unlock()

	metrics.TrackedTickers.Set(float64(count))

	// Under the entry lock so an in-flight refresh cannot write rows back.
	entry.mu.Lock()
	entry.removed = true
	metrics.Forget(symbol)
	if s.Database != nil {
		if err := s.Database.DeleteSeries(symbol); err != nil {
			s.Logger.Error("Failed to delete stored rows for %s: %v", symbol, err)
		}
	}
	entry.mu.Unlock()

	s.Logger.Info("Deleted %s", symbol)
	return nil
}

// -----------------------------------------------------------------------------

// RefreshAll appends one realtime quote to every tracked ticker. A failing
// ticker is logged and skipped; the others are still refreshed.
func (s *TickerStore) RefreshAll(ctx context.Context) models.MRefreshResult {
	start := time.Now()
	result := models.MRefreshResult{Failed: make(map[string]error)}

	for _, symbol := range s.Symbols() {
		if ctx.Err() != nil {
			s.Logger.Info("Refresh cancelled before %s", symbol)
			break
		}

		if err := s.refreshOne(ctx, symbol); err != nil {
			if errors.Is(err, errTickerGone) {
				continue
			}
			result.Failed[symbol] = err
			metrics.QuoteFailures.WithLabelValues(symbol, failureReason(err)).Inc()
			s.Logger.Warning("Skipping %s this cycle: %v", symbol, err)
			continue
		}
		result.Updated = append(result.Updated, symbol)
	}

	metrics.RefreshCycles.Inc()
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	s.Logger.Info("Refresh cycle: %d updated, %d failed in %s", len(result.Updated), len(result.Failed), time.Since(start).Round(time.Millisecond))

	s.mu.RLock()
	listeners := append([]func(models.MRefreshResult){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(result)
	}

	return result
}

var errTickerGone = errors.New("ticker deleted during refresh")

// -----------------------------------------------------------------------------

func (s *TickerStore) refreshOne(ctx context.Context, symbol string) error {
	if s.lookup(symbol) == nil {
		return errTickerGone
	}

	s.Logger.Debug("Getting realtime data for %s", symbol)
	quote, err := s.Realtime.FetchQuote(ctx, symbol)
	if err != nil {
		return helpers.NewRealtimeFetchError(symbol, err)
	}

	// Re-resolve: the ticker may have been deleted while the quote was in flight.
	entry := s.lookup(symbol)
	if entry == nil {
		return errTickerGone
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.removed {
		return errTickerGone
	}
	next, err := s.Analysis.Extend(entry.series, quote)
	if err != nil {
		return err
	}
	entry.series = next

	s.publishMetrics(next)
	s.persist(next)
	return nil
}

// -----------------------------------------------------------------------------

func failureReason(err error) string {
	var fetchErr *helpers.RealtimeFetchError
	var staleErr *helpers.StaleQuoteError
	var zeroErr *helpers.ZeroPriceError
	switch {
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &staleErr):
		return "stale"
	case errors.As(err, &zeroErr):
		return "zero_price"
	default:
		return "other"
	}
}

// -----------------------------------------------------------------------------

func (s *TickerStore) publishMetrics(series *models.MTickerSeries) {
	last, ok := series.Last()
	if !ok {
		return
	}
	metrics.LastPrice.WithLabelValues(series.Symbol).Set(last.Price)
	if n := series.Len(); n >= 2 {
		// the last bar is always neutral; report the latest classified one
		metrics.LastSignal.WithLabelValues(series.Symbol).Set(float64(series.Signal[n-2]))
	}
}

// -----------------------------------------------------------------------------

func (s *TickerStore) persist(series *models.MTickerSeries) {
	if s.Database == nil {
		return
	}
	if err := s.Database.SaveSeries(series); err != nil {
		s.Logger.Error("Failed to persist %s: %v", series.Symbol, err)
	}
}

// -----------------------------------------------------------------------------

// Symbols returns the tracked tickers in sorted order.
func (s *TickerStore) Symbols() []string {
	s.mu.RLock()
	symbols := make([]string, 0, len(s.entries))
	for symbol := range s.entries {
		symbols = append(symbols, symbol)
	}
	s.mu.RUnlock()

	sort.Strings(symbols)
	return symbols
}

// -----------------------------------------------------------------------------

// Get returns the current series of a ticker.
func (s *TickerStore) Get(symbol string) (*models.MTickerSeries, bool) {
	entry := s.lookup(helpers.NormalizeSymbol(symbol))
	if entry == nil {
		return nil, false
	}
	return entry.load(), true
}

// -----------------------------------------------------------------------------

// Snapshot returns the current series of every ticker. The series are immutable.
func (s *TickerStore) Snapshot() map[string]*models.MTickerSeries {
	s.mu.RLock()
	entries := make(map[string]*tickerEntry, len(s.entries))
	for symbol, entry := range s.entries {
		entries[symbol] = entry
	}
	s.mu.RUnlock()

	out := make(map[string]*models.MTickerSeries, len(entries))
	for symbol, entry := range entries {
		out[symbol] = entry.load()
	}
	return out
}

// -----------------------------------------------------------------------------

// QueryAt answers the point-in-time query for every ticker.
func (s *TickerStore) QueryAt(t time.Time) map[string]models.MPointInTime {
	snapshot := s.Snapshot()
	out := make(map[string]models.MPointInTime, len(snapshot))
	for symbol, series := range snapshot {
		out[symbol] = analysis.PointInTime(series, t)
	}
	return out
}

// -----------------------------------------------------------------------------

// LatestRows returns the last bar of every ticker, used for live pushes.
func (s *TickerStore) LatestRows(symbols ...string) map[string]models.MSeriesRow {
	snapshot := s.Snapshot()
	out := make(map[string]models.MSeriesRow, len(snapshot))
	for symbol, series := range snapshot {
		if len(symbols) > 0 && !slices.Contains(symbols, symbol) {
			continue
		}
		if series.Len() > 0 {
			out[symbol] = series.Row(series.Len() - 1)
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// History returns every annotated row of a tracked ticker, preferring the
// persisted rows when a database is configured. Rows left behind by an earlier
// run are not served for untracked tickers.
func (s *TickerStore) History(symbol string) ([]models.MSeriesRow, error) {
	symbol = helpers.NormalizeSymbol(symbol)

	if s.lookup(symbol) == nil {
		return nil, helpers.NewUnknownTickerError(symbol)
	}

	if s.Database != nil {
		rows, err := s.Database.LoadRows(symbol)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}

	series, ok := s.Get(symbol)
	if !ok {
		return nil, helpers.NewUnknownTickerError(symbol)
	}
	rows := make([]models.MSeriesRow, series.Len())
	for i := range rows {
		rows[i] = series.Row(i)
	}
	return rows, nil
}
