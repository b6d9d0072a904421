package utils

import (
	"sync"
	"time"

	"market-signals/src/logger"
)

// MarketScheduler answers "is any tracked market open" for the refresh loop.
// Calendars are cached per MIC since several tickers usually share one.
type MarketScheduler struct {
	Logger *logger.Logger

	mu        sync.Mutex
	calendars map[string]*TradingCalendar
	now       func() time.Time
}

// -----------------------------------------------------------------------------

func NewMarketScheduler(l *logger.Logger) *MarketScheduler {
	return &MarketScheduler{
		Logger:    l,
		calendars: make(map[string]*TradingCalendar),
		now:       time.Now,
	}
}

// -----------------------------------------------------------------------------

func (ms *MarketScheduler) calendarFor(symbol string) *TradingCalendar {
	mic := MICForSymbol(symbol)

	ms.mu.Lock()
	defer ms.mu.Unlock()

	cal, ok := ms.calendars[mic]
	if !ok {
		cal = GetCalendar(mic)
		if cal.Fallback {
			ms.Logger.Warning("No calendar for MIC %s, using Mon-Fri 09:30-16:00 New York", mic)
		}
		ms.calendars[mic] = cal
	}
	return cal
}

// -----------------------------------------------------------------------------

// AnyMarketOpen reports whether at least one of the symbols' markets is open now.
// An empty symbol list counts as closed.
func (ms *MarketScheduler) AnyMarketOpen(symbols []string) bool {
	return ms.AnyMarketOpenAt(symbols, ms.now())
}

// -----------------------------------------------------------------------------

func (ms *MarketScheduler) AnyMarketOpenAt(symbols []string, t time.Time) bool {
	seen := make(map[*TradingCalendar]bool)
	for _, symbol := range symbols {
		cal := ms.calendarFor(symbol)
		if seen[cal] {
			continue
		}
		seen[cal] = true
		if cal.IsOpenOnMinute(t.UTC()) {
			return true
		}
	}
	return false
}
