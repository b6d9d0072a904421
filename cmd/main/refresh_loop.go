package main

import (
	"context"
	"time"

	"market-signals/src/interfaces"
	"market-signals/src/logger"
	"market-signals/src/models"
	"market-signals/src/utils"
)

// -----------------------------------------------------------------------------

// runRefreshLoop refreshes every tracked ticker once per interval until ctx ends.
// With market_hours_only set, cycles are skipped while every market is closed.
func runRefreshLoop(ctx context.Context, tickerStore interfaces.ITickerStore, config *models.MConfig, appLogger *logger.Logger) {
	var isOpen func([]string) bool
	if config.Refresh.MarketHoursOnly {
		isOpen = utils.NewMarketScheduler(appLogger).AnyMarketOpen
	}
	refreshEvery(ctx, tickerStore, config.RefreshEvery(), isOpen, appLogger)
}

// -----------------------------------------------------------------------------

func refreshEvery(
	ctx context.Context,
	tickerStore interfaces.ITickerStore,
	interval time.Duration,
	isOpen func([]string) bool,
	appLogger *logger.Logger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	appLogger.Info("Refresh loop started, every %s", interval)

	for {
		select {
		case <-ctx.Done():
			appLogger.Info("Refresh loop stopped")
			return
		case <-ticker.C:
			symbols := tickerStore.Symbols()
			if len(symbols) == 0 {
				continue
			}
			if isOpen != nil && !isOpen(symbols) {
				appLogger.Debug("All markets closed, skipping refresh")
				continue
			}

			start := time.Now()
			result := tickerStore.RefreshAll(ctx)
			appLogger.Info("Refreshed %d/%d tickers in %s", len(result.Updated), len(symbols), time.Since(start).Round(time.Millisecond))
			for symbol, err := range result.Failed {
				appLogger.Warning("Refresh of %s failed: %v", symbol, err)
			}
		}
	}
}
