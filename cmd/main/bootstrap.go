package main

import (
	"context"

	"market-signals/src/config"
	"market-signals/src/interfaces"
	"market-signals/src/logger"
	"market-signals/src/report"
	"market-signals/src/store"
)

// -----------------------------------------------------------------------------

// expandTickers resolves schema.table.field entries when the database can list symbols
func expandTickers(raw []string, db interfaces.IDatabase, appLogger *logger.Logger) []string {
	directory, ok := db.(interfaces.ITickerDirectory)
	if !ok {
		return raw
	}
	symbols, err := directory.ExpandTickers(raw)
	if err != nil {
		appLogger.Warning("Ticker expansion failed, using config as is: %v", err)
		return raw
	}
	return symbols
}

// -----------------------------------------------------------------------------

// performInitialLoad adds the startup tickers and writes the first report
func performInitialLoad(
	ctx context.Context,
	tickerStore *store.TickerStore,
	symbols []string,
	conf *config.Config,
	appLogger *logger.Logger,
) {
	appLogger.Info("Fetching initial data for %d tickers...", len(symbols))

	for _, symbol := range symbols {
		if ctx.Err() != nil {
			return
		}
		series, err := tickerStore.AddTicker(ctx, symbol)
		if err != nil {
			// A bad ticker at startup is skipped, the server still comes up
			appLogger.Warning("Startup add of %s failed: %v", symbol, err)
			continue
		}
		appLogger.Info("Loaded %s with %d bars", series.Symbol, series.Len())
	}

	rows, err := report.Export(tickerStore.Snapshot(), conf.Location(), conf.Report.CSVPath, conf.Report.XLSXPath)
	if err != nil {
		appLogger.Error("Initial report failed: %v", err)
		return
	}
	appLogger.Info("Initialization complete. Report written with %d rows to %s", len(rows), conf.Report.CSVPath)
}
