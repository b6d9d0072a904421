package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"market-signals/src/config"
	"market-signals/src/logger"
	"market-signals/src/store"
)

func main() {
	// 1. Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	tickers := flag.String("tickers", "", "comma separated tickers to track, overrides the config")
	minutes := flag.Int("minutes", 0, "bar interval in minutes (5, 15, 30 or 60), overrides the config")
	port := flag.Int("port", 0, "HTTP port, overrides the config")
	flag.Parse()

	// 2. Load config
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := applyFlags(conf, *tickers, *minutes, *port); err != nil {
		fmt.Printf("Invalid arguments: %v\n", err)
		os.Exit(1)
	}

	// 3. Setup Logger
	appLogger := logger.NewLogger(logger.Options{Level: conf.LogLevel, File: conf.LogFile}, conf.Name)
	defer appLogger.Close()
	appLogger.Info("Starting %s: tickers=%v interval=%dmin port=%d", conf.Name, conf.Tickers, conf.IntervalMinutes, conf.Port)

	// 4. Setup Components
	db, err := setupDatabase(conf.MConfig, appLogger)
	if err != nil {
		appLogger.Critical("Failed to init db: %v", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	networkManager := setupNetwork(conf.MConfig, appLogger)
	providers, err := setupDataSources(conf, appLogger, networkManager)
	if err != nil {
		appLogger.Critical("Failed to init data sources: %v", err)
		os.Exit(1)
	}

	analyzer, err := setupAnalysis(conf.MConfig, appLogger)
	if err != nil {
		appLogger.Critical("Failed to init analysis: %v", err)
		os.Exit(1)
	}

	tickerStore := store.NewTickerStore(providers.Historical, providers.Realtime, analyzer, db, appLogger.Named("TickerStore"))

	// Lifecycle Management
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Bootstrap (startup tasks)
	symbols := expandTickers(conf.Tickers, db, appLogger)
	performInitialLoad(ctx, tickerStore, symbols, conf, appLogger)

	// 6. Start Servers
	srv, grpcServer, errCh := startServers(ctx, conf, *configPath, tickerStore, appLogger)
	tickerStore.OnRefresh(srv.BroadcastRefresh)

	// 7. Run Refresh Loop
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runRefreshLoop(ctx, tickerStore, conf.MConfig, appLogger.Named("RefreshLoop"))
	}()

	select {
	case <-ctx.Done():
		appLogger.Info("Shutting down...")
	case err := <-errCh:
		appLogger.Error("Server failed: %v", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed: %v", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	appLogger.Info("Waiting for refresh loop to stop...")
	wg.Wait()
	appLogger.Info("Shutdown complete.")
}
