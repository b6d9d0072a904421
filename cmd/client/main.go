package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"market-signals/src/client"
	"market-signals/src/logger"
)

func main() {
	serverAddress := flag.String("server_address", client.DefaultServerAddress, "trading server ip:port")
	logLevel := flag.String("log_level", "INFO", "log level")
	flag.Parse()

	appLogger := logger.NewLogger(logger.Options{Level: *logLevel}, "TradingClient")

	address := *serverAddress
	if !client.IsValidServerAddress(address) {
		appLogger.Warning("Invalid server address %q, using %s", address, client.DefaultServerAddress)
		address = client.DefaultServerAddress
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.NewTradingClient(address, os.Stdout, appLogger)
	if err := c.Connect(ctx); err != nil {
		appLogger.Error("Cannot reach trading server: %v", err)
	}

	if err := c.Run(ctx, os.Stdin); err != nil {
		appLogger.Error("Client stopped: %v", err)
		os.Exit(1)
	}
}
