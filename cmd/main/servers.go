package main

import (
	"context"
	"fmt"
	"net"

	"market-signals/src/config"
	pb "market-signals/src/grpc_control"
	"market-signals/src/logger"
	"market-signals/src/server"
	"market-signals/src/store"

	"google.golang.org/grpc"
)

// -----------------------------------------------------------------------------

// startServers orchestrates the startup of the HTTP and gRPC servers.
// Fatal serve errors are reported on the returned channel.
func startServers(
	ctx context.Context,
	conf *config.Config,
	configPath string,
	tickerStore *store.TickerStore,
	appLogger *logger.Logger,
) (*server.SignalServer, *grpc.Server, <-chan error) {
	errCh := make(chan error, 2)

	// 1. Trading HTTP server
	srv := server.NewSignalServer(conf.MConfig, tickerStore, conf.Location(), appLogger.Named("SignalServer"))
	go func() {
		if err := srv.Start(ctx); err != nil {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	// 2. gRPC Control Server
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", conf.GrpcHost, conf.GrpcPort))
	if err != nil {
		appLogger.Error("Failed to listen for gRPC, control plane disabled: %v", err)
		return srv, nil, errCh
	}
	grpcServer := grpc.NewServer()
	controlService := pb.NewControlService(conf, tickerStore, configPath, appLogger.Named("ControlService"))
	pb.RegisterMarketSignalsControlServer(grpcServer, controlService)

	go func() {
		appLogger.Info("Starting gRPC Control Server on %s", lis.Addr())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc: %w", err)
		}
	}()

	return srv, grpcServer, errCh
}
