package grpc_control

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"market-signals/src/config"
	"market-signals/src/helpers"
	"market-signals/src/interfaces"
	"market-signals/src/logger"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ControlService implements the MarketSignalsControlServer interface
type ControlService struct {
	UnimplementedMarketSignalsControlServer
	Config     *config.Config
	Store      interfaces.ITickerStore
	ConfigPath string
	Logger     *logger.Logger
}

// NewControlService creates a new instance of ControlService
func NewControlService(
	cfg *config.Config,
	store interfaces.ITickerStore,
	cfgPath string,
	log *logger.Logger,
) *ControlService {
	return &ControlService{
		Config:     cfg,
		Store:      store,
		ConfigPath: cfgPath,
		Logger:     log,
	}
}

// -----------------------------------------------------------------------------

func (s *ControlService) ListTickers(ctx context.Context, req *Empty) (*ListTickersResponse, error) {
	snapshot := s.Store.Snapshot()
	response := make([]*TickerStatus, 0, len(snapshot))

	for _, symbol := range s.Store.Symbols() {
		series, ok := snapshot[symbol]
		if !ok {
			continue
		}
		st := &TickerStatus{
			Symbol:    symbol,
			Bars:      int32(series.Len()),
			UpdatedAt: series.UpdatedAt.Unix(),
		}
		if last, ok := series.Last(); ok {
			st.LastPrice = last.Price
		}
		if n := series.Len(); n >= 2 {
			st.LastSignal = int32(series.Signal[n-2])
		}
		response = append(response, st)
	}

	return &ListTickersResponse{Tickers: response}, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) AddTicker(ctx context.Context, req *TickerRequest) (*TickerControlResponse, error) {
	if req.Symbol == "" {
		return nil, status.Error(codes.InvalidArgument, "symbol is required")
	}

	series, err := s.Store.AddTicker(ctx, req.Symbol)
	if err != nil {
		var dupErr *helpers.DuplicateTickerError
		if errors.As(err, &dupErr) {
			return nil, status.Errorf(codes.AlreadyExists, "%s already in server data", dupErr.Symbol)
		}
		s.Logger.Error("gRPC: Failed to add %s: %v", req.Symbol, err)
		return &TickerControlResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to add ticker: %v", err),
			Symbol:  req.Symbol,
		}, nil
	}

	// Keep the config in step so a restart tracks the same tickers
	if !slices.Contains(s.Config.Tickers, series.Symbol) {
		s.Config.Tickers = append(s.Config.Tickers, series.Symbol)
		s.saveConfig()
	}

	return &TickerControlResponse{
		Success: true,
		Message: fmt.Sprintf("Added %s to server data", series.Symbol),
		Symbol:  series.Symbol,
		Bars:    int32(series.Len()),
	}, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) DeleteTicker(ctx context.Context, req *TickerRequest) (*TickerControlResponse, error) {
	if req.Symbol == "" {
		return nil, status.Error(codes.InvalidArgument, "symbol is required")
	}

	if err := s.Store.DeleteTicker(req.Symbol); err != nil {
		var unknownErr *helpers.UnknownTickerError
		if errors.As(err, &unknownErr) {
			return nil, status.Errorf(codes.NotFound, "%s not in server data", unknownErr.Symbol)
		}
		return nil, status.Error(codes.Internal, err.Error())
	}

	symbol := helpers.NormalizeSymbol(req.Symbol)
	if idx := slices.Index(s.Config.Tickers, symbol); idx >= 0 {
		s.Config.Tickers = slices.Delete(s.Config.Tickers, idx, idx+1)
		s.saveConfig()
	}

	return &TickerControlResponse{
		Success: true,
		Message: fmt.Sprintf("Deleted %s from server data", symbol),
		Symbol:  symbol,
	}, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) Refresh(ctx context.Context, req *Empty) (*RefreshResponse, error) {
	result := s.Store.RefreshAll(ctx)
	s.Logger.Info("gRPC: Refresh updated %d tickers, %d failed", len(result.Updated), len(result.Failed))
	return &RefreshResponse{
		Updated: result.Updated,
		Failed:  result.FailureMessages(),
	}, nil
}

// -----------------------------------------------------------------------------

func (s *ControlService) saveConfig() {
	if s.ConfigPath == "" {
		return
	}
	if err := s.Config.Save(s.ConfigPath); err != nil {
		s.Logger.Error("gRPC: Failed to save config: %v", err)
	}
}
