package grpc_control

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"market-signals/src/config"
	"market-signals/src/helpers"
	"market-signals/src/logger"
	"market-signals/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"gopkg.in/yaml.v3"
)

type memoryStore struct {
	series  map[string]*models.MTickerSeries
	known   map[string]bool
	refresh models.MRefreshResult
}

func (m *memoryStore) AddTicker(ctx context.Context, symbol string) (*models.MTickerSeries, error) {
	symbol = helpers.NormalizeSymbol(symbol)
	if _, ok := m.series[symbol]; ok {
		return nil, helpers.NewDuplicateTickerError(symbol)
	}
	if !m.known[symbol] {
		return nil, helpers.NewEmptySeriesError(symbol, nil)
	}
	s := &models.MTickerSeries{
		Symbol:    symbol,
		Samples:   []models.MSample{{Timestamp: time.Unix(1709563800, 0), Price: 10}, {Timestamp: time.Unix(1709564100, 0), Price: 11}},
		Signal:    []int{-1, 0},
		UpdatedAt: time.Unix(1709564100, 0),
	}
	m.series[symbol] = s
	return s, nil
}

func (m *memoryStore) DeleteTicker(symbol string) error {
	symbol = helpers.NormalizeSymbol(symbol)
	if _, ok := m.series[symbol]; !ok {
		return helpers.NewUnknownTickerError(symbol)
	}
	delete(m.series, symbol)
	return nil
}

func (m *memoryStore) RefreshAll(ctx context.Context) models.MRefreshResult { return m.refresh }

func (m *memoryStore) Symbols() []string {
	var out []string
	for s := range m.series {
		out = append(out, s)
	}
	return out
}

func (m *memoryStore) Snapshot() map[string]*models.MTickerSeries { return m.series }

func (m *memoryStore) QueryAt(t time.Time) map[string]models.MPointInTime { return nil }

func (m *memoryStore) LatestRows(symbols ...string) map[string]models.MSeriesRow { return nil }

func (m *memoryStore) History(symbol string) ([]models.MSeriesRow, error) { return nil, nil }

func startControl(t *testing.T, store *memoryStore) (MarketSignalsControlClient, *config.Config, string) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &config.Config{MConfig: &models.MConfig{Name: "market-signals", Tickers: []string{"MSFT"}}}

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterMarketSignalsControlServer(srv, NewControlService(cfg, store, cfgPath, logger.NewNopLogger()))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewMarketSignalsControlClient(conn), cfg, cfgPath
}

func newMemoryStore() *memoryStore {
	return &memoryStore{series: map[string]*models.MTickerSeries{}, known: map[string]bool{"AAPL": true, "MSFT": true}}
}

func TestAddAndListTickers(t *testing.T) {
	client, cfg, cfgPath := startControl(t, newMemoryStore())
	ctx := context.Background()

	resp, err := client.AddTicker(ctx, &TickerRequest{Symbol: "aapl"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "AAPL", resp.Symbol)
	assert.Equal(t, int32(2), resp.Bars)
	assert.Equal(t, []string{"MSFT", "AAPL"}, cfg.Tickers)

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	var saved models.MConfig
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, []string{"MSFT", "AAPL"}, saved.Tickers)

	list, err := client.ListTickers(ctx, &Empty{})
	require.NoError(t, err)
	require.Len(t, list.Tickers, 1)
	assert.Equal(t, "AAPL", list.Tickers[0].Symbol)
	assert.Equal(t, 11.0, list.Tickers[0].LastPrice)
	assert.Equal(t, int32(-1), list.Tickers[0].LastSignal)
}

func TestAddTickerErrors(t *testing.T) {
	client, _, _ := startControl(t, newMemoryStore())
	ctx := context.Background()

	_, err := client.AddTicker(ctx, &TickerRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.AddTicker(ctx, &TickerRequest{Symbol: "AAPL"})
	require.NoError(t, err)
	_, err = client.AddTicker(ctx, &TickerRequest{Symbol: "AAPL"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	resp, err := client.AddTicker(ctx, &TickerRequest{Symbol: "NOPE"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.True(t, strings.HasPrefix(resp.Message, "Failed to add ticker"))
}

func TestDeleteTicker(t *testing.T) {
	store := newMemoryStore()
	client, cfg, _ := startControl(t, store)
	ctx := context.Background()

	_, err := client.AddTicker(ctx, &TickerRequest{Symbol: "MSFT"})
	require.NoError(t, err)

	resp, err := client.DeleteTicker(ctx, &TickerRequest{Symbol: "msft"})
	require.NoError(t, err)
	assert.Equal(t, "Deleted MSFT from server data", resp.Message)
	assert.Empty(t, cfg.Tickers)

	_, err = client.DeleteTicker(ctx, &TickerRequest{Symbol: "MSFT"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRefresh(t *testing.T) {
	store := newMemoryStore()
	store.refresh = models.MRefreshResult{
		Updated: []string{"AAPL"},
		Failed:  map[string]error{"MSFT": helpers.NewRealtimeFetchError("MSFT", context.DeadlineExceeded)},
	}
	client, _, _ := startControl(t, store)

	resp, err := client.Refresh(context.Background(), &Empty{})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, resp.Updated)
	assert.Contains(t, resp.Failed["MSFT"], "realtime quote fetch failed")
}
