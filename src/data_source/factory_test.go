package datasource

import (
	"testing"
	"time"

	"market-signals/src/logger"
	"market-signals/src/models"
	"market-signals/src/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviders(t *testing.T) {
	nm := network.NewAsyncNetworkManager(models.MNetworkConfig{RequestTimeout: 5}, logger.NewNopLogger())

	cases := []struct {
		historical, realtime      string
		wantHistory, wantRealtime string
	}{
		{"alphavantage", "finnhub", "alphavantage", "finnhub"},
		{"yahoo", "yahoo", "yahoo", "yahoo"},
		{"alphavantage", "yahoo", "alphavantage", "yahoo"},
	}

	for _, tc := range cases {
		cfg := &models.MConfig{Providers: models.MProviderConfig{Historical: tc.historical, Realtime: tc.realtime}}
		p, err := NewProviders(cfg, time.UTC, nm, logger.NewNopLogger())
		require.NoError(t, err)
		assert.Equal(t, tc.wantHistory, p.Historical.Name())
		assert.Equal(t, tc.wantRealtime, p.Realtime.Name())
	}
}

func TestNewProvidersUnknown(t *testing.T) {
	nm := network.NewAsyncNetworkManager(models.MNetworkConfig{}, logger.NewNopLogger())

	_, err := NewProviders(&models.MConfig{Providers: models.MProviderConfig{Historical: "bloomberg", Realtime: "finnhub"}}, time.UTC, nm, logger.NewNopLogger())
	assert.Error(t, err)

	_, err = NewProviders(&models.MConfig{Providers: models.MProviderConfig{Historical: "yahoo", Realtime: "iex"}}, time.UTC, nm, logger.NewNopLogger())
	assert.Error(t, err)
}
