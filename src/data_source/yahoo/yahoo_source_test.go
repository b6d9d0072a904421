package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"market-signals/src/logger"
	"market-signals/src/models"
	"market-signals/src/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{"chart":{"result":[{
  "meta":{"symbol":"MSFT","regularMarketPrice":405.5,"regularMarketTime":1709571600},
  "timestamp":[1709562900,1709562600,1709563200,1709563200,1709563500],
  "indicators":{"quote":[{"close":[401.0,400.5,null,402.25,402.75]}]}
}],"error":null}}`

func newTestSource(t *testing.T, body string) *YahooFinanceSource {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/MSFT", r.URL.Path)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	cfg := &models.MConfig{Providers: models.MProviderConfig{YahooURL: srv.URL + "/v8/finance/chart"}}
	nm := network.NewAsyncNetworkManager(models.MNetworkConfig{RequestTimeout: 5}, logger.NewNopLogger())
	return NewYahooFinanceSource(cfg, time.UTC, nm, logger.NewNopLogger())
}

func TestFetchHistoricalCleansAndSorts(t *testing.T) {
	src := newTestSource(t, chartBody)

	samples, err := src.FetchHistorical(context.Background(), "msft", 5)
	require.NoError(t, err)
	require.Len(t, samples, 4)

	assert.Equal(t, 400.5, samples[0].Price)
	assert.Equal(t, 401.0, samples[1].Price)
	assert.Equal(t, 402.25, samples[2].Price)
	assert.Equal(t, 402.75, samples[3].Price)
	for i := 1; i < len(samples); i++ {
		assert.True(t, samples[i].Timestamp.After(samples[i-1].Timestamp))
	}
}

func TestFetchQuoteFromMeta(t *testing.T) {
	src := newTestSource(t, chartBody)

	quote, err := src.FetchQuote(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, 405.5, quote.Price)
	assert.Equal(t, int64(1709571600), quote.Timestamp.Unix())
}

func TestFetchReportsAPIError(t *testing.T) {
	src := newTestSource(t, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)

	_, err := src.FetchHistorical(context.Background(), "MSFT", 5)
	assert.ErrorContains(t, err, "Not Found")

	_, err = src.FetchQuote(context.Background(), "MSFT")
	assert.Error(t, err)
}

func TestFetchHistoricalMisalignedArrays(t *testing.T) {
	src := newTestSource(t, `{"chart":{"result":[{"meta":{},"timestamp":[1,2],"indicators":{"quote":[{"close":[1.0]}]}}]}}`)

	_, err := src.FetchHistorical(context.Background(), "MSFT", 5)
	assert.ErrorContains(t, err, "alignment")
}
