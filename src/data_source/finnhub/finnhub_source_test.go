package finnhub

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

func newTestSource(t *testing.T, handler http.HandlerFunc) *FinnhubSource {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &models.MConfig{
		Providers: models.MProviderConfig{FinnhubURL: srv.URL + "/api/v1/"},
		APIKeys:   models.MAPIKeys{Finnhub: "secret"},
	}
	nm := network.NewAsyncNetworkManager(models.MNetworkConfig{RequestTimeout: 5}, logger.NewNopLogger())
	return NewFinnhubSource(cfg, time.UTC, nm, logger.NewNopLogger())
}

func TestFetchQuote(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/quote", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		w.Write([]byte(`{"c":171.25,"d":1.2,"dp":0.7,"h":172,"l":169,"o":170,"pc":170.05,"t":1709563800}`))
	})

	quote, err := src.FetchQuote(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, 171.25, quote.Price)
	assert.True(t, quote.Timestamp.Equal(time.Unix(1709563800, 0)))
}

func TestFetchQuoteUnknownSymbol(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c":0,"d":null,"dp":null,"h":0,"l":0,"o":0,"pc":0,"t":0}`))
	})

	_, err := src.FetchQuote(context.Background(), "NOPE")
	assert.Error(t, err)
}

func TestFetchQuoteBadJSON(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := src.FetchQuote(context.Background(), "AAPL")
	assert.Error(t, err)
}
