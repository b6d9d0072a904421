package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"market-signals/src/interfaces"
	"market-signals/src/logger"
	"market-signals/src/models"
)

type FinnhubSource struct {
	BaseURL  string
	APIKey   string
	Location *time.Location
	Network  interfaces.INetworkManager
	Logger   *logger.Logger
}

// quoteResponse mirrors GET /quote. c is the current price, t the unix time of the last trade.
type quoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// -----------------------------------------------------------------------------

func NewFinnhubSource(cfg *models.MConfig, loc *time.Location, netMgr interfaces.INetworkManager, log *logger.Logger) *FinnhubSource {
	if loc == nil {
		loc = time.UTC
	}
	return &FinnhubSource{
		BaseURL:  strings.TrimRight(cfg.Providers.FinnhubURL, "/"),
		APIKey:   cfg.APIKeys.Finnhub,
		Location: loc,
		Network:  netMgr,
		Logger:   log,
	}
}

// -----------------------------------------------------------------------------

func (s *FinnhubSource) Name() string {
	return "finnhub"
}

// -----------------------------------------------------------------------------

func (s *FinnhubSource) FetchQuote(ctx context.Context, symbol string) (models.MSample, error) {
	params := map[string]string{
		"symbol": strings.ToUpper(symbol),
		"token":  s.APIKey,
	}

	body, err := s.Network.Get(ctx, s.BaseURL+"/quote", params)
	if err != nil {
		return models.MSample{}, fmt.Errorf("network error for %s: %w", symbol, err)
	}

	var quote quoteResponse
	if err := json.Unmarshal(body, &quote); err != nil {
		return models.MSample{}, fmt.Errorf("json unmarshal failed: %w", err)
	}

	// Unknown symbols come back as an all-zero quote.
	if quote.Current == 0 && quote.Timestamp == 0 {
		return models.MSample{}, fmt.Errorf("no quote available for %s", symbol)
	}

	return models.MSample{
		Timestamp: time.Unix(quote.Timestamp, 0).In(s.Location),
		Price:     quote.Current,
	}, nil
}
