package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"market-signals/src/interfaces"
	"market-signals/src/logger"
	"market-signals/src/models"
)

// YahooFinanceSource serves both roles from the v8 chart endpoint.
type YahooFinanceSource struct {
	BaseURL       string
	HistoryRange  string
	ExtendedHours bool
	Location      *time.Location
	Network       interfaces.INetworkManager
	Logger        *logger.Logger
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(cfg *models.MConfig, loc *time.Location, netMgr interfaces.INetworkManager, log *logger.Logger) *YahooFinanceSource {
	if loc == nil {
		loc = time.UTC
	}
	historyRange := cfg.Providers.YahooHistoryRange
	if historyRange == "" {
		historyRange = "1mo"
	}
	return &YahooFinanceSource{
		BaseURL:       strings.TrimRight(cfg.Providers.YahooURL, "/"),
		HistoryRange:  historyRange,
		ExtendedHours: cfg.Providers.ExtendedHours,
		Location:      loc,
		Network:       netMgr,
		Logger:        log,
	}
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return "yahoo"
}

// -----------------------------------------------------------------------------

// FetchHistorical fetches intraday closes over the configured range.
func (s *YahooFinanceSource) FetchHistorical(ctx context.Context, symbol string, intervalMinutes int) ([]models.MSample, error) {
	resp, err := s.fetchChart(ctx, symbol, fmt.Sprintf("%dm", intervalMinutes), s.HistoryRange)
	if err != nil {
		return nil, err
	}
	return s.parseChartResponse(symbol, resp)
}

// -----------------------------------------------------------------------------

// FetchQuote reads the regular market price from the chart metadata.
func (s *YahooFinanceSource) FetchQuote(ctx context.Context, symbol string) (models.MSample, error) {
	resp, err := s.fetchChart(ctx, symbol, "1m", "1d")
	if err != nil {
		return models.MSample{}, err
	}

	meta := resp.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 || meta.RegularMarketTime == 0 {
		return models.MSample{}, fmt.Errorf("no quote available for %s", symbol)
	}

	return models.MSample{
		Timestamp: time.Unix(meta.RegularMarketTime, 0).In(s.Location),
		Price:     meta.RegularMarketPrice,
	}, nil
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) fetchChart(ctx context.Context, symbol, interval, rangeStr string) (*YahooChartResponse, error) {
	params := map[string]string{
		"interval":       interval,
		"range":          rangeStr,
		"includePrePost": fmt.Sprintf("%t", s.ExtendedHours),
	}

	url := fmt.Sprintf("%s/%s", s.BaseURL, strings.ToUpper(symbol))

	respBytes, err := s.Network.Get(ctx, url, params)
	if err != nil {
		return nil, fmt.Errorf("network error for %s: %w", symbol, err)
	}

	var resp YahooChartResponse
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}

	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no result in response for %s", symbol)
	}

	return &resp, nil
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string  `json:"currency"`
				Symbol               string  `json:"symbol"`
				ExchangeName         string  `json:"exchangeName"`
				RegularMarketTime    int64   `json:"regularMarketTime"`
				ExchangeTimezoneName string  `json:"exchangeTimezoneName"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				DataGranularity      string  `json:"dataGranularity"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"` // Use pointers to handle null
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) parseChartResponse(symbol string, resp *YahooChartResponse) ([]models.MSample, error) {
	result := resp.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		s.Logger.Warning("No timestamps in response for %s", symbol)
		return nil, nil
	}

	indicators := result.Indicators.Quote
	if len(indicators) == 0 {
		return nil, fmt.Errorf("no quote data in response for %s", symbol)
	}

	closes := indicators[0].Close

	// 1. Validation: Alignment check
	if len(result.Timestamp) != len(closes) {
		s.Logger.Info("Data alignment error for %s: Mismatched array lengths", symbol)
		return nil, fmt.Errorf("data alignment error for %s", symbol)
	}

	// 2. Data cleaning: null or non-positive closes are dropped
	samples := make([]models.MSample, 0, len(closes))
	for i, ts := range result.Timestamp {
		if closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		samples = append(samples, models.MSample{
			Timestamp: time.Unix(ts, 0).In(s.Location),
			Price:     *closes[i],
		})
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})

	// Yahoo occasionally repeats the last bar; keep timestamps strictly increasing.
	deduped := samples[:0]
	for _, sample := range samples {
		if n := len(deduped); n > 0 && !sample.Timestamp.After(deduped[n-1].Timestamp) {
			deduped[n-1] = sample
			continue
		}
		deduped = append(deduped, sample)
	}

	if len(deduped) > 0 {
		s.Logger.Info("Fetched %s: %d valid points [%d -> %d]", symbol, len(deduped),
			deduped[0].Timestamp.Unix(), deduped[len(deduped)-1].Timestamp.Unix())
	}

	return deduped, nil
}
