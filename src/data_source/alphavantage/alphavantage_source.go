package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"market-signals/src/analysis/core"
	"market-signals/src/interfaces"
	"market-signals/src/logger"
	"market-signals/src/models"
)

const timestampLayout = "2006-01-02 15:04:05"

// Response bodies Alpha Vantage returns with a 200 status instead of data.
var rejectionMarkers = []string{
	"Invalid API call",
	"standard API rate limit",
	"Thank you for using Alpha Vantage",
}

type AlphaVantageSource struct {
	BaseURL       string
	APIKey        string
	ExtendedHours bool
	Location      *time.Location
	Network       interfaces.INetworkManager
	Logger        *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAlphaVantageSource(cfg *models.MConfig, loc *time.Location, netMgr interfaces.INetworkManager, log *logger.Logger) *AlphaVantageSource {
	if loc == nil {
		loc = time.UTC
	}
	return &AlphaVantageSource{
		BaseURL:       cfg.Providers.AlphaVantageURL,
		APIKey:        cfg.APIKeys.AlphaVantage,
		ExtendedHours: cfg.Providers.ExtendedHours,
		Location:      loc,
		Network:       netMgr,
		Logger:        log,
	}
}

// -----------------------------------------------------------------------------

func (s *AlphaVantageSource) Name() string {
	return "alphavantage"
}

// -----------------------------------------------------------------------------

// FetchHistorical pulls the full TIME_SERIES_INTRADAY history at the given interval.
func (s *AlphaVantageSource) FetchHistorical(ctx context.Context, symbol string, intervalMinutes int) ([]models.MSample, error) {
	s.Logger.Info("Getting historical data from Alpha Vantage for %s", symbol)

	interval := fmt.Sprintf("%dmin", intervalMinutes)
	params := map[string]string{
		"function":       "TIME_SERIES_INTRADAY",
		"symbol":         symbol,
		"interval":       interval,
		"outputsize":     "full",
		"extended_hours": strconv.FormatBool(s.ExtendedHours),
		"apikey":         s.APIKey,
	}

	body, err := s.Network.Get(ctx, s.BaseURL, params)
	if err != nil {
		return nil, fmt.Errorf("network error for %s: %w", symbol, err)
	}

	return s.parseIntradayResponse(symbol, interval, body)
}

// -----------------------------------------------------------------------------

type intradayBar struct {
	Close string `json:"4. close"`
}

// -----------------------------------------------------------------------------

func (s *AlphaVantageSource) parseIntradayResponse(symbol, interval string, data []byte) ([]models.MSample, error) {
	text := string(data)
	for _, marker := range rejectionMarkers {
		if strings.Contains(text, marker) {
			s.Logger.Error("Alpha Vantage rejected request for %s: %s", symbol, text)
			return nil, nil
		}
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	raw, ok := resp[fmt.Sprintf("Time Series (%s)", interval)]
	if !ok {
		s.Logger.Warning("No intraday series in response for %s", symbol)
		return nil, nil
	}

	var bars map[string]intradayBar
	if err := json.Unmarshal(raw, &bars); err != nil {
		return nil, fmt.Errorf("bad time series for %s: %w", symbol, err)
	}

	samples := make([]models.MSample, 0, len(bars))
	for stamp, bar := range bars {
		ts, err := time.ParseInLocation(timestampLayout, stamp, s.Location)
		if err != nil {
			s.Logger.Info("Skipping bar with bad timestamp %q for %s", stamp, symbol)
			continue
		}
		price, err := strconv.ParseFloat(bar.Close, 64)
		if err != nil || price <= 0 {
			s.Logger.Info("Skipping invalid close %q for %s at %s", bar.Close, symbol, stamp)
			continue
		}
		samples = append(samples, models.MSample{Timestamp: ts, Price: core.Round2(price)})
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})

	if len(samples) > 0 {
		s.Logger.Info("Fetched %s: %d bars [%s -> %s]", symbol, len(samples),
			samples[0].Timestamp.Format(timestampLayout), samples[len(samples)-1].Timestamp.Format(timestampLayout))
	}
	return samples, nil
}
