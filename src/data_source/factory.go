package datasource

import (
	"fmt"
	"time"

	"market-signals/src/data_source/alphavantage"
	"market-signals/src/data_source/finnhub"
	"market-signals/src/data_source/yahoo"
	"market-signals/src/interfaces"
	"market-signals/src/logger"
	"market-signals/src/models"
)

// Providers bundles the two collaborators the ticker store needs.
type Providers struct {
	Historical interfaces.IHistoricalDataProvider
	Realtime   interfaces.IRealtimeQuoteProvider
}

// -----------------------------------------------------------------------------

// NewProviders selects the configured historical and realtime providers.
// Both share one network manager so proxy rotation and retries are global.
func NewProviders(cfg *models.MConfig, loc *time.Location, netMgr interfaces.INetworkManager, log *logger.Logger) (*Providers, error) {
	p := &Providers{}

	switch cfg.Providers.Historical {
	case "alphavantage":
		p.Historical = alphavantage.NewAlphaVantageSource(cfg, loc, netMgr, log.Named("AlphaVantageSource"))
	case "yahoo":
		p.Historical = yahoo.NewYahooFinanceSource(cfg, loc, netMgr, log.Named("YahooFinanceSource"))
	default:
		return nil, fmt.Errorf("unknown historical provider: %s", cfg.Providers.Historical)
	}

	switch cfg.Providers.Realtime {
	case "finnhub":
		p.Realtime = finnhub.NewFinnhubSource(cfg, loc, netMgr, log.Named("FinnhubSource"))
	case "yahoo":
		if y, ok := p.Historical.(*yahoo.YahooFinanceSource); ok {
			p.Realtime = y
		} else {
			p.Realtime = yahoo.NewYahooFinanceSource(cfg, loc, netMgr, log.Named("YahooFinanceSource"))
		}
	default:
		return nil, fmt.Errorf("unknown realtime provider: %s", cfg.Providers.Realtime)
	}

	log.Info("Providers: historical=%s realtime=%s", p.Historical.Name(), p.Realtime.Name())
	return p, nil
}
