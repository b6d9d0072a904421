package main

import (
	"fmt"
	"slices"
	"strings"

	"market-signals/src/analysis"
	"market-signals/src/config"
	datasource "market-signals/src/data_source"
	"market-signals/src/helpers"
	"market-signals/src/interfaces"
	"market-signals/src/logger"
	"market-signals/src/models"
	"market-signals/src/network"
	"market-signals/src/storage"
)

// -----------------------------------------------------------------------------

// applyFlags lets the command line override the YAML config, then re-validates.
func applyFlags(conf *config.Config, tickers string, minutes, port int) error {
	if tickers != "" {
		var list []string
		for _, t := range strings.Split(tickers, ",") {
			if t = helpers.NormalizeSymbol(t); t != "" && !slices.Contains(list, t) {
				list = append(list, t)
			}
		}
		conf.Tickers = list
	}
	if minutes != 0 {
		conf.IntervalMinutes = minutes
	}
	if port != 0 {
		conf.Port = port
	}
	return conf.Validate()
}

// -----------------------------------------------------------------------------

// setupDatabase initializes the configured backend; nil means persistence is off
func setupDatabase(config *models.MConfig, appLogger *logger.Logger) (interfaces.IDatabase, error) {
	name := "SQLiteDB"
	if config.Storage.DBType == "postgres" {
		name = "PostgresDB"
	}
	return storage.NewDatabase(config, appLogger.Named(name))
}

// -----------------------------------------------------------------------------

// setupNetwork initializes the network manager shared by all providers
func setupNetwork(config *models.MConfig, appLogger *logger.Logger) interfaces.INetworkManager {
	return network.NewAsyncNetworkManager(config.Network, appLogger.Named("NetworkManager"))
}

// -----------------------------------------------------------------------------

// setupDataSources selects the historical and realtime providers
func setupDataSources(conf *config.Config, appLogger *logger.Logger, networkManager interfaces.INetworkManager) (*datasource.Providers, error) {
	if conf.Providers.Historical == "alphavantage" && conf.APIKeys.AlphaVantage == "" {
		return nil, fmt.Errorf("ALPHA_VANTAGE_API_KEY is not set")
	}
	if conf.Providers.Realtime == "finnhub" && conf.APIKeys.Finnhub == "" {
		return nil, fmt.Errorf("FINNHUB_API_KEY is not set")
	}
	return datasource.NewProviders(conf.MConfig, conf.Location(), networkManager, appLogger.Named("DataSource"))
}

// -----------------------------------------------------------------------------

// setupAnalysis initializes the analysis facade
func setupAnalysis(config *models.MConfig, appLogger *logger.Logger) (*analysis.AnalysisFacade, error) {
	return analysis.NewAnalysisFacade(config.IntervalMinutes, appLogger.Named("Analysis"))
}
