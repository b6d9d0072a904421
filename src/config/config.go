package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"market-signals/src/analysis/core"
	"market-signals/src/models"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config from a YAML file, fills defaults, reads API keys
// from the environment (and an optional .env next to the process) and validates.
func NewConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.ApplyDefaults()

	if err := config.LoadAPIKeys(".env"); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// ApplyDefaults fills zero values with the values the server ships with
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "market-signals"
	}
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.GrpcPort == 0 {
		c.GrpcPort = 50051
	}
	if c.Timezone == "" {
		c.Timezone = "America/New_York"
	}
	if c.IntervalMinutes == 0 {
		c.IntervalMinutes = 5
	}
	if len(c.Tickers) == 0 {
		c.Tickers = []string{"AAPL"}
	}
	if c.Storage.DBType == "" {
		c.Storage.DBType = "none"
	}
	if c.Network.RequestTimeout == 0 {
		c.Network.RequestTimeout = 30
	}
	if c.Providers.Historical == "" {
		c.Providers.Historical = "alphavantage"
	}
	if c.Providers.Realtime == "" {
		c.Providers.Realtime = "finnhub"
	}
	if c.Providers.AlphaVantageURL == "" {
		c.Providers.AlphaVantageURL = "https://www.alphavantage.co/query"
	}
	if c.Providers.FinnhubURL == "" {
		c.Providers.FinnhubURL = "https://finnhub.io/api/v1"
	}
	if c.Providers.YahooURL == "" {
		c.Providers.YahooURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	}
	if c.Providers.YahooHistoryRange == "" {
		c.Providers.YahooHistoryRange = "1mo"
	}
	if c.Report.CSVPath == "" {
		c.Report.CSVPath = "data/report.csv"
	}
}

// -----------------------------------------------------------------------------

// LoadAPIKeys reads provider credentials. A missing env file is not an error.
func (c *Config) LoadAPIKeys(envFile string) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load env file '%s': %w", envFile, err)
			}
		}
	}

	var keys models.MAPIKeys
	if err := envconfig.Process("", &keys); err != nil {
		return fmt.Errorf("failed to read API keys from environment: %w", err)
	}
	c.APIKeys = keys
	return nil
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d", c.Port)
	}
	if c.GrpcPort < 0 || c.GrpcPort > 65535 {
		return fmt.Errorf("invalid grpc port number: %d", c.GrpcPort)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", c.Timezone, err)
	}

	if _, err := core.WindowSize(c.IntervalMinutes); err != nil {
		return err
	}

	switch c.Storage.DBType {
	case "none":
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("database path cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return fmt.Errorf("connection string cannot be empty for postgres")
		}
	default:
		return fmt.Errorf("unknown database type '%s'", c.Storage.DBType)
	}

	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}

	switch c.Providers.Historical {
	case "alphavantage", "yahoo":
	default:
		return fmt.Errorf("unknown historical provider '%s'", c.Providers.Historical)
	}
	switch c.Providers.Realtime {
	case "finnhub", "yahoo":
	default:
		return fmt.Errorf("unknown realtime provider '%s'", c.Providers.Realtime)
	}

	if c.Refresh.IntervalSeconds < 0 {
		return fmt.Errorf("refresh interval cannot be negative")
	}
	if c.Report.CSVPath == "" {
		return fmt.Errorf("report csv path cannot be empty")
	}

	for i, t := range c.Tickers {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("ticker %d cannot be empty", i)
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// Location returns the market timezone used to interpret query times
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
