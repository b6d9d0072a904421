package models

import "time"

// MConfig Structure
type MConfig struct {
	Name            string          `yaml:"name"`
	Host            string          `yaml:"host"`
	Port            int             `yaml:"port"`
	LogLevel        string          `yaml:"log_level"`
	LogFile         string          `yaml:"log_file"`
	GrpcHost        string          `yaml:"grpc_host"`
	GrpcPort        int             `yaml:"grpc_port"`
	Timezone        string          `yaml:"timezone"`
	IntervalMinutes int             `yaml:"interval_minutes"`
	Tickers         []string        `yaml:"tickers"`
	Storage         MStorageConfig  `yaml:"storage"`
	Network         MNetworkConfig  `yaml:"network"`
	Providers       MProviderConfig `yaml:"providers"`
	Refresh         MRefreshConfig  `yaml:"refresh"`
	Report          MReportConfig   `yaml:"report"`

	// Loaded from the environment, never written back to YAML.
	APIKeys MAPIKeys `yaml:"-"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"` // none, sqlite, postgres
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MNetworkConfig struct {
	Proxies        []string `yaml:"proxies"`
	RequestTimeout int      `yaml:"timeout"`
	MaxRetries     int      `yaml:"retries"`
	UserAgent      string   `yaml:"user_agent"`
}

type MProviderConfig struct {
	Historical        string `yaml:"historical"` // alphavantage, yahoo
	Realtime          string `yaml:"realtime"`   // finnhub, yahoo
	AlphaVantageURL   string `yaml:"alpha_vantage_url"`
	FinnhubURL        string `yaml:"finnhub_url"`
	YahooURL          string `yaml:"yahoo_url"`
	YahooHistoryRange string `yaml:"yahoo_history_range"`
	ExtendedHours     bool   `yaml:"extended_hours"`
}

type MRefreshConfig struct {
	IntervalSeconds int  `yaml:"interval_seconds"` // 0 means one bar interval
	MarketHoursOnly bool `yaml:"market_hours_only"`
	RefreshOnQuery  bool `yaml:"refresh_on_query"`
}

type MReportConfig struct {
	CSVPath  string `yaml:"csv_path"`
	XLSXPath string `yaml:"xlsx_path"`
}

// MAPIKeys holds provider credentials read from the environment.
type MAPIKeys struct {
	AlphaVantage string `envconfig:"ALPHA_VANTAGE_API_KEY"`
	Finnhub      string `envconfig:"FINNHUB_API_KEY"`
}

// RefreshEvery is the refresh loop period. Without an explicit interval_seconds
// it follows the bar interval, so it tracks a -minutes override too.
func (c *MConfig) RefreshEvery() time.Duration {
	if c.Refresh.IntervalSeconds > 0 {
		return time.Duration(c.Refresh.IntervalSeconds) * time.Second
	}
	return time.Duration(c.IntervalMinutes) * time.Minute
}
