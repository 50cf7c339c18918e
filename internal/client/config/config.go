package config

import "time"

// Config holds runtime settings for the blogsync CLI.
//
// Units: durations are time.Duration values; RequestTimeout is set from
// seconds on the command line.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DBPath         string
	LogFile        string
	LogLevel       string
	MetricsAddr    string

	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	RetryMaxDelay    time.Duration

	RecentCount int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080/api/v1"
	c.RequestTimeout = 10 * time.Second
	c.DBPath = "blogsync.db"
	c.LogFile = ""
	c.LogLevel = "info"
	c.MetricsAddr = ""
	c.RetryMaxAttempts = 3
	c.RetryBaseDelay = time.Second
	c.RetryMaxDelay = 30 * time.Second
	c.RecentCount = 4
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
