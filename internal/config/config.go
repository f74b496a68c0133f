package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Config is the whole startup configuration surface, loaded once from
// the environment. Invalid values here are the only fatal error class.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DataStreamPath string `env:"DATA_STREAM_PATH" envDefault:"data/stream.jsonl"`
	DedupDBPath    string `env:"DEDUP_DB_PATH" envDefault:"data/siliconpulse.db"`

	FreshnessHours  int  `env:"FRESHNESS_HOURS" envDefault:"24"`
	MaxEventsToScan int  `env:"MAX_EVENTS_TO_SCAN" envDefault:"2000"`
	DedupEnabled    bool `env:"DEDUP_ENABLED" envDefault:"true"`
	CheckpointsOn   bool `env:"CHECKPOINT_ENABLED" envDefault:"true"`

	EventCacheRefreshSeconds int `env:"EVENT_CACHE_REFRESH_SECONDS" envDefault:"3"`
	QueryCacheTTLSeconds     int `env:"QUERY_CACHE_TTL_SECONDS" envDefault:"60"`
	QueryCacheSize           int `env:"QUERY_CACHE_SIZE" envDefault:"100"`

	PullIntervalMinutes int `env:"PULL_INTERVAL_MINUTES" envDefault:"5"`
	RetentionDays       int `env:"RETENTION_DAYS" envDefault:"30"`

	DefaultK int `env:"DEFAULT_K" envDefault:"5"`
	MaxK     int `env:"MAX_K" envDefault:"50"`

	RadarHighThreshold     int `env:"RADAR_HIGH_THRESHOLD" envDefault:"5"`
	RadarModerateThreshold int `env:"RADAR_MODERATE_THRESHOLD" envDefault:"2"`

	CompanyDictPath string `env:"COMPANY_DICT_PATH"`
	SeedPath        string `env:"SEED_PATH"`

	FinnhubAPIKey      string `env:"FINNHUB_API_KEY"`
	AlphaVantageAPIKey string `env:"ALPHA_VANTAGE_API_KEY"`

	FrontendURL string `env:"FRONTEND_URL"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.MaxEventsToScan <= 0:
		return fmt.Errorf("MAX_EVENTS_TO_SCAN must be positive, got %d", c.MaxEventsToScan)
	case c.EventCacheRefreshSeconds <= 0:
		return fmt.Errorf("EVENT_CACHE_REFRESH_SECONDS must be positive, got %d", c.EventCacheRefreshSeconds)
	case c.QueryCacheTTLSeconds <= 0:
		return fmt.Errorf("QUERY_CACHE_TTL_SECONDS must be positive, got %d", c.QueryCacheTTLSeconds)
	case c.QueryCacheSize <= 0:
		return fmt.Errorf("QUERY_CACHE_SIZE must be positive, got %d", c.QueryCacheSize)
	case c.PullIntervalMinutes <= 0:
		return fmt.Errorf("PULL_INTERVAL_MINUTES must be positive, got %d", c.PullIntervalMinutes)
	case c.DefaultK <= 0 || c.MaxK < c.DefaultK:
		return fmt.Errorf("invalid k bounds: default %d, max %d", c.DefaultK, c.MaxK)
	case c.RadarModerateThreshold > c.RadarHighThreshold:
		return fmt.Errorf("radar thresholds inverted: moderate %d > high %d", c.RadarModerateThreshold, c.RadarHighThreshold)
	}
	return nil
}
