package config

import "time"

type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`

	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Refresh RefreshConfig `mapstructure:"refresh" yaml:"refresh"`
}

// APIConfig points at the MIRADOR aggregation backend.
type APIConfig struct {
	URL      string `mapstructure:"url" yaml:"url"`
	Timeout  int    `mapstructure:"timeout" yaml:"timeout"` // milliseconds
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
}

// CacheConfig handles the optional Valkey view cache. When disabled or
// unreachable an in-memory fallback is used.
type CacheConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Node     string `mapstructure:"node" yaml:"node"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	TTL      int    `mapstructure:"ttl" yaml:"ttl"` // seconds
}

// RefreshConfig controls the background refresh cadence.
type RefreshConfig struct {
	IntervalSeconds int  `mapstructure:"interval_seconds" yaml:"interval_seconds"`
	Enabled         bool `mapstructure:"enabled" yaml:"enabled"`
}

func (r RefreshConfig) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}

func (c CacheConfig) CacheTTL() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

func (a APIConfig) RequestTimeout() time.Duration {
	return time.Duration(a.Timeout) * time.Millisecond
}
