package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration with priority order:
// 1. Environment variables
// 2. Configuration file (httptop.yaml)
// 3. Default values
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("httptop")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/mirador/")
	v.AddConfigPath("$HOME/.config/mirador/")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("MIRADOR_HTTPTOP")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - continue with env vars and defaults
	}

	overrideWithEnvVars(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	v.SetDefault("api.url", "http://localhost:8080")
	v.SetDefault("api.timeout", 30000)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.node", "localhost:6379")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", 300)

	v.SetDefault("refresh.interval_seconds", 5)
	v.SetDefault("refresh.enabled", true)
}

// overrideWithEnvVars explicitly handles environment variable overrides.
// MIRADOR_URL is the documented base-URL override for the API host.
func overrideWithEnvVars(v *viper.Viper) {
	if apiURL := os.Getenv("MIRADOR_URL"); apiURL != "" {
		v.Set("api.url", strings.TrimRight(strings.TrimSpace(apiURL), "/"))
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		v.Set("log_level", logLevel)
	}

	if cacheNode := os.Getenv("VALKEY_CACHE_NODE"); cacheNode != "" {
		v.Set("cache.node", strings.TrimSpace(cacheNode))
		v.Set("cache.enabled", true)
	}
}

func validateConfig(config *Config) error {
	if config.API.URL == "" {
		return fmt.Errorf("api.url is required")
	}
	if u, err := url.Parse(config.API.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.url must be an absolute URL: %q", config.API.URL)
	}

	if config.API.Timeout < 1 {
		return fmt.Errorf("api.timeout must be at least 1 millisecond")
	}

	if config.Refresh.IntervalSeconds < 1 {
		return fmt.Errorf("refresh.interval_seconds must be at least 1 second")
	}

	if config.Cache.Enabled && config.Cache.Node == "" {
		return fmt.Errorf("cache.node is required when the cache is enabled")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, config.LogLevel) {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
