// Package config loads bot configuration from an optional YAML file
// with environment variable overrides. The only required value is the
// Telegram bot token; startup fails fast without it.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingToken is returned when no Telegram bot token is configured.
var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN environment variable is required")

// Config is the complete bot configuration.
type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	API      APIConfig      `mapstructure:"api"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
}

// TelegramConfig holds the chat transport settings.
type TelegramConfig struct {
	Token       string        `mapstructure:"token"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

// APIConfig holds the CoinGecko client settings.
type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Retries       int           `mapstructure:"retries"`
	LocalCurrency string        `mapstructure:"local_currency"`
}

// CacheConfig holds the reply cache settings.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

// Load reads config.yaml from the working directory if present, applies
// KRIPTORADAR_* environment overrides and validates the result.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("telegram.poll_timeout", 5*time.Second)
	v.SetDefault("api.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.retries", 3)
	v.SetDefault("api.local_currency", "try")
	v.SetDefault("cache.ttl", 60*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("kriptoradar")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// token keeps its historical env name
	v.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Telegram.Token == "" {
		return nil, ErrMissingToken
	}

	return &cfg, nil
}
