package config

import (
	"log/slog"
	"net"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type RetryConfig struct {
	MaxAttempts       int     `mapstructure:"max_attempts"`
	BaseDelay         string  `mapstructure:"base_delay"`
	MaxDelay          string  `mapstructure:"max_delay"`
	Multiplier        float64 `mapstructure:"multiplier"`
	RetryableStatuses []int   `mapstructure:"retryable_statuses"`
}

type BreakerConfig struct {
	FailureThreshold int    `mapstructure:"failure_threshold"`
	Cooldown         string `mapstructure:"cooldown"`
}

type CacheConfig struct {
	MaxAge string `mapstructure:"max_age"`
}

type HealthConfig struct {
	DegradedAfter int `mapstructure:"degraded_after"`
	DownAfter     int `mapstructure:"down_after"`
}

type BinanceConfig struct {
	QuoteAsset string `mapstructure:"quote_asset"`
}

type CoinGeckoConfig struct {
	Currency string `mapstructure:"currency"`
}

type SourcesConfig struct {
	Priority  []string        `mapstructure:"priority"`
	Timeout   string          `mapstructure:"timeout"`
	Binance   BinanceConfig   `mapstructure:"binance"`
	CoinGecko CoinGeckoConfig `mapstructure:"coingecko"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type PollerConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Interval string   `mapstructure:"interval"`
	Keys     []string `mapstructure:"keys"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Breaker  BreakerConfig  `mapstructure:"breaker"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Health   HealthConfig   `mapstructure:"health"`
	Sources  SourcesConfig  `mapstructure:"sources"`
	Database DatabaseConfig `mapstructure:"database"`
	Poller   PollerConfig   `mapstructure:"poller"`
}

func Load() (*Config, error) {
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.environment", EnvDev)
	viper.SetDefault("logging.level", LogLevelInfo)
	viper.SetDefault("retry.max_attempts", 3)
	viper.SetDefault("retry.base_delay", "500ms")
	viper.SetDefault("retry.max_delay", "5s")
	viper.SetDefault("retry.multiplier", 2.0)
	viper.SetDefault("retry.retryable_statuses", []int{429, 500, 502, 503, 504})
	viper.SetDefault("breaker.failure_threshold", 5)
	viper.SetDefault("breaker.cooldown", "60s")
	viper.SetDefault("cache.max_age", "5m")
	viper.SetDefault("health.degraded_after", 2)
	viper.SetDefault("health.down_after", 5)
	viper.SetDefault("sources.priority", []string{"binance", "coingecko"})
	viper.SetDefault("sources.timeout", "10s")
	viper.SetDefault("sources.binance.quote_asset", "USDT")
	viper.SetDefault("sources.coingecko.currency", "usd")
	viper.SetDefault("poller.enabled", false)
	viper.SetDefault("poller.interval", "30s")
	viper.SetDefault("poller.keys", []string{"spot:BTC", "spot:ETH"})

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Info("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(validateHostPort),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Retry,
			validation.Required,
			validation.By(func(value interface{}) error {
				rc, ok := value.(RetryConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a RetryConfig")
				}
				return validation.ValidateStruct(&rc,
					validation.Field(&rc.MaxAttempts, validation.Required, validation.Min(1)),
					validation.Field(&rc.BaseDelay, validation.Required, validation.By(validateDuration)),
					validation.Field(&rc.MaxDelay, validation.Required, validation.By(validateDuration)),
					validation.Field(&rc.Multiplier, validation.Required, validation.Min(1.0)),
				)
			}),
		),
		validation.Field(&c.Breaker,
			validation.Required,
			validation.By(func(value interface{}) error {
				bc, ok := value.(BreakerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a BreakerConfig")
				}
				return validation.ValidateStruct(&bc,
					validation.Field(&bc.FailureThreshold, validation.Required, validation.Min(1)),
					validation.Field(&bc.Cooldown, validation.Required, validation.By(validateDuration)),
				)
			}),
		),
		validation.Field(&c.Cache,
			validation.Required,
			validation.By(func(value interface{}) error {
				cc, ok := value.(CacheConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a CacheConfig")
				}
				return validation.ValidateStruct(&cc,
					validation.Field(&cc.MaxAge, validation.Required, validation.By(validateDuration)),
				)
			}),
		),
		validation.Field(&c.Health,
			validation.Required,
			validation.By(validateHealthConfig),
		),
		validation.Field(&c.Sources,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(SourcesConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a SourcesConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Priority, validation.Required, validation.Length(1, 0)),
					validation.Field(&sc.Timeout, validation.Required, validation.By(validateDuration)),
				)
			}),
		),
		validation.Field(&c.Poller,
			validation.By(func(value interface{}) error {
				pc, ok := value.(PollerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a PollerConfig")
				}
				if !pc.Enabled {
					return nil
				}
				return validation.ValidateStruct(&pc,
					validation.Field(&pc.Interval, validation.Required, validation.By(validateDuration)),
					validation.Field(&pc.Keys, validation.Required, validation.Length(1, 0)),
				)
			}),
		),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := time.ParseDuration(durationStr); err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	return nil
}

func validateHealthConfig(value interface{}) error {
	hc, ok := value.(HealthConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a HealthConfig")
	}

	if hc.DegradedAfter < 1 || hc.DownAfter < 1 {
		return validation.NewError("validation_invalid_threshold", "health thresholds must be at least 1")
	}

	// Higher failure streaks must never map to a better status.
	if hc.DownAfter < hc.DegradedAfter {
		return validation.NewError("validation_nonmonotonic_thresholds", "down_after must be >= degraded_after")
	}

	return nil
}

// Duration parses a duration field that has already passed validation.
// Invalid input yields the zero duration.
func Duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
