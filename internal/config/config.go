package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/script-analytics/internal/cost"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Analyzer AnalyzerConfig `yaml:"analyzer" mapstructure:"analyzer"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Pricing  cost.Rates     `yaml:"pricing" mapstructure:"pricing"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`

	RetryMaxAttempts      int `yaml:"retry_max_attempts" mapstructure:"retry_max_attempts"`
	RetryInitialBackoffMs int `yaml:"retry_initial_backoff_ms" mapstructure:"retry_initial_backoff_ms"`
	RetryMaxBackoffMs     int `yaml:"retry_max_backoff_ms" mapstructure:"retry_max_backoff_ms"`
	BreakerThreshold      int `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerCooldownSecs   int `yaml:"breaker_cooldown_secs" mapstructure:"breaker_cooldown_secs"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// AnalyzerConfig configures the scoring engine.
type AnalyzerConfig struct {
	DefaultNiche          string  `yaml:"default_niche" mapstructure:"default_niche"`
	DefaultEngagementRate float64 `yaml:"default_engagement_rate" mapstructure:"default_engagement_rate"`
	// NicheBonusCap caps the hook niche bonus. 0 leaves it uncapped.
	NicheBonusCap int `yaml:"niche_bonus_cap" mapstructure:"niche_bonus_cap"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentScripts int `yaml:"max_concurrent_scripts" mapstructure:"max_concurrent_scripts"`
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SCRIPTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "scripts.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("store.retry_max_attempts", 3)
	v.SetDefault("store.retry_initial_backoff_ms", 100)
	v.SetDefault("store.retry_max_backoff_ms", 5000)
	v.SetDefault("store.breaker_threshold", 5)
	v.SetDefault("store.breaker_cooldown_secs", 15)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("analyzer.default_niche", "general")
	v.SetDefault("analyzer.default_engagement_rate", 3.5)
	v.SetDefault("analyzer.niche_bonus_cap", 0)
	v.SetDefault("batch.max_concurrent_scripts", 8)
	v.SetDefault("pricing.basic_script", 0.03)
	v.SetDefault("pricing.premium_script", 0.08)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Modes are
// "analyze", "store" and "serve"; each includes the checks of the ones
// before it.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "analyze", "store", "serve":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Analyzer.DefaultEngagementRate <= 0 {
		errs = append(errs, "analyzer.default_engagement_rate must be > 0")
	}
	if c.Analyzer.NicheBonusCap < 0 {
		errs = append(errs, "analyzer.niche_bonus_cap must be >= 0")
	}
	if c.Batch.MaxConcurrentScripts < 1 || c.Batch.MaxConcurrentScripts > 64 {
		errs = append(errs, "batch.max_concurrent_scripts must be between 1 and 64")
	}
	if c.Pricing.BasicScript < 0 || c.Pricing.PremiumScript < 0 {
		errs = append(errs, "pricing rates must be >= 0")
	}

	if mode == "store" || mode == "serve" {
		switch c.Store.Driver {
		case "sqlite", "postgres":
		default:
			errs = append(errs, "store.driver must be sqlite or postgres")
		}
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
		if c.Store.MinConns > c.Store.MaxConns {
			errs = append(errs, "store.min_conns must be <= store.max_conns")
		}
	}

	if mode == "serve" {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RateLimit < 0 {
			errs = append(errs, "server.rate_limit must be >= 0")
		}
		if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
			errs = append(errs, "server.rate_burst must be >= 1 when rate limiting")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
