package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// RegistryConfig holds the aggregation toggles consulted at call sites.
type RegistryConfig struct {
	AutoDiscovery        bool    `yaml:"auto_discovery" mapstructure:"auto_discovery"`
	FallbackToMock       bool    `yaml:"fallback_to_mock" mapstructure:"fallback_to_mock"`
	CacheTimeoutSecs     int     `yaml:"cache_timeout_secs" mapstructure:"cache_timeout_secs"`
	MaxRetries           int     `yaml:"max_retries" mapstructure:"max_retries"`
	FetchTimeoutSecs     int     `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
	CrossSourceAnalysis  bool    `yaml:"cross_source_analysis" mapstructure:"cross_source_analysis"`
	NarrationEnabled     bool    `yaml:"narration_enabled" mapstructure:"narration_enabled"`
	RateLimitPerSec      float64 `yaml:"rate_limit_per_sec" mapstructure:"rate_limit_per_sec"`
	RelevanceKeywordFile string  `yaml:"relevance_keyword_file" mapstructure:"relevance_keyword_file"`
	FallbackDataFile     string  `yaml:"fallback_data_file" mapstructure:"fallback_data_file"`
}

// FetchTimeout returns the per-connector fetch deadline.
func (r RegistryConfig) FetchTimeout() time.Duration {
	return time.Duration(r.FetchTimeoutSecs) * time.Second
}

// ServerConfig configures the read-only HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INSIGHTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "insights.db")
	v.SetDefault("registry.auto_discovery", true)
	v.SetDefault("registry.fallback_to_mock", true)
	v.SetDefault("registry.cache_timeout_secs", 300)
	v.SetDefault("registry.max_retries", 1)
	v.SetDefault("registry.fetch_timeout_secs", 15)
	v.SetDefault("registry.cross_source_analysis", true)
	v.SetDefault("registry.narration_enabled", true)
	v.SetDefault("registry.rate_limit_per_sec", 0)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
