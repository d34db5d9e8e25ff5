package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/nap-audit/internal/match"
)

// Config holds the full application configuration.
type Config struct {
	Places    PlacesConfig     `yaml:"places" mapstructure:"places"`
	Anthropic AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Match     match.Thresholds `yaml:"match" mapstructure:"match"`
	Input     InputConfig      `yaml:"input" mapstructure:"input"`
	Store     StoreConfig      `yaml:"store" mapstructure:"store"`
	Retry     RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Circuit   CircuitConfig    `yaml:"circuit" mapstructure:"circuit"`
	Cache     CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Server    ServerConfig     `yaml:"server" mapstructure:"server"`
	Log       LogConfig        `yaml:"log" mapstructure:"log"`
}

// PlacesConfig holds Google Places API settings.
type PlacesConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	// RateLimitMs is the minimum delay between two lookups.
	RateLimitMs int `yaml:"rate_limit_ms" mapstructure:"rate_limit_ms"`
}

// AnthropicConfig holds settings for the AI tie-breaker.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
}

// InputConfig maps spreadsheet columns onto record fields.
type InputConfig struct {
	NameColumn       string `yaml:"name_column" mapstructure:"name_column"`
	PhoneColumn      string `yaml:"phone_column" mapstructure:"phone_column"`
	StreetColumn     string `yaml:"street_column" mapstructure:"street_column"`
	CityColumn       string `yaml:"city_column" mapstructure:"city_column"`
	PostalCodeColumn string `yaml:"postal_code_column" mapstructure:"postal_code_column"`
	CountryColumn    string `yaml:"country_column" mapstructure:"country_column"`
	DefaultCountry   string `yaml:"default_country" mapstructure:"default_country"`
	// Sheet selects the XLSX sheet by name. Empty means the first sheet.
	Sheet string `yaml:"sheet" mapstructure:"sheet"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// RetryConfig configures retries of failed lookups.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
}

// CircuitConfig configures the lookup circuit breaker.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// CacheConfig configures the lookup cache. Zero disables it.
type CacheConfig struct {
	TTLHours int `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// ServerConfig configures the HTTP API.
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
	v.SetEnvPrefix("NAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	th := match.DefaultThresholds()
	v.SetDefault("places.key", "")
	v.SetDefault("places.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("places.timeout_secs", 10)
	v.SetDefault("places.rate_limit_ms", 200)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 16)
	v.SetDefault("anthropic.enabled", true)
	v.SetDefault("match.name_threshold", th.Name)
	v.SetDefault("match.address_threshold", th.Address)
	v.SetDefault("match.component_ratio", th.ComponentRatio)
	v.SetDefault("match.high_similarity", th.HighSimilarity)
	v.SetDefault("input.name_column", "CompanyName")
	v.SetDefault("input.phone_column", "WorkNumber")
	v.SetDefault("input.street_column", "Address")
	v.SetDefault("input.city_column", "City")
	v.SetDefault("input.postal_code_column", "ZipCode")
	v.SetDefault("input.country_column", "Country")
	v.SetDefault("input.default_country", "USA")
	v.SetDefault("input.sheet", "")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "nap-audit.db")
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff_ms", 500)
	v.SetDefault("retry.max_backoff_ms", 10000)
	v.SetDefault("circuit.failure_threshold", 5)
	v.SetDefault("circuit.reset_timeout_secs", 30)
	v.SetDefault("cache.ttl_hours", 168)
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

// Validate checks the settings a command mode depends on. Modes: audit,
// match, serve, runs.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "audit", "serve":
		if c.Places.Key == "" {
			errs = append(errs, "places.key is required")
		}
		if c.Places.RateLimitMs < 0 {
			errs = append(errs, "places.rate_limit_ms must be >= 0")
		}
		errs = append(errs, c.validateStore()...)
		if mode == "serve" && c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	case "runs":
		if c.Store.Driver == "none" {
			errs = append(errs, "store.driver must not be none")
		}
		errs = append(errs, c.validateStore()...)
	case "match":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	for name, v := range map[string]float64{
		"match.name_threshold":    c.Match.Name,
		"match.address_threshold": c.Match.Address,
		"match.component_ratio":   c.Match.ComponentRatio,
		"match.high_similarity":   c.Match.HighSimilarity,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 1", name))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateStore() []string {
	switch c.Store.Driver {
	case "none":
		return nil
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			return []string{"store.database_url is required"}
		}
		return nil
	default:
		return []string{fmt.Sprintf("store.driver %q must be sqlite, postgres or none", c.Store.Driver)}
	}
}

// Masked returns a copy safe to print: API keys keep their last four
// characters and database passwords are redacted.
func (c Config) Masked() Config {
	c.Places.Key = maskSecret(c.Places.Key)
	c.Anthropic.Key = maskSecret(c.Anthropic.Key)
	if u, err := url.Parse(c.Store.DatabaseURL); err == nil && u.User != nil {
		c.Store.DatabaseURL = u.Redacted()
	}
	return c
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return "****" + s[len(s)-4:]
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
