package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Backend      BackendConfig      `mapstructure:"backend"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Records      RecordsConfig      `mapstructure:"records"`
	Consultation ConsultationConfig `mapstructure:"consultation"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// BackendConfig describes the external order backend this service fronts.
type BackendConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Funnels    []string      `mapstructure:"funnels"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryCount int           `mapstructure:"retry_count"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

// AllowsFunnel reports whether slug is one of the configured funnels. An
// empty list allows everything.
func (b BackendConfig) AllowsFunnel(slug string) bool {
	if len(b.Funnels) == 0 {
		return true
	}
	for _, f := range b.Funnels {
		if f == slug {
			return true
		}
	}
	return false
}

type AuthConfig struct {
	Secret            string        `mapstructure:"secret"`
	TokenExpiry       time.Duration `mapstructure:"token_expiry"`
	AdminUsername     string        `mapstructure:"admin_username"`
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
}

type RecordsConfig struct {
	// HighlightLatest is how many most-recent orders the view flags.
	HighlightLatest int `mapstructure:"highlight_latest"`
}

// ConsultationConfig carries the two rules the landing pages historically
// disagreed on; both are deployment configuration rather than constants.
type ConsultationConfig struct {
	// MinLeadDays is the minimum whole days between today and the
	// preferred appointment date. The forms shipped with 2 in the
	// validation rule and 3 in the date-picker hint; 2 is the default
	// here and both surfaces read this one value.
	MinLeadDays int `mapstructure:"min_lead_days"`
	// PhoneStripChars are removed from phone input before the 10-digit
	// check.
	PhoneStripChars string `mapstructure:"phone_strip_chars"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// envOverrides are the settings that commonly differ per environment and
// are injected through the process environment rather than the YAML file.
type envOverrides struct {
	Port              int    `envconfig:"PORT"`
	BackendBaseURL    string `envconfig:"BACKEND_BASE_URL"`
	AuthSecret        string `envconfig:"AUTH_SECRET"`
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH"`
	LogLevel          string `envconfig:"LOG_LEVEL"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("records", &env); err != nil {
		return nil, fmt.Errorf("process env overrides: %w", err)
	}
	applyOverrides(&cfg, env)

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("auth secret is required")
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("backend.timeout", 15*time.Second)
	viper.SetDefault("backend.retry_count", 2)
	viper.SetDefault("backend.cache_ttl", 5*time.Minute)
	viper.SetDefault("auth.token_expiry", 24*time.Hour)
	viper.SetDefault("records.highlight_latest", 3)
	viper.SetDefault("consultation.min_lead_days", 2)
	viper.SetDefault("consultation.phone_strip_chars", " -()+.")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests_per_second", 20)
	viper.SetDefault("rate_limit.burst", 40)
}

func applyOverrides(cfg *Config, env envOverrides) {
	if env.Port != 0 {
		cfg.Server.Port = env.Port
	}
	if env.BackendBaseURL != "" {
		cfg.Backend.BaseURL = env.BackendBaseURL
	}
	if env.AuthSecret != "" {
		cfg.Auth.Secret = env.AuthSecret
	}
	if env.AdminPasswordHash != "" {
		cfg.Auth.AdminPasswordHash = env.AdminPasswordHash
	}
	if env.LogLevel != "" {
		cfg.Logging.Level = env.LogLevel
	}
}
