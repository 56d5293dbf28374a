// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Captcha   CaptchaConfig   `yaml:"captcha"`
	Email     EmailConfig     `yaml:"email"`
	Leads     LeadsConfig     `yaml:"leads"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Specs     SpecsConfig     `yaml:"specs"`
	Redis     RedisConfig     `yaml:"redis"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RateLimitConfig configures the per-endpoint submission budgets.
type RateLimitConfig struct {
	// Store is "memory" (default) or "redis".
	Store string `yaml:"store"`

	Contact     BudgetConfig  `yaml:"contact"`
	SpecRequest BudgetConfig  `yaml:"spec_request"`
	SweepEvery  time.Duration `yaml:"sweep_every"`
}

// BudgetConfig is one endpoint's fixed-window budget.
type BudgetConfig struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

// CaptchaConfig configures bot verification.
// Provider "recaptcha" verifies against Google; "mock" accepts everything
// (local development only).
type CaptchaConfig struct {
	Provider  string        `yaml:"provider"`
	SecretKey string        `yaml:"secret_key"`
	MinScore  float64       `yaml:"min_score"`
	Timeout   time.Duration `yaml:"timeout"`
}

// EmailConfig configures the notification relay.
type EmailConfig struct {
	// Provider is "resend", "smtp", "mock" or "none".
	Provider  string `yaml:"provider"`
	From      string `yaml:"from"`
	Recipient string `yaml:"recipient"`

	Resend ResendConfig `yaml:"resend"`
	SMTP   SMTPConfig   `yaml:"smtp"`
}

// ResendConfig configures the Resend API adapter.
type ResendConfig struct {
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
	MaxRPS  float64       `yaml:"max_rps"`
}

// SMTPConfig configures the SMTP fallback adapter.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// LeadsConfig configures spec-request lead persistence.
type LeadsConfig struct {
	// Store is "file", "sqlite" or "none".
	Store string `yaml:"store"`
	Dir   string `yaml:"dir"`
	DSN   string `yaml:"dsn"`
}

// CatalogConfig points at the product fixture.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// SpecsConfig configures spec-PDF serving.
type SpecsConfig struct {
	Dir string `yaml:"dir"`
}

// RedisConfig configures the optional redis rate-limit store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
// Useful for container deployments where no config file is mounted.
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback tries to load from file, falls back to environment
// variables when the file does not exist.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// applyEnvOverrides applies LEADGATE_* environment variables to the config.
// Environment variables always win over file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LEADGATE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LEADGATE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("LEADGATE_RATELIMIT_STORE"); v != "" {
		cfg.RateLimit.Store = v
	}
	if v := os.Getenv("LEADGATE_RATELIMIT_CONTACT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.Contact.Limit = n
		}
	}
	if v := os.Getenv("LEADGATE_RATELIMIT_SPEC_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.SpecRequest.Limit = n
		}
	}

	if v := os.Getenv("LEADGATE_CAPTCHA_PROVIDER"); v != "" {
		cfg.Captcha.Provider = v
	}
	if v := os.Getenv("RECAPTCHA_SECRET_KEY"); v != "" {
		cfg.Captcha.SecretKey = v
	}

	if v := os.Getenv("LEADGATE_EMAIL_PROVIDER"); v != "" {
		cfg.Email.Provider = v
	}
	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		cfg.Email.Resend.APIKey = v
	}
	if v := os.Getenv("LEADGATE_EMAIL_FROM"); v != "" {
		cfg.Email.From = v
	}
	if v := os.Getenv("LEADGATE_EMAIL_RECIPIENT"); v != "" {
		cfg.Email.Recipient = v
	}

	if v := os.Getenv("LEADGATE_LEADS_STORE"); v != "" {
		cfg.Leads.Store = v
	}
	if v := os.Getenv("LEADGATE_LEADS_DIR"); v != "" {
		cfg.Leads.Dir = v
	}
	if v := os.Getenv("LEADGATE_LEADS_DSN"); v != "" {
		cfg.Leads.DSN = v
	}

	if v := os.Getenv("LEADGATE_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("LEADGATE_SPECS_DIR"); v != "" {
		cfg.Specs.Dir = v
	}

	if v := os.Getenv("LEADGATE_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("LEADGATE_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}

	if v := os.Getenv("LEADGATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LEADGATE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("LEADGATE_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}

	if cfg.RateLimit.Store == "" {
		cfg.RateLimit.Store = "memory"
	}
	if cfg.RateLimit.Contact.Limit == 0 {
		cfg.RateLimit.Contact.Limit = 3
	}
	if cfg.RateLimit.Contact.Window == 0 {
		cfg.RateLimit.Contact.Window = time.Hour
	}
	if cfg.RateLimit.SpecRequest.Limit == 0 {
		cfg.RateLimit.SpecRequest.Limit = 5
	}
	if cfg.RateLimit.SpecRequest.Window == 0 {
		cfg.RateLimit.SpecRequest.Window = time.Hour
	}
	if cfg.RateLimit.SweepEvery == 0 {
		cfg.RateLimit.SweepEvery = 10 * time.Minute
	}

	if cfg.Captcha.Provider == "" {
		cfg.Captcha.Provider = "recaptcha"
	}
	if cfg.Captcha.MinScore == 0 {
		cfg.Captcha.MinScore = 0.5
	}
	if cfg.Captcha.Timeout == 0 {
		cfg.Captcha.Timeout = 5 * time.Second
	}

	if cfg.Email.Provider == "" {
		cfg.Email.Provider = "resend"
	}
	if cfg.Email.Resend.Timeout == 0 {
		cfg.Email.Resend.Timeout = 10 * time.Second
	}
	if cfg.Email.Resend.MaxRPS == 0 {
		cfg.Email.Resend.MaxRPS = 2
	}
	if cfg.Email.SMTP.Port == 0 {
		cfg.Email.SMTP.Port = 587
	}

	if cfg.Leads.Store == "" {
		cfg.Leads.Store = "file"
	}
	if cfg.Leads.Dir == "" {
		cfg.Leads.Dir = "data/leads"
	}
	if cfg.Leads.DSN == "" {
		cfg.Leads.DSN = "leadgate.db"
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	switch cfg.RateLimit.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown rate limit store: %q", cfg.RateLimit.Store)
	}
	if cfg.RateLimit.Contact.Limit < 1 {
		return fmt.Errorf("contact rate limit must be positive")
	}
	if cfg.RateLimit.SpecRequest.Limit < 1 {
		return fmt.Errorf("spec request rate limit must be positive")
	}

	switch cfg.Captcha.Provider {
	case "recaptcha":
		if cfg.Captcha.SecretKey == "" {
			return fmt.Errorf("captcha provider %q requires a secret key", cfg.Captcha.Provider)
		}
	case "mock":
	default:
		return fmt.Errorf("unknown captcha provider: %q", cfg.Captcha.Provider)
	}
	if cfg.Captcha.MinScore < 0 || cfg.Captcha.MinScore > 1 {
		return fmt.Errorf("captcha min score must be within [0,1]")
	}

	switch cfg.Email.Provider {
	case "resend":
		if cfg.Email.Resend.APIKey == "" {
			return fmt.Errorf("email provider resend requires an api key")
		}
	case "smtp":
		if cfg.Email.SMTP.Host == "" {
			return fmt.Errorf("email provider smtp requires a host")
		}
	case "mock", "none":
	default:
		return fmt.Errorf("unknown email provider: %q", cfg.Email.Provider)
	}
	if cfg.Email.Provider != "none" && cfg.Email.Recipient == "" {
		return fmt.Errorf("email recipient is required")
	}

	switch cfg.Leads.Store {
	case "file", "sqlite", "none":
	default:
		return fmt.Errorf("unknown leads store: %q", cfg.Leads.Store)
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", cfg.Logging.Level)
	}

	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
