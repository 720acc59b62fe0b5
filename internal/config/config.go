package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"ENV"`
	APIBaseURL     string        `mapstructure:"API_BASE_URL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	SessionStore   string        `mapstructure:"SESSION_STORE"`
	SessionFile    string        `mapstructure:"SESSION_FILE"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`
	SessionCookie  string        `mapstructure:"SESSION_COOKIE"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	BackendRPS     float64       `mapstructure:"BACKEND_RPS"`
	BackendBurst   int           `mapstructure:"BACKEND_BURST"`
}

// Session store kinds accepted by SESSION_STORE.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "3000")
	v.SetDefault("ENV", "development")
	v.SetDefault("API_BASE_URL", "http://localhost:8081/api")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("SESSION_STORE", StoreFile)
	v.SetDefault("SESSION_FILE", ".hms-session.json")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_COOKIE", "hms_session")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("BACKEND_RPS", 10)
	v.SetDefault("BACKEND_BURST", 20)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("API_BASE_URL")
	v.BindEnv("REQUEST_TIMEOUT")
	v.BindEnv("SESSION_STORE")
	v.BindEnv("SESSION_FILE")
	v.BindEnv("SESSION_TTL")
	v.BindEnv("SESSION_COOKIE")
	v.BindEnv("REDIS_URL")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("BACKEND_RPS")
	v.BindEnv("BACKEND_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.IsDev() && cfg.SessionStore == StoreFile {
		log.Printf("WARNING: session token is persisted in plain text at %s", cfg.SessionFile)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the portal is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration can reach a backend and hold a
// session. The redis session store needs REDIS_URL; a production portal
// must not talk to its backend over plain HTTP.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	if c.IsProduction() && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL must use https in production, got %q", c.APIBaseURL)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}

	switch c.SessionStore {
	case StoreFile:
		if c.SessionFile == "" {
			return fmt.Errorf("SESSION_FILE is required when SESSION_STORE is %q", StoreFile)
		}
	case StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when SESSION_STORE is %q", StoreRedis)
		}
	default:
		return fmt.Errorf("SESSION_STORE must be %q, %q, or %q, got %q", StoreFile, StoreMemory, StoreRedis, c.SessionStore)
	}

	if c.BackendRPS <= 0 {
		return fmt.Errorf("BACKEND_RPS must be positive, got %v", c.BackendRPS)
	}
	if c.BackendBurst <= 0 {
		return fmt.Errorf("BACKEND_BURST must be positive, got %d", c.BackendBurst)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive when RATE_LIMIT_RPS is set, got %d", c.RateLimitBurst)
	}
	return nil
}
