package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SESSION_STORE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("expected default port 3000, got %s", cfg.Port)
	}
	if cfg.APIBaseURL != "http://localhost:8081/api" {
		t.Errorf("expected default API_BASE_URL, got %s", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("expected default timeout 10s, got %s", cfg.RequestTimeout)
	}
	if cfg.SessionStore != StoreFile {
		t.Errorf("expected default session store %q, got %q", StoreFile, cfg.SessionStore)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected default session ttl 24h, got %s", cfg.SessionTTL)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend:9090/api/")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("SESSION_STORE", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "http://backend:9090/api" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Errorf("expected timeout 3s, got %s", cfg.RequestTimeout)
	}
	if cfg.SessionStore != StoreMemory {
		t.Errorf("expected memory store, got %s", cfg.SessionStore)
	}
}

func TestLoad_RedisRequiresURL(t *testing.T) {
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when REDIS_URL is missing for redis store")
	}
}

func TestLoad_RejectsZeroBackendBurst(t *testing.T) {
	t.Setenv("BACKEND_BURST", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for BACKEND_BURST=0")
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
	if !c.IsProduction() {
		t.Error("expected IsProduction() to return true for production")
	}
}

func validConfig() *Config {
	return &Config{
		Env:            "development",
		APIBaseURL:     "http://localhost:8081/api",
		RequestTimeout: 10 * time.Second,
		SessionStore:   StoreFile,
		SessionFile:    ".hms-session.json",
		BackendRPS:     10,
		BackendBurst:   20,
		RateLimitRPS:   20,
		RateLimitBurst: 40,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"relative base url", func(c *Config) { c.APIBaseURL = "/api" }, true},
		{"http in production", func(c *Config) { c.Env = "production" }, true},
		{"https in production", func(c *Config) {
			c.Env = "production"
			c.APIBaseURL = "https://hms.example.org/api"
		}, false},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"unknown store", func(c *Config) { c.SessionStore = "cookie" }, true},
		{"file store without path", func(c *Config) { c.SessionFile = "" }, true},
		{"memory store", func(c *Config) { c.SessionStore = StoreMemory }, false},
		{"redis without url", func(c *Config) { c.SessionStore = StoreRedis }, true},
		{"redis with url", func(c *Config) {
			c.SessionStore = StoreRedis
			c.RedisURL = "redis://localhost:6379/0"
		}, false},
		{"zero backend rps", func(c *Config) { c.BackendRPS = 0 }, true},
		{"zero backend burst", func(c *Config) { c.BackendBurst = 0 }, true},
		{"zero inbound burst", func(c *Config) { c.RateLimitBurst = 0 }, true},
		{"inbound limit left to defaults", func(c *Config) {
			c.RateLimitRPS = 0
			c.RateLimitBurst = 0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
