package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// ServerURL is the base URL of the NAAI backend.
	ServerURL string `env:"NAAI_SERVER_URL, default=http://localhost:4000/api"`
	// HTTPTimeout bounds every backend request.
	HTTPTimeout time.Duration `env:"NAAI_HTTP_TIMEOUT, default=15s"`
	LogLevel    string        `env:"LOG_LEVEL,         default=info"`
	// CredentialBackend selects where the session token is persisted:
	// "file" (default) or "redis".
	CredentialBackend string `env:"NAAI_CREDENTIAL_BACKEND, default=file"`
	// TokenPath overrides the token file location when the file backend is
	// active. Empty means the per-user default.
	TokenPath string `env:"NAAI_TOKEN_PATH"`
	// MetricsAddr, when set (e.g. "localhost:9464"), serves Prometheus
	// metrics on /metrics. Empty disables the listener.
	MetricsAddr string `env:"NAAI_METRICS_ADDR"`

	Redis RedisConfig
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
