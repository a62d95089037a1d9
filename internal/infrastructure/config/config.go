package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Redis   RedisConfig
	Lockout LockoutConfig
	Tokens  TokenConfig
}

type APIConfig struct {
	// BaseURL of the AccesoSEN backend, e.g. https://api.accesosen.example.
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:8000"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=15s"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
	// SessionTTL bounds how long the BFF keeps a browser's backend tokens.
	SessionTTL time.Duration `env:"REDIS_SESSION_TTL, default=12h"`
}

type LockoutConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS,   default=3"`
	Window      time.Duration `env:"LOGIN_LOCKOUT_WINDOW, default=30s"`
}

type TokenConfig struct {
	// FilePath is where the terminal client keeps its sealed token blob.
	FilePath string `env:"TOKEN_FILE, default=.sadi/tokens.bin"`
	// Passphrase seals the token blob at rest.
	Passphrase string `env:"TOKEN_PASSPHRASE, default=sadi-local"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(log zerolog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		panic(err)
	}
	return &cfg
}
