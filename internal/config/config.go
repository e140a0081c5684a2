package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
)

type Config struct {
	Env      string `env:"ENV" env-default:"local"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	HTTP     HTTP
	Postgres Postgres
	Redis    Redis
	Auth     Auth
	Orders   Orders
	Tracing  Tracing
}

type HTTP struct {
	Addr            string        `env:"HTTP_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type Postgres struct {
	URL      string `env:"DB_URL" env-required:"true"`
	MaxConns int32  `env:"DB_MAX_CONNS" env-default:"10"`
}

type Redis struct {
	// empty disables the product cache
	Addr string        `env:"REDIS_ADDR"`
	TTL  time.Duration `env:"CACHE_TTL" env-default:"5m"`
}

type Auth struct {
	JWTSecret string        `env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"24h"`
}

type Orders struct {
	StoreCurrency     string `env:"STORE_CURRENCY" env-default:"EUR"`
	StrictTransitions bool   `env:"ORDER_STRICT_TRANSITIONS" env-default:"true"`
}

type Tracing struct {
	// empty disables span export
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("godotenv.Load: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cleanenv.ReadEnv: %w", err)
	}

	if _, err := cfg.Currency(); err != nil {
		return nil, err
	}

	if cfg.Postgres.MaxConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be positive, got %d", cfg.Postgres.MaxConns)
	}

	return &cfg, nil
}

func (c *Config) Currency() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.Orders.StoreCurrency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("STORE_CURRENCY[%s] is not valid: %w", c.Orders.StoreCurrency, err)
	}
	return unit, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}
