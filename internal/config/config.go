package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"tokenrelay/internal/pkg/secret"
)

const (
	defaultAccessSecret  = "change-me-access-secret"
	defaultRenewalSecret = "change-me-renewal-secret"
)

// Config is the server runtime configuration.
type Config struct {
	AppEnv          string        `env:"APP_ENV" envDefault:"dev"`
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8000"`
	GinMode         string        `env:"GIN_MODE" envDefault:"debug"`
	DatabaseURL     string        `env:"DATABASE_URL" envDefault:"tokenrelay.db"`
	AccessSecret    string        `env:"JWT_ACCESS_SECRET" envDefault:"change-me-access-secret"`
	RenewalSecret   string        `env:"JWT_RENEWAL_SECRET" envDefault:"change-me-renewal-secret"`
	AccessTTL       time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RenewalTTL      time.Duration `env:"RENEWAL_TTL" envDefault:"168h"`
	SecretScheme    string        `env:"SECRET_SCHEME" envDefault:"plain"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ClientConfig configures cmd/client.
type ClientConfig struct {
	ServerURL string        `env:"SERVER_URL" envDefault:"http://localhost:8000"`
	Timeout   time.Duration `env:"CLIENT_TIMEOUT" envDefault:"10s"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"warn"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	loadEnvFile()
	return parse(env.Options{})
}

func LoadClient() (*ClientConfig, error) {
	loadEnvFile()
	return parseClient(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.AccessSecret = strings.TrimSpace(cfg.AccessSecret)
	cfg.RenewalSecret = strings.TrimSpace(cfg.RenewalSecret)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseClient(opts env.Options) (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.ServerURL = strings.TrimRight(strings.TrimSpace(cfg.ServerURL), "/")
	if cfg.ServerURL == "" {
		return nil, errors.New("SERVER_URL must not be empty")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("CLIENT_TIMEOUT must be > 0")
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.AccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if c.RenewalTTL <= 0 {
		return fmt.Errorf("RENEWAL_TTL must be > 0")
	}
	if c.AccessTTL >= c.RenewalTTL {
		return fmt.Errorf("JWT_ACCESS_TTL must be shorter than RENEWAL_TTL")
	}
	if c.AccessSecret == "" || c.RenewalSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET and JWT_RENEWAL_SECRET must be set")
	}
	if c.AccessSecret == c.RenewalSecret {
		return fmt.Errorf("JWT_ACCESS_SECRET and JWT_RENEWAL_SECRET must differ")
	}
	if _, err := secret.ParseScheme(c.SecretScheme); err != nil {
		return fmt.Errorf("SECRET_SCHEME: %w", err)
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}

	if c.IsProdLike() {
		if c.AccessSecret == defaultAccessSecret {
			return fmt.Errorf("in prod/release JWT_ACCESS_SECRET must be set and not default")
		}
		if c.RenewalSecret == defaultRenewalSecret {
			return fmt.Errorf("in prod/release JWT_RENEWAL_SECRET must be set and not default")
		}
	}
	return nil
}

func (c *Config) IsProdLike() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

// loadEnvFile loads .env from the working directory or its parent, if present.
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}
	_ = godotenv.Load(filepath.Join(parent, ".env"))
}
