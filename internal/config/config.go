package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	App struct {
		Name    string `envconfig:"APP_NAME" default:"spendlens"`
		Port    int    `envconfig:"PORT" default:"8080"`
		Storage string `envconfig:"STORAGE" default:"memory"`
		// Owner is the default owner for the CLI and TUI.
		Owner string `envconfig:"OWNER" default:"local"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"spendlens"`
	}

	SQLite struct {
		Path string `envconfig:"SQLITE_PATH" default:"spendlens.db"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	// The summary cache is used with memory storage only.
	Analysis struct {
		Delay     time.Duration `envconfig:"ANALYSIS_DELAY" default:"2s"`
		CacheSize int           `envconfig:"SUMMARY_CACHE_SIZE" default:"256"`
		CacheTTL  time.Duration `envconfig:"SUMMARY_CACHE_TTL" default:"10m"`
	}

	Currency struct {
		Display string `envconfig:"DISPLAY_CURRENCY" default:"INR"`
		Rate    string `envconfig:"CONVERSION_RATE" default:"83"`
	}

	Auth struct {
		Enabled  bool          `envconfig:"AUTH_ENABLED" default:"false"`
		Secret   string        `envconfig:"JWT_SECRET"`
		TokenTTL time.Duration `envconfig:"JWT_TTL" default:"720h"`
	}

	AMQP struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"spendlens"`
		Queue    string `envconfig:"AMQP_QUEUE" default:"spendlens.expenses"`
	}

	Gemini struct {
		APIKey string `envconfig:"GEMINI_API_KEY"`
		Model  string `envconfig:"GEMINI_MODEL" default:"gemini-pro"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// DSN returns the driver name and data source for the configured storage.
func (c *Config) DSN() (driver, dsn string) {
	switch c.App.Storage {
	case StoragePostgres:
		return StoragePostgres, c.ConnectionString()
	case StorageSQLite:
		return StorageSQLite, c.SQLite.Path
	default:
		return "", ""
	}
}

func (c *Config) ConversionRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.Currency.Rate))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid CONVERSION_RATE: %w", err)
	}

	return rate, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.App.Storage {
	case StorageMemory, StoragePostgres, StorageSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE %q", c.App.Storage))
	}

	if c.App.Port < 1 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.App.Port))
	}

	if rate, err := c.ConversionRate(); err != nil {
		errs = append(errs, err)
	} else if !rate.IsPositive() {
		errs = append(errs, errors.New("CONVERSION_RATE must be greater than zero"))
	}

	if c.Analysis.Delay < 0 {
		errs = append(errs, errors.New("ANALYSIS_DELAY must not be negative"))
	}

	if c.Auth.Enabled && c.Auth.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required when AUTH_ENABLED is set"))
	}

	return errors.Join(errs...)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
