package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/nimasrn/ledger/pkg/logger"
	"github.com/pkg/errors"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var config *Config

// Config holds every setting the ledger binaries read. Only this struct
// must be used to hold configuration values, no direct access to env or
// any other config source should be made.
type Config struct {
	AppEnv              string `env:"APP_ENV,default=dev"`
	AppName             string `env:"APP_NAME,default=ledger"`
	AppDebug            bool   `env:"APP_DEBUG,default=false"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`
	AppDebugMetricsURI  string `env:"APP_DEBUG_METRIC_URI,default=/metrics"`

	Port               string        `env:"PORT"`
	HttpListenAddr     string        `env:"HTTP_LISTEN_ADDR,default=:3000"`
	HttpRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT,default=5s"`
	HttpPrefork        bool          `env:"HTTP_PREFORK,default=false"`

	DBDriver          string        `env:"DB_DRIVER"`
	DatabaseURL       string        `env:"DATABASE_URL"`
	DatabaseReadURL   string        `env:"DATABASE_READ_URL"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	PostgresHost     string `env:"POSTGRES_HOST,default=localhost"`
	PostgresPort     string `env:"POSTGRES_PORT,default=5432"`
	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDatabase string `env:"POSTGRES_DBNAME"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE,default=disable"`

	SQLitePath string `env:"SQLITE_PATH,default=./data/ledger.db"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE,default=0"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX,default=ledger"`

	IdempotencyTTL     time.Duration `env:"IDEMPOTENCY_TTL,default=24h"`
	IdempotencyLockTTL time.Duration `env:"IDEMPOTENCY_LOCK_TTL,default=30s"`

	PromNamespace string `env:"PROM_NAMESPACE,default=ledger"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err := godotenv.Load(path)
		if err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	c, err := FromEnviron()
	if err != nil {
		return err
	}

	config = c
	return nil
}

// FromEnviron maps the current process environment onto a Config.
// Unset variables take the default from their env tag.
func FromEnviron() (*Config, error) {
	c := &Config{}
	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return nil, errors.Wrap(err, "failed to map env variables to Configuration object")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch c.Driver() {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" && (c.PostgresUser == "" || c.PostgresDatabase == "") {
			return errors.New("DATABASE_URL or POSTGRES_USER and POSTGRES_DBNAME are required for the postgres driver")
		}
		if c.DatabaseURL != "" {
			if _, err := url.Parse(c.DatabaseURL); err != nil {
				return errors.Wrap(err, "invalid DATABASE_URL")
			}
		}
	default:
		return errors.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.HttpRequestTimeout <= 0 {
		return errors.New("HTTP_REQUEST_TIMEOUT must be positive")
	}
	if c.IdempotencyTTL <= 0 || c.IdempotencyLockTTL <= 0 {
		return errors.New("IDEMPOTENCY_TTL and IDEMPOTENCY_LOCK_TTL must be positive")
	}
	return nil
}

// Driver resolves the database backend. An explicit DB_DRIVER wins,
// otherwise production runs on postgres and everything else on sqlite.
func (c *Config) Driver() string {
	if d := strings.ToLower(strings.TrimSpace(c.DBDriver)); d != "" {
		if d == "sqlite3" {
			return DriverSQLite
		}
		return d
	}
	if c.IsProduction() {
		return DriverPostgres
	}
	return DriverSQLite
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// ListenAddr prefers PORT when the platform injects one.
func (c *Config) ListenAddr() string {
	if c.Port != "" {
		return fmt.Sprintf(":%s", strings.TrimPrefix(c.Port, ":"))
	}
	return c.HttpListenAddr
}

func (c *Config) IdempotencyEnabled() bool {
	return c.RedisAddr != ""
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
