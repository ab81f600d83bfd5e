package db

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver string

	// DSN is a full postgres connection string. When empty it is built
	// from the discrete fields below.
	DSN     string
	ReadDSN string

	User     string
	Host     string
	Port     string
	Password string
	Database string
	SSLMode  string

	SQLitePath string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	Logger gormlogger.Interface
}

func (c Config) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s", c.Host, c.User, c.Password, c.Database, c.Port, sslMode)
}

func (c Config) PostgresReadDSN() string {
	if c.ReadDSN != "" {
		return c.ReadDSN
	}
	return c.PostgresDSN()
}

// SQLiteDSN enables foreign keys on every connection; cascade deletes
// depend on it.
func (c Config) SQLiteDSN() string {
	path := c.SQLitePath
	if path == "" {
		path = ":memory:"
	}
	params := url.Values{}
	params.Set("_foreign_keys", "1")
	params.Set("_busy_timeout", "5000")
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params.Encode()
}
