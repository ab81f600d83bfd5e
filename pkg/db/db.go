package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type DB struct {
	read   *gorm.DB
	write  *gorm.DB
	driver string
}

func gormConfig(cfg Config) *gorm.Config {
	return &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		TranslateError: true,
		Logger:         cfg.Logger,
	}
}

func Open(cfg Config) (*DB, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return openPostgres(cfg)
	case DriverSQLite, "sqlite3":
		return openSQLite(cfg)
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", cfg.Driver)
	}
}

func openPostgres(cfg Config) (*DB, error) {
	write, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), gormConfig(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "db: open postgres")
	}
	if err := tunePool(write, cfg); err != nil {
		return nil, err
	}

	read := write
	if cfg.ReadDSN != "" {
		read, err = gorm.Open(postgres.Open(cfg.PostgresReadDSN()), gormConfig(cfg))
		if err != nil {
			return nil, errors.Wrap(err, "db: open postgres replica")
		}
		if err := tunePool(read, cfg); err != nil {
			return nil, err
		}
	}
	return &DB{read: read, write: write, driver: DriverPostgres}, nil
}

func openSQLite(cfg Config) (*DB, error) {
	if cfg.SQLitePath != "" && cfg.SQLitePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, errors.Wrap(err, "db: create sqlite directory")
		}
	}
	conn, err := gorm.Open(sqlite.Open(cfg.SQLiteDSN()), gormConfig(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "db: open sqlite")
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	// sqlite serialises writers anyway, and an in-memory database only
	// exists on the connection that created it.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return &DB{read: conn, write: conn, driver: DriverSQLite}, nil
}

func tunePool(conn *gorm.DB, cfg Config) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return nil
}

func (r *DB) Driver() string {
	return r.driver
}

func (r *DB) Write(ctx context.Context) *gorm.DB {
	return r.write.WithContext(ctx)
}

func (r *DB) Read(ctx context.Context) *gorm.DB {
	return r.read.WithContext(ctx)
}

func (r *DB) Ping(ctx context.Context) error {
	sqlDB, err := r.write.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate brings the schema up to date on the write handle.
func (r *DB) Migrate(ctx context.Context) error {
	sqlDB, err := r.write.DB()
	if err != nil {
		return err
	}
	return Migrate(ctx, sqlDB, r.driver)
}

func (r *DB) Close() error {
	var firstErr error
	seen := map[*gorm.DB]bool{}
	for _, conn := range []*gorm.DB{r.write, r.read} {
		if conn == nil || seen[conn] {
			continue
		}
		seen[conn] = true
		sqlDB, err := conn.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
