package db

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/nimasrn/ledger/migrations"
	"github.com/nimasrn/ledger/pkg/logger"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

func dialect(driver string) string {
	if driver == DriverSQLite || driver == "sqlite3" {
		return "sqlite3"
	}
	return "postgres"
}

func prepareGoose(driver string) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(logger.GetLogger())
	if err := goose.SetDialect(dialect(driver)); err != nil {
		return errors.Wrap(err, "migration: set dialect")
	}
	return nil
}

// Migrate applies every pending embedded migration for driver.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	if err := prepareGoose(driver); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, migrations.Dir(driver)); err != nil {
		return errors.Wrap(err, "migration: up")
	}
	return nil
}

// Run executes a goose command (up, down, status, ...). An empty dir uses
// the embedded migrations, otherwise dir is read from disk.
func Run(ctx context.Context, db *sql.DB, driver, command, dir string, args ...string) error {
	if err := prepareGoose(driver); err != nil {
		return err
	}
	if dir != "" {
		goose.SetBaseFS(nil)
	} else {
		dir = migrations.Dir(driver)
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return errors.Wrapf(err, "migration: %s", command)
	}
	return nil
}

// OpenSQL opens a plain database/sql handle for the migration CLI.
func OpenSQL(cfg Config) (*sql.DB, error) {
	if dialect(cfg.Driver) == "sqlite3" {
		conn, err := Open(cfg)
		if err != nil {
			return nil, err
		}
		return conn.write.DB()
	}
	return sql.Open("postgres", cfg.PostgresDSN())
}
