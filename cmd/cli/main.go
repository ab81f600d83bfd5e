package main

import (
	"context"
	"flag"
	"os"

	"github.com/nimasrn/ledger/internal/config"
	"github.com/nimasrn/ledger/pkg/db"
	"github.com/nimasrn/ledger/pkg/logger"
)

// main.go --env=.env --cmd=up [--dir=./migrations/postgres] [args...]
func main() {
	envPath := flag.String("env", "", "path to an env file")
	dir := flag.String("dir", "", "migrations directory, the embedded set is used when empty")
	command := flag.String("cmd", "up", "goose command: up, down, status, redo, version, ...")
	flag.Parse()

	if *envPath == "" {
		if _, err := os.Stat(".env"); err == nil {
			*envPath = ".env"
		}
	}
	if err := config.Load(*envPath); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Get()

	sqlDB, err := db.OpenSQL(db.Config{
		Driver:     cfg.Driver(),
		DSN:        cfg.DatabaseURL,
		User:       cfg.PostgresUser,
		Host:       cfg.PostgresHost,
		Port:       cfg.PostgresPort,
		Password:   cfg.PostgresPassword,
		Database:   cfg.PostgresDatabase,
		SSLMode:    cfg.PostgresSSLMode,
		SQLitePath: cfg.SQLitePath,
		Logger:     logger.NewGormLogger(cfg.AppDebug),
	})
	if err != nil {
		logger.Error("migration: failed opening database", "driver", cfg.Driver(), "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Run(context.Background(), sqlDB, cfg.Driver(), *command, *dir, flag.Args()...); err != nil {
		logger.Error("migration: error running migrations", "command", *command, "error", err)
		os.Exit(1)
	}
	logger.Info("migration: done", "command", *command, "driver", cfg.Driver())
}
