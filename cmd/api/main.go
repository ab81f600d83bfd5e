package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nimasrn/ledger/internal/config"
	"github.com/nimasrn/ledger/internal/handlers"
	"github.com/nimasrn/ledger/internal/idempotency"
	"github.com/nimasrn/ledger/internal/repository"
	"github.com/nimasrn/ledger/internal/services"
	"github.com/nimasrn/ledger/pkg/db"
	xhttp "github.com/nimasrn/ledger/pkg/http"
	"github.com/nimasrn/ledger/pkg/logger"
	"github.com/nimasrn/ledger/pkg/prom"
	"github.com/nimasrn/ledger/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()
	logger.Info("starting ledger api", "version", version, "commit", commit, "date", date, "env", cfg.AppEnv)

	if cfg.AppDebugMetricsAddr != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, cfg.AppEnv, cfg.PromNamespace); err != nil {
			logger.Error("failed creating metrics", "error", err)
			return
		}
		go prom.ListenAndServer(cfg.AppDebugMetricsAddr, cfg.AppDebugMetricsURI)
	}

	conn, err := db.Open(dbConfig(cfg))
	if err != nil {
		logger.Error("failed connecting to database", "driver", cfg.Driver(), "error", err)
		return
	}
	if err := conn.Migrate(context.Background()); err != nil {
		logger.Error("failed migrating database", "error", err)
		_ = conn.Close()
		return
	}

	opt := xhttp.DefaultServerOption
	opt.Name = cfg.AppName
	opt.RequestTimeout = cfg.HttpRequestTimeout
	opt.Prefork = cfg.HttpPrefork
	s := xhttp.NewServer(opt)
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(prom.HTTPMiddleware)
	s.Use(xhttp.TimeoutMiddleware(opt.RequestTimeout))
	s.Use(xhttp.CompressMiddleware(6))

	healthService := services.NewHealthService(conn)
	if cfg.IdempotencyEnabled() {
		redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, &redis.Options{
			Addrs:      []string{cfg.RedisAddr},
			ClientName: cfg.AppName,
			DB:         cfg.RedisDatabase,
			Username:   cfg.RedisUsername,
			Password:   cfg.RedisPassword,
		})
		if err != nil {
			logger.Error("failed connecting to redis", "error", err)
			_ = conn.Close()
			return
		}
		defer redisAdap.Close()
		store := idempotency.NewStore(redisAdap, idempotency.Config{
			TTL:     cfg.IdempotencyTTL,
			LockTTL: cfg.IdempotencyLockTTL,
		})
		s.Use(idempotency.Middleware(store))
		healthService.WithCache(redisAdap)
	} else {
		logger.Warn("REDIS_ADDR is empty, idempotency keys are ignored")
	}

	clientRepo := repository.NewClientRepository(conn)
	movementRepo := repository.NewMovementRepository(conn)

	// services
	clientService := services.NewClientService(clientRepo)
	movementService := services.NewMovementService(movementRepo)

	// handlers
	clientHandler := handlers.NewClientHandler(clientService)
	movementHandler := handlers.NewMovementHandler(movementService)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api")
	handlers.RegisterClientRoutes(g, clientHandler)
	handlers.RegisterMovementRoutes(g, movementHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		errc <- s.Serve(cfg.ListenAddr())
	}()

	select {
	case <-c:
		s.Shutdown()
	case err := <-errc:
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}

	if err := conn.Close(); err != nil {
		logger.Error("failed closing database", "error", err)
	}
}

func dbConfig(cfg *config.Config) db.Config {
	return db.Config{
		Driver:          cfg.Driver(),
		DSN:             cfg.DatabaseURL,
		ReadDSN:         cfg.DatabaseReadURL,
		User:            cfg.PostgresUser,
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		Password:        cfg.PostgresPassword,
		Database:        cfg.PostgresDatabase,
		SSLMode:         cfg.PostgresSSLMode,
		SQLitePath:      cfg.SQLitePath,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		Logger:          logger.NewGormLogger(cfg.AppDebug),
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.HasPrefix(v, "--env=") {
			p := strings.TrimPrefix(v, "--env=")
			if _, err := os.Stat(p); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return p
		}
	}
	return ""
}
