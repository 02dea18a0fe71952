package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bcexplorer/internal/application"
	"bcexplorer/internal/config"
	"bcexplorer/internal/infrastructure/cache"
	"bcexplorer/internal/infrastructure/logging"
	"bcexplorer/internal/infrastructure/mysql"
	"bcexplorer/internal/infrastructure/sqlite"
	"bcexplorer/internal/infrastructure/telemetry"
	"bcexplorer/internal/interfaces/httpapi"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

type closableStore interface {
	application.Store
	io.Closer
}

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	logFile, err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		slog.Error("logger init error", "err", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(cfg); err != nil {
		slog.Error("explorer stopped", "err", err)
		if logFile != nil {
			_ = logFile.Close()
		}
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	shutdownTracing, err := telemetry.InitTracer(context.Background(), "bcexplorer-api", cfg.OtelEndpoint)
	if err != nil {
		slog.Warn("tracing init error", "err", err)
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				slog.Warn("tracing shutdown error", "err", err)
			}
		}()
	}

	base, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer base.Close()

	var store application.Store = base
	cached, err := cache.NewCachedStore(base, cache.Config{Addr: cfg.RedisAddr, TTL: cfg.CacheTTL})
	if err != nil {
		slog.Warn("redis unavailable, serving without cache", "addr", cfg.RedisAddr, "err", err)
	} else {
		defer cached.Close()
		store = cached
	}

	explorer, err := application.NewExplorer(store)
	if err != nil {
		return err
	}

	httpServer, err := httpapi.NewServer(explorer, httpapi.NewMetrics(), httpapi.BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	})
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("http server listening", "addr", cfg.HTTPAddr, "driver", cfg.DBDriver, "version", version)
	if err := httpServer.ListenAndServe(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("http server: %w", err)
	}
	slog.Info("http server stopped")
	return nil
}

func openStore(cfg config.Config) (closableStore, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		repo, err := mysql.NewRepository(cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		return repo, nil
	case config.DriverSQLite:
		repo, err := sqlite.NewRepository(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
