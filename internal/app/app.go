package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/pgscatalog-etl/internal/data/db"
	"github.com/yungbote/pgscatalog-etl/internal/data/repos"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/http"
	"github.com/yungbote/pgscatalog-etl/internal/observability"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *db.Service
	Cfg      Config
	Repos    *repos.Set
	Services Services
	Handlers Handlers
	Metrics  *observability.Metrics

	shutdownOTel func(context.Context) error
}

// New wires the application from cfg. log may be nil, in which case one is
// built from cfg.LogMode.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*App, error) {
	if log == nil {
		var err error
		if log, err = logger.New(cfg.LogMode); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	shutdownOTel := observability.InitOTel(ctx, log, cfg.OTel)

	dbs, err := db.NewService(db.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN}, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbs.AutoMigrateAll(); err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
		if sqlDB, err := dbs.DB().DB(); err == nil {
			if err := metrics.WatchDB(sqlDB, cfg.DBDriver); err != nil {
				log.Warn("db stats collector not registered", "error", err)
			}
		}
	}

	reposet := wireRepos(dbs.DB(), log)
	client, err := wireCatalogClient(log, cfg, metrics)
	if err != nil {
		_ = dbs.Close()
		return nil, fmt.Errorf("init catalog client: %w", err)
	}
	services, err := wireServices(log, cfg, reposet, client, metrics)
	if err != nil {
		_ = dbs.Close()
		return nil, err
	}
	handlers := wireHandlers(log, services, reposet, func(ctx context.Context) error {
		sqlDB, err := dbs.DB().DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	return &App{
		Log:          log,
		DB:           dbs,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     services,
		Handlers:     handlers,
		Metrics:      metrics,
		shutdownOTel: shutdownOTel,
	}, nil
}

// Migrate only applies the schema; New already does this on startup.
func (a *App) Migrate() error {
	return a.DB.AutoMigrateAll()
}

// RunEntity executes one pipeline entry point and records it as an etl run.
func (a *App) RunEntity(ctx context.Context, entity string, params map[string]any) (*types.EtlRun, error) {
	if a == nil || a.Services.Registry == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return a.Services.Registry.Execute(ctx, entity, params)
}

// Serve runs the HTTP surface until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	if a == nil {
		return fmt.Errorf("app not initialized")
	}
	server := http.NewServer(a.Cfg.HTTPAddr, wireRouterConfig(a.Log, a.Cfg, a.Handlers, a.Metrics))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTPAddr)
		return server.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Log.Info("HTTP server shutting down")
		return nil
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.shutdownOTel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.shutdownOTel(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && a.Log != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
