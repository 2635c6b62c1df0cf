package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AlcMaple/bridge-inspection-backend/internal/data/db"
	apphttp "github.com/AlcMaple/bridge-inspection-backend/internal/http"
	"github.com/AlcMaple/bridge-inspection-backend/internal/observability"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/cache"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
)

const redisKeyPrefix = "bridge:"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
	Server   *apphttp.Server

	dbService *db.Service
	shutdown  []func(context.Context) error
}

// NewLogger builds the process logger for cfg.LogMode.
func NewLogger(cfg Config) (*logger.Logger, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// OpenDB connects using cfg and runs migrations when auto_migrate is set.
func OpenDB(log *logger.Logger, cfg Config) (*db.Service, error) {
	svc, err := db.NewService(log, cfg.DBOptions())
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := svc.AutoMigrateAll(); err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	return svc, nil
}

func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	if !strings.EqualFold(cfg.LogMode, "development") {
		gin.SetMode(gin.ReleaseMode)
	}

	a := &App{Log: log, Cfg: cfg}
	a.shutdown = append(a.shutdown, observability.InitOTel(ctx, log, cfg.OtelConfig()))
	a.Metrics = observability.Init(log, cfg.MetricsEnabled)

	dbService, err := OpenDB(log, cfg)
	if err != nil {
		return nil, err
	}
	a.dbService = dbService
	a.DB = dbService.DB()

	a.Repos, a.Services = WireCore(ctx, log, cfg, a.DB)
	handlers := wireHandlers(log, a.DB, a.Services)
	a.Server = apphttp.NewServer(wireRouter(log, cfg, handlers, a.Metrics))
	return a, nil
}

// WireCore builds the repositories and services over an open database.
func WireCore(ctx context.Context, log *logger.Logger, cfg Config, gdb *gorm.DB) (Repos, Services) {
	store := wireCache(ctx, log, cfg)
	r := wireRepos(gdb, log)
	return r, wireServices(gdb, log, cfg, r, store, observability.Current())
}

// wireCache prefers Redis and degrades to the in-process cache when it is unreachable.
func wireCache(ctx context.Context, log *logger.Logger, cfg Config) cache.Store {
	if cfg.CacheTTLSeconds == 0 {
		return nil
	}
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return cache.NewMemory()
	}
	store, err := cache.NewRedis(ctx, log, cfg.RedisAddr, redisKeyPrefix)
	if err != nil {
		log.Warn("redis unavailable; using in-memory cache", "error", err, "addr", cfg.RedisAddr)
		return cache.NewMemory()
	}
	return store
}

// Run serves HTTP, and metrics when enabled, until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	scrape := time.Duration(a.Cfg.MetricsScrapeSeconds) * time.Second
	a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	if a.Cfg.DBDriver == db.DriverPostgres {
		a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB, scrape)
	}
	a.Metrics.StartRedisCollector(ctx, a.Log, a.Cfg.RedisAddr, scrape)
	return a.Server.Run(ctx, a.Cfg.HTTPAddr)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	for _, fn := range a.shutdown {
		if fn == nil {
			continue
		}
		if err := fn(ctx); err != nil {
			a.Log.Warn("shutdown hook failed", "error", err)
		}
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	a.Log.Sync()
}
