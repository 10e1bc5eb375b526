package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"realestate3d/internal/core/auth"
	"realestate3d/internal/core/config"
	"realestate3d/internal/core/database"
	"realestate3d/internal/core/redisdb"
	"realestate3d/internal/core/storage"
	"realestate3d/internal/repo"
	"realestate3d/internal/service"
	"realestate3d/internal/transport/http/handler"
	"realestate3d/internal/transport/http/router"
)

// App 两个进程共用的依赖装配
type App struct {
	Cfg *config.Config
	Log *zap.Logger
	DB  *gorm.DB
	JWT *auth.JWTer

	Assets storage.AssetStore
	// MediaRoot 本地存储时的目录，MinIO 时为空
	MediaRoot string

	Identity   *service.Identity
	Catalog    *service.Catalog
	Preference *service.Preference
	Bookings   *service.Bookings

	closers []func()
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{Cfg: cfg, Log: log}
	if err := a.init(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Cfg

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	}, a.Log)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	a.Log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("automigrate: %w", err)
		}
		a.Log.Info("automigrate done")
	}

	refresh, err := a.refreshStore(ctx)
	if err != nil {
		return err
	}
	a.JWT = &auth.JWTer{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		TTL:        time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshTokenTTLHrs) * time.Hour,
		Store:      refresh,
	}

	if err := a.assetStore(ctx); err != nil {
		return err
	}

	users := repo.NewUserRepo(db)
	props := repo.NewPropertyRepo(db)
	a.Identity = service.NewIdentity(users, a.JWT, a.Assets, a.Log)
	a.Catalog = service.NewCatalog(props, a.Assets, a.Log)
	a.Preference = service.NewPreference(users, repo.NewLikeRepo(db))
	a.Bookings = service.NewBookings(users, props, repo.NewBookingRepo(db), a.Assets, a.Log)
	return nil
}

// refreshStore 配了 redis 用 redis，否则退回进程内存（单实例）
func (a *App) refreshStore(ctx context.Context) (auth.RefreshStore, error) {
	rc := a.Cfg.Redis
	if rc.Addr == "" {
		a.Log.Warn("redis not configured, refresh tokens kept in memory")
		return auth.NewMemoryRefreshStore(), nil
	}
	rdb, err := redisdb.New(ctx, rc.Addr, rc.Password, rc.DB)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = rdb.Close() })
	a.Log.Info("redis connected", zap.String("addr", rc.Addr))
	return auth.NewRedisRefreshStore(rdb), nil
}

func (a *App) assetStore(ctx context.Context) error {
	sc := a.Cfg.Storage
	switch sc.Driver {
	case "minio":
		m := sc.Minio
		store, err := storage.NewMinioStore(ctx, m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, m.UseSSL,
			time.Duration(sc.PresignExpiryMin)*time.Minute)
		if err != nil {
			return fmt.Errorf("init minio: %w", err)
		}
		a.Assets = store
	case "", "local":
		store, err := storage.NewLocalStore(sc.BasePath)
		if err != nil {
			return err
		}
		a.Assets, a.MediaRoot = store, store.Root()
	default:
		return fmt.Errorf("unsupported storage driver %q", sc.Driver)
	}
	a.Log.Info("asset storage ready", zap.String("driver", sc.Driver))
	return nil
}

func (a *App) engineOptions() router.Options {
	lim := a.Cfg.App.Limits
	return router.Options{
		CORSOrigins: a.Cfg.App.CORSOrigins,
		MediaRoot:   a.MediaRoot,
		RPS:         lim.PerIPRPS,
		Burst:       lim.PerIPBurst,
		GlobalRPS:   lim.GlobalRPS,
		GlobalBurst: lim.GlobalBurst,
	}
}

func (a *App) APIEngine() *gin.Engine {
	return router.NewAPIEngine(a.Log, a.APIRegistry(), a.engineOptions())
}

func (a *App) AdminEngine() *gin.Engine {
	return router.NewAdminEngine(a.Log, a.AdminRegistry(), a.JWT, a.engineOptions())
}

// APIRegistry 用户端模块
func (a *App) APIRegistry() *router.Registry {
	return router.NewRegistry(
		handler.NewAuthHandler(a.Identity, a.Log),
		handler.NewLikeHandler(a.Preference, a.Log),
		handler.NewPropertyHandler(a.Catalog, a.Log),
		handler.NewBookingHandler(a.Bookings, a.Log),
	)
}

func (a *App) AdminRegistry() *router.Registry {
	return router.NewRegistry(handler.NewAdminHandler(a.Identity, a.Catalog, a.Bookings, a.Log))
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
