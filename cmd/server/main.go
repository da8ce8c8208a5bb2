package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/planora/backend/api/handler"
	"github.com/planora/backend/internal/config"
	geminiInfra "github.com/planora/backend/internal/infrastructure/gemini"
	"github.com/planora/backend/internal/infrastructure/monitor"
	pgInfra "github.com/planora/backend/internal/infrastructure/postgres"
	redisInfra "github.com/planora/backend/internal/infrastructure/redis"
	"github.com/planora/backend/internal/middleware"
	"github.com/planora/backend/internal/notify"
	"github.com/planora/backend/internal/router"
	"github.com/planora/backend/internal/scheduler"
	"github.com/planora/backend/internal/services"
	"github.com/planora/backend/internal/services/lifecycle"
	"github.com/planora/backend/pkg/httpcontext"
	"github.com/planora/backend/pkg/logger"
	"github.com/planora/backend/repository"
	boltRepo "github.com/planora/backend/repository/bolt"
	pgRepo "github.com/planora/backend/repository/postgres"
	redisRepo "github.com/planora/backend/repository/redis"
	authUC "github.com/planora/backend/usecase/auth"
	prefsUC "github.com/planora/backend/usecase/prefs"
	suggestUC "github.com/planora/backend/usecase/suggest"
	taskUC "github.com/planora/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	var (
		storage   monitor.Pinger
		snapshots repository.SnapshotRepository
		users     repository.UserRepository
		prefs     repository.PrefsRepository
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if cfg.Migrations.Enabled {
			if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
				zapLogger.Fatal("migrations failed", zap.Error(err))
			}
		}
		pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		storage = pool
		snapshots = pgRepo.NewSnapshotRepository(pool)
		users = pgRepo.NewUserRepository(pool)
		prefs = pgRepo.NewPrefsRepository(pool)

	default:
		store, err := boltRepo.Open(cfg.Storage.BoltPath)
		if err != nil {
			zapLogger.Fatal("failed to open bolt store", zap.Error(err))
		}
		manager.Register("bolt", func(ctx context.Context) error {
			return store.Close()
		})
		storage = store
		snapshots = boltRepo.NewSnapshotRepository(store)
		users = boltRepo.NewUserRepository(store)
		prefs = boltRepo.NewPrefsRepository(store)
	}

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	mon := monitor.New(storage, redisClient, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	hub := notify.NewHub(cfg.Reminders.HubBuffer, zapLogger)
	reminders := scheduler.New(cfg.Reminders.Lead, hub, zapLogger)
	manager.Register("reminders", func(ctx context.Context) error {
		reminders.Stop()
		return nil
	})

	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)

	taskUseCase := taskUC.New(snapshots, prefs, reminders, zapLogger)
	authUseCase := authUC.New(users, sessionRepo, snapshots, taskUseCase, authUC.Config{
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
		SessionTTL: cfg.JWT.SessionTTL,
	}, zapLogger)
	prefsUseCase := prefsUC.New(prefs, taskUseCase, zapLogger)

	gemini := geminiInfra.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Timeout)
	suggestUseCase := suggestUC.New(gemini, taskUseCase, sessionRepo, zapLogger)

	if cfg.Janitor.Enabled {
		janitor := services.NewJanitor(snapshots, users, zapLogger, services.JanitorConfig{
			Interval: cfg.Janitor.Interval,
		})
		janitor.Start()
		manager.Register("janitor", func(ctx context.Context) error {
			janitor.Stop(ctx)
			return nil
		})
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Task:      apiHandler.NewTaskHandler(taskUseCase, suggestUseCase, ctxAdapter, zapLogger),
		Prefs:     apiHandler.NewPrefsHandler(prefsUseCase, ctxAdapter, zapLogger),
		Reminders: apiHandler.NewRemindersHandler(hub, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.SessionAuth(authUseCase, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
