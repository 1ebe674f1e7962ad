package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/tracker/api/handler"
	"github.com/fastygo/tracker/internal/config"
	"github.com/fastygo/tracker/internal/infrastructure/buffer"
	"github.com/fastygo/tracker/internal/infrastructure/cache"
	"github.com/fastygo/tracker/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/tracker/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/tracker/internal/infrastructure/redis"
	"github.com/fastygo/tracker/internal/middleware"
	"github.com/fastygo/tracker/internal/router"
	"github.com/fastygo/tracker/internal/services"
	"github.com/fastygo/tracker/internal/services/lifecycle"
	"github.com/fastygo/tracker/internal/versioning"
	"github.com/fastygo/tracker/pkg/httpcontext"
	"github.com/fastygo/tracker/pkg/logger"
	"github.com/fastygo/tracker/repository/docstore"
	"github.com/fastygo/tracker/repository/docstore/memstore"
	"github.com/fastygo/tracker/repository/docstore/mongostore"
	"github.com/fastygo/tracker/repository/document"
	"github.com/fastygo/tracker/usecase"
	articleUC "github.com/fastygo/tracker/usecase/article"
	categoryUC "github.com/fastygo/tracker/usecase/category"
	commentUC "github.com/fastygo/tracker/usecase/comment"
	issueUC "github.com/fastygo/tracker/usecase/issue"
	sampleUC "github.com/fastygo/tracker/usecase/sampledata"
	statusUC "github.com/fastygo/tracker/usecase/status"
	userUC "github.com/fastygo/tracker/usecase/user"
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

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger.Named("lifecycle"))
	appCtx, cancel := manager.Watch(context.Background())
	defer cancel()

	db, err := openStore(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("document store connection failed", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	manager.Add(lifecycle.StageStorage, "store", db.Close)

	readCache, cachePinger, err := openCache(appCtx, cfg, manager)
	if err != nil {
		zapLogger.Fatal("cache setup failed", zap.String("driver", cfg.Cache.Driver), zap.Error(err))
	}

	updaterOpts := []versioning.Option{versioning.WithLogger(zapLogger.Named("updater"))}
	if cfg.Store.StrictMissing {
		updaterOpts = append(updaterOpts, versioning.WithStrictMissing())
	}
	categoryRepo := document.NewCategoryRepository(db, updaterOpts...)
	statusRepo := document.NewStatusRepository(db, updaterOpts...)
	issueRepo := document.NewIssueRepository(db, updaterOpts...)
	commentRepo := document.NewCommentRepository(db, updaterOpts...)
	articleRepo := document.NewArticleRepository(db, updaterOpts...)
	userRepo := document.NewUserRepository(db, updaterOpts...)

	targets := monitor.Targets{Store: db, StoreDriver: db.Driver(), Cache: cachePinger}

	var bufferStore *buffer.Store
	if cfg.Buffer.Enabled {
		bufferStore, err = buffer.Open(cfg.Buffer.Path, "buffer")
		if err != nil {
			zapLogger.Fatal("failed to open buffer store", zap.Error(err))
		}
		manager.Add(lifecycle.StageStorage, "buffer", func(ctx context.Context) error {
			return bufferStore.Close()
		})
		targets.Buffer = bufferStore
	}

	mon := monitor.New(targets, cfg.Monitor.Interval, zapLogger.Named("monitor"))
	mon.Start()
	manager.Add(lifecycle.StageWorkers, "monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	dispatcher := usecase.NewDispatcher()
	var opBuffer usecase.OperationBuffer
	if bufferStore != nil {
		bufferProcessor := services.NewBufferProcessor(
			bufferStore,
			mon,
			dispatcher,
			zapLogger.Named("buffer"),
			services.ProcessorConfig{
				Interval:        cfg.Buffer.SyncInterval,
				CleanupInterval: cfg.Buffer.CleanupInterval,
				Retention:       cfg.Buffer.Retention,
				BatchSize:       cfg.Buffer.BatchSize,
				MaxRetries:      cfg.Buffer.MaxRetry,
			},
		)
		bufferProcessor.Start()
		manager.Add(lifecycle.StageWorkers, "buffer_processor", func(ctx context.Context) error {
			bufferProcessor.Stop(ctx)
			return nil
		})
		opBuffer = services.NewBufferBridge(bufferProcessor)
	}

	policy := usecase.CachePolicy{Short: cfg.Cache.ShortTTL, Long: cfg.Cache.LongTTL}
	categoryUseCase := categoryUC.New(categoryRepo, readCache, policy, zapLogger)
	statusUseCase := statusUC.New(statusRepo, readCache, policy, zapLogger)
	articleUseCase := articleUC.New(articleRepo, categoryRepo, readCache, policy, zapLogger)
	issueUseCase := issueUC.New(issueRepo, categoryRepo, statusRepo, opBuffer, readCache, policy, zapLogger)
	commentUseCase := commentUC.New(commentRepo, issueRepo, opBuffer, readCache, policy, zapLogger)
	userUseCase := userUC.New(userRepo, zapLogger)
	sampleUseCase := sampleUC.New(sampleUC.Repositories{
		Users:      userRepo,
		Categories: categoryRepo,
		Statuses:   statusRepo,
		Issues:     issueRepo,
		Comments:   commentRepo,
	}, readCache, zapLogger)

	dispatcher.Register(usecase.EntityIssue, usecase.OperationCreate, issueUseCase.ReplayCreate)
	dispatcher.Register(usecase.EntityComment, usecase.OperationCreate, commentUseCase.ReplayCreate)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
		Category: apiHandler.NewCategoryHandler(categoryUseCase, ctxAdapter, zapLogger),
		Article:  apiHandler.NewArticleHandler(articleUseCase, ctxAdapter, zapLogger),
		Issue:    apiHandler.NewIssueHandler(issueUseCase, categoryUseCase, ctxAdapter, zapLogger),
		Comment:  apiHandler.NewCommentHandler(commentUseCase, ctxAdapter, zapLogger),
		Status:   apiHandler.NewStatusHandler(statusUseCase, ctxAdapter, zapLogger),
		User:     apiHandler.NewUserHandler(userUseCase, ctxAdapter, zapLogger),
		Admin:    apiHandler.NewAdminHandler(sampleUseCase, ctxAdapter, zapLogger),
	}

	authMiddleware, err := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	if err != nil {
		zapLogger.Fatal("auth setup failed", zap.Error(err))
	}
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("store", cfg.Store.Driver),
			zap.String("cache", cfg.Cache.Driver))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Add(lifecycle.StageIngress, "http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()
	zapLogger.Info("shutting down", zap.NamedError("cause", context.Cause(appCtx)))

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (docstore.Database, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		return pgInfra.OpenStore(ctx, cfg, log)
	case config.StoreMemory:
		log.Warn("using in-memory document store; data is lost on restart")
		return memstore.New(), nil
	default:
		db, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, log)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureIndexes(ctx, document.Indexes); err != nil {
			_ = db.Close(ctx)
			return nil, err
		}
		return db, nil
	}
}

// openCache returns the read cache and, for redis, the pinger the monitor should watch.
func openCache(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager) (usecase.Cache, monitor.Pinger, error) {
	if cfg.Cache.Driver == config.CacheRedis {
		redisCache, client, err := redisInfra.NewCache(ctx, *cfg)
		if err != nil {
			return nil, nil, err
		}
		manager.Add(lifecycle.StageStorage, "redis", func(ctx context.Context) error {
			return client.Close()
		})
		return redisCache, redisCache, nil
	}
	return cache.NewMemory(0), nil, nil
}
