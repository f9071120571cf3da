package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	ingestapp "github.com/gwak2837/shabangnet-sub001/internal/application/ingest"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/cache"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/config"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/logger"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/persistence"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/storage"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/telemetry"
	"github.com/gwak2837/shabangnet-sub001/internal/interfaces/http/handler"
	"github.com/gwak2837/shabangnet-sub001/internal/interfaces/http/middleware"
	"github.com/gwak2837/shabangnet-sub001/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting order ingestion service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing
	tracerCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		DBTraceEnabled:    cfg.Telemetry.DBTraceEnabled,
	}
	tp, err := telemetry.NewTracerProvider(context.Background(), tracerCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, tracerCfg, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Object storage for generated workbooks
	objectStorage, err := storage.New(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Template cache; the service degrades to storage reads without it
	var templateCache ingestapp.TemplateCache
	redisCache, err := cache.NewRedisTemplateCache(&cfg.Redis, cache.WithCacheLogger(log))
	if err != nil {
		log.Warn("Redis unavailable, template caching disabled", zap.Error(err))
	} else {
		templateCache = redisCache
		defer func() {
			_ = redisCache.Close()
		}()
	}

	// Repositories
	manufacturerRepo := persistence.NewGormManufacturerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	optionMappingRepo := persistence.NewGormOptionMappingRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	uploadRepo := persistence.NewGormUploadRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	exclusionRepo := persistence.NewGormExclusionPatternRepository(db.DB)
	bulkStore := persistence.NewGormIngestStore(db, cfg.Ingest.InsertChunkSize, cfg.Ingest.UpdateChunkSize, log)

	// Services
	templateService := ingestapp.NewTemplateService(templateRepo, templateCache, log)
	ingestService := ingestapp.NewIngestService(
		uploadRepo,
		templateService,
		manufacturerRepo,
		productRepo,
		optionMappingRepo,
		exclusionRepo,
		bulkStore,
		objectStorage,
		cfg.Ingest,
		log,
	)
	uploadService := ingestapp.NewUploadService(uploadRepo, objectStorage, cfg.Storage.PresignExpiration)
	linkingService := ingestapp.NewLinkingService(optionMappingRepo, manufacturerRepo, orderRepo, log)
	manufacturerService := ingestapp.NewManufacturerService(manufacturerRepo)
	exclusionService := ingestapp.NewExclusionService(exclusionRepo)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TraceRequestID())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))
	// Multipart uploads carry the workbook plus form overhead
	engine.Use(middleware.BodyLimit(cfg.Ingest.MaxFileSize + 1<<20))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewHealthHandler(db))
	r.Register(handler.NewIngestHandler(ingestService))
	r.Register(handler.NewUploadHandler(uploadService))
	r.Register(handler.NewTemplateHandler(templateService))
	r.Register(handler.NewManufacturerHandler(manufacturerService))
	r.Register(handler.NewMappingHandler(linkingService))
	r.Register(handler.NewExclusionHandler(exclusionService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
