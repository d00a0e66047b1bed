package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appdeal "github.com/nestapp/backend/internal/application/deal"
	"github.com/nestapp/backend/internal/application/directory"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/infrastructure/auth"
	"github.com/nestapp/backend/internal/infrastructure/cache"
	"github.com/nestapp/backend/internal/infrastructure/config"
	"github.com/nestapp/backend/internal/infrastructure/event"
	"github.com/nestapp/backend/internal/infrastructure/logger"
	"github.com/nestapp/backend/internal/infrastructure/persistence"
	"github.com/nestapp/backend/internal/infrastructure/printing"
	"github.com/nestapp/backend/internal/infrastructure/storage"
	"github.com/nestapp/backend/internal/infrastructure/telemetry"
	"github.com/nestapp/backend/internal/interfaces/http/handler"
	"github.com/nestapp/backend/internal/interfaces/http/middleware"
	"github.com/nestapp/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	_ "github.com/nestapp/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const version = "1.0.0"

//	@title			NestApp Deal Journey API
//	@version		1.0
//	@description	Deal journey engine for NestApp serviced apartments. Every action runs on the WEB or WHATSAPP channel and is audited.

//	@contact.name	NestApp Engineering

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	tel, err := telemetry.Setup(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log := tel.Logs.Tee(baseLog)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
		_ = log.Sync()
	}()

	log.Info("Starting NestApp API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	if cfg.Database.Driver == config.DriverSQLite {
		// Postgres schemas come from cmd/migrate
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	log.Info("Database connected")

	fileStore, err := storage.NewFileStore(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	renderer, err := printing.NewRenderer(cfg.Printing, log)
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	producer := printing.NewProducer(printing.NewTemplateEngine(), renderer, fileStore,
		printing.WithProducerLogger(log),
	)

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	idemConfig := shared.IdempotencyConfig{Enabled: cfg.Idempotency.Enabled, TTL: cfg.Idempotency.TTL}

	eventBus := event.NewInMemoryEventBus(log)
	invoiceHandler := appdeal.NewInvoiceRequestedHandler(persistence.NewGormSettingsRepository(db.DB), log)
	eventBus.Subscribe(event.NewIdempotentHandler(invoiceHandler, idempotencyStore, log,
		event.WithIdempotencyConfig(idemConfig),
	))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()
	log.Info("Event handlers registered", zap.Strings("invoice_requested_events", invoiceHandler.EventTypes()))

	journeyMetrics, err := telemetry.NewJourneyMetrics(otel.GetMeterProvider())
	if err != nil {
		log.Fatal("Failed to create journey metrics", zap.Error(err))
	}

	txScope := persistence.NewGormTransactionScope(db.DB)
	dealService := appdeal.NewDealService(txScope, deal.NewStepResolver(deal.NewJourneyRegistry()), producer, fileStore,
		appdeal.WithIdempotencyStore(idempotencyStore, idemConfig),
		appdeal.WithEventPublisher(eventBus),
		appdeal.WithActionRecorder(journeyMetrics),
		appdeal.WithLogger(log),
	)
	directoryService := directory.NewService(txScope, log)
	tokens := auth.NewTokenService(cfg.Auth)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(otel.GetMeterProvider().Meter("nest-http"))
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORS(middleware.CORSConfigFrom(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Timeout(cfg.HTTP.RequestTimeout),
		middleware.Tracing(middleware.TracingConfig{ServiceName: cfg.Telemetry.ServiceName, Enabled: cfg.Telemetry.Enabled}),
		middleware.SpanErrorMarker(),
		httpMetrics,
	)

	healthHandler := handler.NewHealthHandler(db, version)
	engine.GET("/health", healthHandler.Health)

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	webhookGuards := []gin.HandlerFunc{middleware.RequireServiceToken(tokens, log)}
	if !cfg.HTTP.RateLimitDisabled {
		webhookLimiter, err := middleware.NewMemoryLimiter(cfg.HTTP.WebhookRateLimit)
		if err != nil {
			log.Fatal("Invalid webhook rate limit", zap.Error(err))
		}
		webhookGuards = append(webhookGuards, middleware.RateLimit(webhookLimiter))
	}
	webhookGuards = append(webhookGuards, middleware.TracingAttributeInjector())

	// Bot webhook: service token only, no JWT identity
	router.NewRouter(engine).
		Register(handler.WebhookRoutes(handler.NewWebhookHandler(dealService), webhookGuards...)).
		Setup()

	api := router.NewRouter(engine, router.WithMiddleware(
		middleware.Identity(middleware.IdentityConfig{Tokens: tokens, Required: cfg.Auth.Enabled, Logger: log}),
		middleware.TracingAttributeInjector(),
		middleware.Profiling(cfg.Telemetry.ProfilingEnabled),
	))
	api.Register(handler.DealRoutes(handler.NewDealHandler(dealService)))
	for _, g := range handler.DirectoryRoutes(handler.NewDirectoryHandler(directoryService)) {
		api.Register(g)
	}
	api.Register(handler.SystemRoutes(healthHandler))
	api.Setup()

	for _, route := range api.Routes() {
		log.Debug("Route registered", zap.String("method", route.Method), zap.String("path", route.Path), zap.String("group", route.Group))
	}

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}
