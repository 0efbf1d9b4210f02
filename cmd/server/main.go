package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsync "github.com/fulfillsync/backend/internal/application/sync"
	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/tenant"
	"github.com/fulfillsync/backend/internal/infrastructure/cache"
	"github.com/fulfillsync/backend/internal/infrastructure/commerce"
	"github.com/fulfillsync/backend/internal/infrastructure/config"
	"github.com/fulfillsync/backend/internal/infrastructure/localstore"
	"github.com/fulfillsync/backend/internal/infrastructure/logger"
	"github.com/fulfillsync/backend/internal/infrastructure/scheduler"
	"github.com/fulfillsync/backend/internal/infrastructure/transfer"
	"github.com/fulfillsync/backend/internal/interfaces/http/handler"
	"github.com/fulfillsync/backend/internal/interfaces/http/middleware"
	"github.com/fulfillsync/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FulfillSync Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tenant registry
	registry, err := tenant.NewRegistry(tenantConfigs(cfg))
	if err != nil {
		log.Fatal("Invalid tenant configuration", zap.Error(err))
	}
	log.Info("Tenants loaded", zap.Strings("tenants", registry.Keys()))

	// Commerce platform adapter
	platform, err := commerce.NewShopifyAdapterFromRegistry(registry)
	if err != nil {
		log.Fatal("Invalid storefront configuration", zap.Error(err))
	}

	// 3PL transfer gateway with retries on transient failures
	sftpGateway, err := transfer.NewSFTPGateway(&transfer.Config{
		Addr:        cfg.SFTP.Addr(),
		User:        cfg.SFTP.User,
		Password:    cfg.SFTP.Password,
		DialTimeout: cfg.SFTP.DialTimeout,
		InboxDir:    cfg.SFTP.InboxDir,
		OutboxDir:   cfg.SFTP.OutboxDir,
		ArchiveDir:  cfg.SFTP.ArchiveDir,
	}, log)
	if err != nil {
		log.Fatal("Invalid SFTP configuration", zap.Error(err))
	}
	gateway := transfer.NewRetryingGateway(sftpGateway, cfg.SFTP.RetryAttempts, cfg.SFTP.RetryDelay, log)
	defer func() {
		if err := gateway.Close(); err != nil {
			log.Error("Error closing transfer gateway", zap.Error(err))
		}
	}()

	// Local working directories
	files := localstore.New(cfg.Paths.OutgoingDir, cfg.Paths.IncomingDir, cfg.Paths.BackupsDir)

	// Optional completion ledger
	ledger := newLedger(cfg, log)
	if ledger != nil {
		defer func() {
			if err := ledger.Close(); err != nil {
				log.Error("Error closing completion ledger", zap.Error(err))
			}
		}()
	}

	// Sync pipelines
	exportService := appsync.NewOrderExportService(platform, gateway, files, registry, log)
	importService := appsync.NewReportImportService(platform, gateway, files, registry, ledger, appsync.ReportConfig{
		OutboxDir:     cfg.SFTP.OutboxDir,
		ArchiveDir:    cfg.SFTP.ArchiveDir,
		RecordTimeout: cfg.Sync.RecordTimeout,
		FileTimeout:   cfg.Sync.FileTimeout,
		LedgerTTL:     cfg.Ledger.TTL,
	}, log)

	// Scheduled runs
	trigger := scheduler.NewSyncTrigger(scheduler.SyncTriggerConfig{
		ExportEnabled:  cfg.Sync.ExportEnabled,
		ExportInterval: cfg.Sync.ExportInterval,
		ImportEnabled:  cfg.Sync.ImportEnabled,
		ImportInterval: cfg.Sync.ImportInterval,
	}, exportService, importService, log)
	if err := trigger.Start(context.Background()); err != nil {
		log.Fatal("Failed to start sync trigger", zap.Error(err))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	// Health check endpoint (outside API versioning and authentication)
	engine.GET("/health", healthHandler(cfg, registry))

	// API routes behind the shared key
	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithMiddleware(middleware.APIKeyAuth(cfg.API.Key)),
	)
	r.Register(handler.NewSyncHandler(exportService, importService, log))
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := trigger.Stop(ctx); err != nil {
		log.Error("Sync trigger did not stop cleanly", zap.Error(err))
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// tenantConfigs maps the configuration file's tenant entries onto the domain
func tenantConfigs(cfg *config.Config) []tenant.Config {
	out := make([]tenant.Config, 0, len(cfg.Tenants))
	for _, t := range cfg.Tenants {
		out = append(out, tenant.Config{
			Key:        t.Key,
			Name:       t.Name,
			Prefix:     t.Prefix,
			ShopName:   t.ShopName,
			APIKey:     t.APIKey,
			APISecret:  t.APISecret,
			APIVersion: t.APIVersion,
			WebhookURL: t.WebhookURL,
		})
	}
	return out
}

// newLedger builds the configured completion ledger, or returns nil when the
// ledger is disabled and every report record is applied at-least-once
func newLedger(cfg *config.Config, log *zap.Logger) fulfillment.CompletionLedger {
	if !cfg.Ledger.Enabled {
		log.Info("Completion ledger disabled")
		return nil
	}

	switch cfg.Ledger.Backend {
	case "redis":
		ledger, err := cache.NewRedisLedger(cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Info("Completion ledger enabled", zap.String("backend", "redis"))
		return ledger
	default:
		log.Info("Completion ledger enabled", zap.String("backend", "memory"))
		return cache.NewInMemoryLedger()
	}
}

// healthHandler returns a handler for health check endpoints
func healthHandler(cfg *config.Config, registry *tenant.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"app":     cfg.App.Name,
			"env":     cfg.App.Env,
			"tenants": len(registry.Keys()),
			"time":    time.Now().Format(time.RFC3339),
		})
	}
}
