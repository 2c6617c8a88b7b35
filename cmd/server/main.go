package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"gstengine/internal/audit"
	"gstengine/internal/cache/noop"
	rediscache "gstengine/internal/cache/redis"
	"gstengine/internal/config"
	"gstengine/internal/handler"
	"gstengine/internal/port"
	"gstengine/internal/repository/postgres"
	"gstengine/internal/router"
	"gstengine/internal/service"
	s3storage "gstengine/internal/storage/s3"
	"gstengine/pkg/logger"
)

// @title           GST Engine API
// @version         1.0
// @description     Temporal GST rule resolution and tax calculation.
// @BasePath        /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLog, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = appLog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	classRepo := postgres.NewClassificationRepo(db)
	configRepo := postgres.NewTaxConfigurationRepo(db)
	rateRepo := postgres.NewTaxRateRepo(db)
	txm := postgres.NewTxManager(db)

	// Initialize cache
	cache, rdb, err := newCache(ctx, &cfg.Cache, appLog)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	// Initialize audit sink
	auditSink, err := newAuditSink(ctx, &cfg.Audit, db, appLog)
	if err != nil {
		return err
	}

	// Initialize services
	classificationSvc := service.NewClassificationService(classRepo, auditSink, appLog)
	taxSvc := service.NewTaxService(classRepo, configRepo, rateRepo, txm, cache, auditSink, port.SystemClock,
		service.TaxSettings{
			BusinessTypes:   cfg.Tax.BusinessTypes,
			BulkConcurrency: cfg.Tax.BulkConcurrency,
		}, appLog)

	// Initialize handlers
	classificationH := handler.NewClassificationHandler(classificationSvc)
	taxH := handler.NewTaxHandler(taxSvc)
	checks := []handler.ReadinessCheck{{Name: "database", Ping: db.PingContext}}
	if rdb != nil {
		checks = append(checks, handler.ReadinessCheck{
			Name: "cache",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}
	healthH := handler.NewHealthHandler(checks...)

	// Setup router
	r := router.Setup(appLog, cfg.CORS.AllowedOrigins, classificationH, taxH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Infow("server starting", "addr", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	appLog.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func newCache(ctx context.Context, cfg *config.CacheConfig, log *logger.Logger) (port.ConfigurationCache, *redis.Client, error) {
	if !cfg.Enabled {
		log.Infow("resolution cache disabled")
		return noop.NewConfigurationCache(), nil, nil
	}
	cache, rdb, err := rediscache.NewConfigurationCache(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize redis cache: %w", err)
	}
	log.Infow("resolution cache enabled", "addr", cfg.Addr, "ttl", cfg.TTL)
	return cache, rdb, nil
}

func newAuditSink(ctx context.Context, cfg *config.AuditConfig, db *sqlx.DB, log *logger.Logger) (port.AuditSink, error) {
	switch cfg.Sink {
	case "postgres", "":
		return postgres.NewAuditEventRepo(db), nil
	case "s3":
		store, err := s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		return audit.NewObjectSink(store, cfg.S3.Bucket, cfg.S3.Prefix), nil
	case "noop":
		return audit.NewLogSink(log), nil
	default:
		return nil, fmt.Errorf("unknown audit sink %q", cfg.Sink)
	}
}
