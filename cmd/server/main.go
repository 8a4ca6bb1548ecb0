package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/segyhp/credit-engine/internal/config"
	"github.com/segyhp/credit-engine/internal/exporter"
	"github.com/segyhp/credit-engine/internal/handler"
	"github.com/segyhp/credit-engine/internal/logger"
	"github.com/segyhp/credit-engine/internal/metrics"
	"github.com/segyhp/credit-engine/internal/repository"
	"github.com/segyhp/credit-engine/internal/service"
	"github.com/segyhp/credit-engine/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()
	cache := repository.NewRedisCache(redisClient)

	// Initialize repositories
	productRepo := repository.NewCachedProductRepository(
		repository.NewProductRepository(db),
		cache,
		cfg.Cache.CatalogTTL,
		zapLogger.Named("catalog"),
	)
	archive := exporter.NewArchive(cache, cfg.Cache.ComparisonTTL)
	collector := metrics.New(nil)

	// Initialize service
	creditService := service.NewCreditService(productRepo, archive, collector, zapLogger.Named("service"), cfg)
	creditHandler := handler.NewCreditHandler(creditService, zapLogger.Named("http"))
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": handler.PingFunc(db.PingContext),
		"redis":    handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
	}, cfg.Health.Timeout)

	// Warm the catalogue cache; a failure only means the first reads go to Postgres.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), cfg.Health.Timeout)
	if n, err := creditService.RefreshCatalog(warmCtx); err != nil {
		zapLogger.Warn("Catalogue warm-up failed", zap.Error(err))
	} else {
		zapLogger.Info("Catalogue warmed", zap.Int("products", n))
	}
	warmCancel()

	// Setup routes
	router := setupRoutes(creditHandler, healthHandler, collector, zapLogger)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      response.CORSMiddleware(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("Server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Server.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	zapLogger.Info("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(creditHandler *handler.CreditHandler, healthHandler *handler.HealthHandler, collector *metrics.Collector, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "route "+r.URL.Path+" not found")
	})
	router.Use(response.RequestIDMiddleware, response.LoggingMiddleware(logger), collector.Middleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API routes
	creditHandler.Register(router.PathPrefix("/api/v1").Subrouter())

	return router
}
