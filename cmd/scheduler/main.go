package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/segyhp/credit-engine/internal/config"
	"github.com/segyhp/credit-engine/internal/logger"
	"github.com/segyhp/credit-engine/internal/repository"
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
	zapLogger.Info("Starting catalogue scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	catalog := repository.NewCachedProductRepository(
		repository.NewProductRepository(db),
		repository.NewRedisCache(redisClient),
		cfg.Cache.CatalogTTL,
		zapLogger.Named("catalog"),
	)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		zapLogger.Warn("Unknown scheduler timezone, using UTC", zap.String("timezone", cfg.Scheduler.Timezone), zap.Error(err))
		location = time.UTC
	}

	// Initialize cron scheduler
	cronLogger := logger.Cron(zapLogger.Named("cron"))
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(location),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	// Schedule tasks
	if err := setupCronJobs(c, cfg, catalog, zapLogger); err != nil {
		zapLogger.Fatal("Error scheduling jobs", zap.Error(err))
	}

	// Start the scheduler
	c.Start()
	zapLogger.Info("Scheduler started successfully", zap.String("catalog_refresh", cfg.Scheduler.CatalogRefreshSpec))

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	zapLogger.Info("Scheduler stopped")
}

type catalogRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, catalog catalogRefresher, zapLogger *zap.Logger) error {
	job := refreshCatalogJob(catalog, cfg.Health.Timeout, zapLogger)

	if _, err := c.AddFunc(cfg.Scheduler.CatalogRefreshSpec, job); err != nil {
		return err
	}

	// Run once at startup so the cache is warm before the first tick.
	go job()
	return nil
}

func refreshCatalogJob(catalog catalogRefresher, timeout time.Duration, zapLogger *zap.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		n, err := catalog.Refresh(ctx)
		if err != nil {
			zapLogger.Error("Catalogue refresh failed", zap.Error(err))
			return
		}
		zapLogger.Info("Catalogue refreshed", zap.Int("products", n), zap.Duration("took", time.Since(start)))
	}
}
