package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slingshot_backend/internal/events"
	invoicerepo "slingshot_backend/internal/invoices/repository"
	invoiceservice "slingshot_backend/internal/invoices/service"
	"slingshot_backend/internal/scheduler"
	tenancyrepo "slingshot_backend/internal/tenancy/repository"
	"slingshot_backend/platform/config"
	"slingshot_backend/platform/db"
	"slingshot_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	invoiceSvc := invoiceservice.New(invoicerepo.New(pool), eventBus, log)
	tenancyRepo := tenancyrepo.New(pool)

	dispatcher, err := scheduler.NewMaintenanceDispatcher(cfg, sweepInterval(), log)
	if err != nil {
		log.Error("failed to initialize maintenance dispatcher", "error", err)
		panic("failed to initialize maintenance dispatcher: " + err.Error())
	}
	defer func() { _ = dispatcher.Close() }()
	go dispatcher.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, invoiceSvc, tenancyRepo, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func sweepInterval() time.Duration {
	raw := os.Getenv("MAINTENANCE_SWEEP_INTERVAL")
	if raw == "" {
		return time.Hour
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return time.Hour
	}
	return parsed
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
