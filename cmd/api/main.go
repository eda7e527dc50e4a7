package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slingshot_backend/internal/adapters/storage"
	"slingshot_backend/internal/auth"
	"slingshot_backend/internal/clients"
	"slingshot_backend/internal/email"
	"slingshot_backend/internal/events"
	apphttp "slingshot_backend/internal/http"
	"slingshot_backend/internal/http/router"
	"slingshot_backend/internal/invoices"
	"slingshot_backend/internal/leads"
	"slingshot_backend/internal/notification"
	"slingshot_backend/internal/projects"
	"slingshot_backend/internal/tasks"
	"slingshot_backend/internal/tenancy"
	"slingshot_backend/internal/tenancy/scope"
	"slingshot_backend/platform/config"
	"slingshot_backend/platform/db"
	"slingshot_backend/platform/logger"
	"slingshot_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender := email.NewSender(cfg)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for business logo uploads (MinIO)
	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		svc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure logo bucket", 5, 2*time.Second, func() error {
			return svc.EnsureBucketExists(ctx, cfg.GetMinioBucketBusinessLogos())
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		storageSvc = svc
		log.Info("storage service initialized", "logoBucket", cfg.GetMinioBucketBusinessLogos())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; logo uploads disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notification.NewModule(eventBus, sender, cfg, log)

	authModule := auth.NewModule(pool, cfg, eventBus, val)
	tenancyModule := tenancy.NewModule(pool, cfg, eventBus, authModule.Users(), storageSvc, val, log)

	// Business-scoped modules share the tenant scoping middleware, which
	// resolves the caller's visible businesses and injects the active one.
	scoped := scope.Middleware(tenancyModule.Sessions())

	leadsModule := leads.NewModule(pool, val, scoped)
	clientsModule := clients.NewModule(pool, val, scoped)
	projectsModule := projects.NewModule(pool, val, scoped)
	tasksModule := tasks.NewModule(pool, val, scoped)
	invoicesModule := invoices.NewModule(pool, eventBus, val, log, scoped)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			tenancyModule,
			leadsModule,
			clientsModule,
			projectsModule,
			tasksModule,
			invoicesModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
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
