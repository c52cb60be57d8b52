package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"weshare/internal/config"
	"weshare/internal/database"
	"weshare/internal/database/migration"
	"weshare/internal/event"
	handlers "weshare/internal/http/handler"
	"weshare/internal/http/middleware"
	"weshare/internal/messaging"
	"weshare/internal/oauth"
	tracing "weshare/internal/otel"
	"weshare/internal/repository/postgres"
	"weshare/internal/scheduler"
	"weshare/internal/service"
	"weshare/internal/storage"
	"weshare/internal/token"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, logger)
	if err != nil {
		return err
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		return err
	}

	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// profile image upload is unavailable without object storage
	var objStore storage.Storage
	if cfg.MinIO.Endpoint != "" {
		objStore, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("object storage not configured, profile image upload disabled")
	}

	jwtSvc, err := token.NewService(cfg.JWT)
	if err != nil {
		return err
	}

	bus := event.NewBus(logger)
	tx := postgres.NewTransactor(db)

	users := postgres.NewUserPostgres(db)
	refreshTokens := postgres.NewRefreshTokenPostgres(db)
	schedules := postgres.NewSchedulePostgres(db)
	comments := postgres.NewCommentPostgres(db)
	likes := postgres.NewLikePostgres(db)
	stats := postgres.NewStatisticsPostgres(db)

	authSvc := service.NewAuthService(users, refreshTokens, tx, jwtSvc, token.NewRedisLogoutStore(rdb), bus)
	providers := oauth.Providers(cfg.OAuth, oauth.NewHTTPClient())
	statsSvc := service.NewStatisticsService(stats, schedules, tx)
	statsSvc.Register(bus)

	if cfg.NATSURL != "" {
		nc, err := messaging.Connect(cfg.NATSURL, logger)
		if err != nil {
			return err
		}
		defer nc.Drain()
		messaging.NewBridge(nc, logger).Register(bus)
	}

	jobs := scheduler.New(loc, logger)
	if err := scheduler.RegisterMaintenance(jobs, cfg.Scheduler, statsSvc, authSvc); err != nil {
		return err
	}
	jobs.Start()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    10 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.LoggerWithWriter(os.Stdout, loc))
	app.Use(prom.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, handlers.Services{
		Auth:          authSvc,
		ExternalLogin: service.NewExternalLoginService(providers, users, refreshTokens, tx, jwtSvc, bus),
		Users:         service.NewUserService(users, objStore),
		Schedules:     service.NewScheduleService(schedules, tx, bus),
		ScheduleQuery: service.NewScheduleQueryService(schedules, users, likes, stats, bus),
		Comments:      service.NewCommentService(comments, schedules, tx, bus),
		Likes:         service.NewLikeService(likes, schedules, comments, users, tx, bus, loc),
	}, handlers.RouteOptions{
		Cookie:       handlers.RefreshCookie{CookieConfig: cfg.Cookie, TTL: jwtSvc.RefreshTTL()},
		LoginLimiter: middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, prom).Handler(),
		AuthEvents:   prom,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", ":"+cfg.Port, "oauth_providers", len(providers))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	jobs.Stop(shutdownCtx)
	// after-commit handlers still hold work for requests that already returned
	bus.Wait()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown failed", "error", err)
	}

	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return serveErr
	}
	return nil
}
