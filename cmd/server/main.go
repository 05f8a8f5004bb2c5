package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpadapter "resume-builder/internal/adapter/http"
	"resume-builder/internal/adapter/http/middleware"
	repo "resume-builder/internal/adapter/repository"
	"resume-builder/internal/config"
	"resume-builder/internal/identity"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/storage"
	"resume-builder/internal/telemetry"
	"resume-builder/internal/usecase"
	"resume-builder/pkg/backend"
	infra "resume-builder/pkg/infrastructure"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v4/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, "resume-builder")
	if err != nil {
		fatal("failed to init tracing", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := usecase.NewMetrics(reg)
	if err != nil {
		fatal("failed to register metrics", err)
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal("failed to register http metrics", err)
	}

	archive, err := newArchive(cfg.Archive)
	if err != nil {
		fatal("failed to init archive storage", err)
	}

	var (
		persister usecase.Persister
		loader    usecase.Loader
		pool      *pgxpool.Pool
	)
	switch cfg.Persist.Backend {
	case "http":
		persister = backend.NewClient(cfg.Persist.URL, cfg.Persist.Timeout(), backend.Payload(cfg.Persist.Payload))
	case "postgres":
		pool, err = infra.NewPool(ctx, cfg.Persist.DatabaseURL)
		if err != nil {
			fatal("failed to connect to database", err)
		}
		defer pool.Close()
		if err := migration.RunMigrations(ctx, pool); err != nil {
			fatal("failed to run migrations", err)
		}
		resumes := repo.NewResumesRepo(pool)
		persister, loader = resumes, resumes
	case "none", "":
	default:
		slog.Warn("unknown persist backend, saving locally only", "backend", cfg.Persist.Backend)
	}
	slog.Info("persistence configured", "backend", cfg.Persist.Backend, "archive", cfg.Archive.Backend)

	capturer := infra.NewChromedpCapturer(cfg.Export.ChromePath, cfg.Export.Timeout())
	defer capturer.Close()

	exporter := usecase.NewExporter(capturer, usecase.ExportOptions{
		Scale:       cfg.Export.Scale,
		JPEGQuality: cfg.Export.JPEGQuality,
		Page:        usecase.ParsePageSize(cfg.Export.PageSize),
		MaxPixels:   cfg.Export.MaxPixels,
		Timeout:     cfg.Export.Timeout(),
	}, archive, metrics)

	library := usecase.NewLibrary(loader)
	sessions := usecase.NewSessions(library, persister, metrics)
	go sessions.RunSweeper(ctx, cfg.SessionIdle(), time.Minute)

	app := fiber.New(fiber.Config{
		ErrorHandler: httpadapter.ErrorHandler(),
		BodyLimit:    8 << 20,
		ReadTimeout:  30 * time.Second,
	})
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(slog.Default()))
	app.Use(promMiddleware.Handler())

	httpadapter.NewHandler(sessions, library, exporter, identity.NewMemoryProvider(), reg).Register(app)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			fatal("server failed", err)
		}
	}()
	slog.Info("server started", "port", cfg.Port)

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("tracing shutdown failed", "error", err)
	}
}

func newArchive(cfg config.ArchiveConfig) (storage.Storage, error) {
	switch strings.ToLower(cfg.Backend) {
	case "fs":
		return storage.NewFS(cfg.Dir)
	case "minio":
		return storage.NewMinIO(cfg.MinIO)
	default:
		return nil, nil
	}
}

func logLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
