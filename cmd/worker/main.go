package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/estilosboom/boom-backend/internal/mailer"
	"github.com/estilosboom/boom-backend/pkg/config"
	"github.com/estilosboom/boom-backend/pkg/db"
	"github.com/estilosboom/boom-backend/pkg/jobs"
	"github.com/estilosboom/boom-backend/pkg/logger"
	"github.com/estilosboom/boom-backend/pkg/mail"
	"github.com/estilosboom/boom-backend/pkg/metrics"
	"github.com/estilosboom/boom-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	sender, err := mail.New(cfg.SMTP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap mail transport", err)
		os.Exit(1)
	}

	jobsRepo, err := jobs.NewRepository(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create jobs repository", err)
		os.Exit(1)
	}

	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)
	worker, err := jobs.NewWorker(jobs.WorkerParams{
		Config:     cfg.Queue,
		Logger:     logg,
		DB:         dbClient,
		Repository: jobsRepo,
		Metrics:    jobMetrics,
		Queue:      jobs.QueueForgotPassword,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create queue worker", err)
		os.Exit(1)
	}

	processors, err := mailer.NewProcessors(mailer.ProcessorsParams{
		Sender: sender,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create mail processors", err)
		os.Exit(1)
	}
	if err := processors.RegisterHandlers(worker); err != nil {
		logg.Error(context.Background(), "failed to register job handlers", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":   cfg.App.Env,
		"queue": jobs.QueueForgotPassword,
	})

	metricsServer := startMetricsServer(ctx, cfg.Queue.MetricsPort, logg)
	defer func() {
		if err := metricsServer.Shutdown(context.Background()); err != nil {
			logg.Error(context.Background(), "error closing metrics server", err)
		}
	}()

	logg.Info(ctx, "starting queue worker")

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "queue worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "queue worker shutting down gracefully")
}

func startMetricsServer(ctx context.Context, port string, logg *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server stopped unexpectedly", err)
		}
	}()
	return server
}
