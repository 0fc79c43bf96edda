package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/estilosboom/boom-backend/api/routes"
	clientsvc "github.com/estilosboom/boom-backend/internal/clients"
	identitysvc "github.com/estilosboom/boom-backend/internal/identity"
	productsvc "github.com/estilosboom/boom-backend/internal/products"
	"github.com/estilosboom/boom-backend/pkg/config"
	"github.com/estilosboom/boom-backend/pkg/db"
	"github.com/estilosboom/boom-backend/pkg/identity"
	"github.com/estilosboom/boom-backend/pkg/jobs"
	"github.com/estilosboom/boom-backend/pkg/logger"
	"github.com/estilosboom/boom-backend/pkg/migrate"
	"github.com/estilosboom/boom-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	defer func() {
		closeErr := multierr.Append(dbClient.Close(), redisClient.Close())
		if closeErr != nil {
			logg.Error(context.Background(), "error closing clients", closeErr)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	provider, err := identity.New(context.Background(), cfg.Firebase, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap identity provider", err)
		os.Exit(1)
	}

	jobsRepo, err := jobs.NewRepository(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create jobs repository", err)
		os.Exit(1)
	}
	dispatcher, err := jobs.NewDispatcher(jobs.DispatcherParams{
		Config:     cfg.Queue,
		Logger:     logg,
		Repository: jobsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create job dispatcher", err)
		os.Exit(1)
	}

	clientService, err := clientsvc.NewService(clientsvc.ServiceParams{
		TxRunner:   dbClient,
		Identity:   provider,
		Dispatcher: dispatcher,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create client service", err)
		os.Exit(1)
	}

	identityService, err := identitysvc.NewService(identitysvc.ServiceParams{
		TxRunner: dbClient,
		Provider: provider,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productsvc.ServiceParams{
		TxRunner: dbClient,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			provider,
			identityService,
			clientService,
			productService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
