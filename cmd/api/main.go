package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/londonshop-backend/api/routes"
	"github.com/angelmondragon/londonshop-backend/internal/admin"
	"github.com/angelmondragon/londonshop-backend/internal/cart"
	"github.com/angelmondragon/londonshop-backend/internal/catalog"
	"github.com/angelmondragon/londonshop-backend/internal/checkout"
	"github.com/angelmondragon/londonshop-backend/internal/feedback"
	"github.com/angelmondragon/londonshop-backend/pkg/auth/session"
	"github.com/angelmondragon/londonshop-backend/pkg/config"
	"github.com/angelmondragon/londonshop-backend/pkg/db"
	"github.com/angelmondragon/londonshop-backend/pkg/env"
	"github.com/angelmondragon/londonshop-backend/pkg/instance"
	"github.com/angelmondragon/londonshop-backend/pkg/logger"
	"github.com/angelmondragon/londonshop-backend/pkg/metrics"
	"github.com/angelmondragon/londonshop-backend/pkg/migrate"
	"github.com/angelmondragon/londonshop-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storefrontMetrics := metrics.NewStorefront(registry)
	jobMetrics := metrics.NewJobMetrics(registry)

	carts, err := cart.NewSessions(cart.SessionsParams{
		StoreFor: cart.RedisStoreFactory(redisClient, cfg.Cart.PersistTTL),
		Logger:   logg,
		IdleTTL:  cfg.Cart.IdleTTL,
		Metrics:  storefrontMetrics,
		Jobs:     jobMetrics,
	})
	if err != nil {
		fatal(logg, "failed to create cart sessions", err, dbClient, redisClient)
	}

	feedbackService, err := feedback.NewService(feedback.ServiceParams{
		Repo:    feedback.NewRepository(dbClient.DB()),
		Config:  cfg.Feedback,
		Logger:  logg,
		Metrics: storefrontMetrics,
	})
	if err != nil {
		fatal(logg, "failed to create feedback service", err, dbClient, redisClient)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Feedback: feedbackService,
		Logger:   logg,
		Metrics:  storefrontMetrics,
	})
	if err != nil {
		fatal(logg, "failed to create checkout service", err, dbClient, redisClient)
	}

	adminSessions, err := session.NewManager(redisClient)
	if err != nil {
		fatal(logg, "failed to create admin session manager", err, dbClient, redisClient)
	}
	adminService, err := admin.NewService(admin.ServiceParams{
		Config:   cfg.Admin,
		Sessions: adminSessions,
		Logger:   logg,
	})
	if err != nil {
		fatal(logg, "failed to create admin service", err, dbClient, redisClient)
	}

	addr := ":" + env.First(cfg.App.Port, "PORT")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.ID(),
	})

	go carts.Run(ctx, cfg.Cart.EvictInterval)

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			storefrontMetrics,
			registry,
			catalog.Default(),
			carts,
			checkoutService,
			feedbackService,
			adminService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logg, "api server stopped unexpectedly", err, dbClient, redisClient)
		}
	case <-ctx.Done():
		logg.Info(ctx, "api server shutting down gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	shutdownErr := server.Shutdown(shutdownCtx)
	shutdownErr = multierr.Append(shutdownErr, closeAll(dbClient, redisClient))
	if shutdownErr != nil {
		logg.Error(shutdownCtx, "api server shutdown incomplete", shutdownErr)
		os.Exit(1)
	}
}

func closeAll(dbClient *db.Client, redisClient *redis.Client) error {
	var err error
	if dbClient != nil {
		err = multierr.Append(err, dbClient.Close())
	}
	if redisClient != nil {
		err = multierr.Append(err, redisClient.Close())
	}
	return err
}

func fatal(logg *logger.Logger, msg string, err error, dbClient *db.Client, redisClient *redis.Client) {
	logg.Error(context.Background(), msg, multierr.Append(err, closeAll(dbClient, redisClient)))
	os.Exit(1)
}
