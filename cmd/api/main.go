package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andresreyes/spotlists-backend/api/routes"
	"github.com/andresreyes/spotlists-backend/internal/identity"
	"github.com/andresreyes/spotlists-backend/internal/lists"
	"github.com/andresreyes/spotlists-backend/internal/places"
	"github.com/andresreyes/spotlists-backend/internal/users"
	pkgauth "github.com/andresreyes/spotlists-backend/pkg/auth"
	"github.com/andresreyes/spotlists-backend/pkg/config"
	"github.com/andresreyes/spotlists-backend/pkg/db"
	"github.com/andresreyes/spotlists-backend/pkg/logger"
	"github.com/andresreyes/spotlists-backend/pkg/metrics"
	"github.com/andresreyes/spotlists-backend/pkg/migrate"
	"github.com/andresreyes/spotlists-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	verifier, err := pkgauth.NewVerifier(cfg.IDToken)
	if err != nil {
		logg.Error(context.Background(), "failed to build token verifier", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	placesRepo := places.NewRepository(dbClient.DB())
	listsRepo := lists.NewRepository(dbClient.DB())

	resolver, err := identity.NewResolver(identity.ResolverParams{
		Verifier: verifier,
		Users:    usersRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to build identity resolver", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.ServiceParams{Repo: usersRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	placesService, err := places.NewService(places.ServiceParams{Repo: placesRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create place service", err)
		os.Exit(1)
	}

	listsService, err := lists.NewService(lists.ServiceParams{
		Repo:   listsRepo,
		Users:  usersRepo,
		Places: placesRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create list service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

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
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			Resolver:     resolver,
			UsersService: usersService,
			PlacesSvc:    placesService,
			ListsSvc:     listsService,
			DBPinger:     dbClient,
			RedisClient:  redisClient,
			HTTPMetrics:  httpMetrics,
		}),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
