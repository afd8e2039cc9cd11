package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-parking/internal/config"
	"github.com/noah-isme/backend-parking/internal/health"
	"github.com/noah-isme/backend-parking/internal/lock"
	"github.com/noah-isme/backend-parking/internal/obs"
	"github.com/noah-isme/backend-parking/internal/registry"
	"github.com/noah-isme/backend-parking/internal/security"
	"github.com/noah-isme/backend-parking/internal/session"
	"github.com/noah-isme/backend-parking/internal/store"
	"github.com/noah-isme/backend-parking/internal/tariff"
	"github.com/noah-isme/backend-parking/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)
	httpMetrics := obs.NewHTTPMetrics(cfg.MetricsNamespace, nil, nil)

	if err := migrations.Run(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "parking-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	validate := validator.New()
	repo := store.New(pool)
	locks := lock.Locker{R: redisClient, TTL: cfg.LockTTL, RetryBackoff: cfg.LockRetryBackoff}

	tariffSvc := &tariff.Service{
		Repo:   repo,
		DB:     pool,
		Cache:  tariff.NewCache(redisClient, cfg.TariffCacheTTL),
		Logger: logger,
	}
	tariffHandler := &tariff.Handler{Svc: tariffSvc, Validate: validate}

	registrySvc := &registry.Service{Repo: repo, DB: pool, Logger: logger}
	registryHandler := &registry.Handler{Svc: registrySvc, Validate: validate, PerPage: cfg.SessionsPerPage}

	sessionSvc := &session.Service{
		Repo:    repo,
		DB:      pool,
		Tx:      repo,
		Tariffs: tariffSvc,
		Locks:   locks,
		Logger:  logger,
	}
	sessionHandler := &session.Handler{
		Svc:        sessionSvc,
		Validate:   validate,
		PerPage:    cfg.SessionsPerPage,
		MaxPerPage: cfg.SessionsMaxPerPage,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(security.Headers{Enable: cfg.SecurityHeaders}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.MaxBodyBytes}.Middleware)
	r.Use(obs.RoutePatternMiddleware)
	r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	healthHandler := health.Handler{Checker: health.Probes{DB: pool, Redis: redisClient}}
	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Route("/sessions", func(s chi.Router) {
			s.Post("/", sessionHandler.Create)
			s.Get("/", sessionHandler.List)
			s.Get("/{id}", sessionHandler.Get)
			s.Put("/{id}", sessionHandler.Update)
			s.Delete("/{id}", sessionHandler.Delete)
			s.Get("/{id}/receipt", sessionHandler.Receipt)
		})

		v.Route("/tariffs", func(t chi.Router) {
			t.Post("/", tariffHandler.Create)
			t.Get("/latest", tariffHandler.Latest)
		})

		v.Route("/drivers", func(d chi.Router) {
			d.Post("/", registryHandler.CreateDriver)
			d.Get("/", registryHandler.ListDrivers)
			d.Get("/{id}", registryHandler.GetDriver)
			d.Patch("/{id}/active", registryHandler.SetDriverActive)
		})

		v.Route("/vehicles", func(veh chi.Router) {
			veh.Post("/", registryHandler.CreateVehicle)
			veh.Get("/", registryHandler.ListVehicles)
			veh.Get("/{id}", registryHandler.GetVehicle)
			veh.Patch("/{id}/active", registryHandler.SetVehicleActive)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}
