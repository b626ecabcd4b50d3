package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"starmap-server/internal/middleware"
	"starmap-server/internal/preset"
	"starmap-server/internal/search"
	"starmap-server/internal/server"
	serverHandlers "starmap-server/internal/server/handlers"
	"starmap-server/internal/shared/config"
	"starmap-server/internal/shared/database"
	"starmap-server/internal/shared/logger"
	"starmap-server/internal/shared/redis"
	"starmap-server/internal/universe"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}
	cfg := config.GlobalConfig

	logger.Init()
	log := slog.With("component", "main")
	log.Info("Starting starmap server", "environment", cfg.Server.Environment, "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var source universe.Source
	if cfg.Universe.AssetURL != "" {
		source = universe.NewHTTPSource(cfg.Universe.AssetURL, cfg.Universe.FetchTimeout, slog.Default())
	} else {
		source = universe.NewFileSource(cfg.Universe.AssetPath)
	}
	universeService := universe.NewService(source, cfg.Universe.MaxDecodedBytes, slog.Default())

	if cfg.Universe.Preload {
		if _, err := universeService.Get(ctx); err != nil {
			// Requests retry the load, so a failed preload is not fatal.
			log.Error("Universe preload failed", "error", err)
		}
	}

	var dbPinger, redisPinger serverHandlers.Pinger

	var presetService *preset.Service
	var db *database.DB
	if cfg.Database.Enabled {
		var err error
		db, err = database.Connect(ctx, cfg)
		if err != nil {
			log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close database", "error", err)
			}
		}()

		if err := db.RunMigrations(ctx); err != nil {
			log.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		dbPinger = db
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", "error", err)
		}
	}()

	var cache search.ResultCache
	if redisClient != nil {
		cache = search.NewRedisCache(redisClient.Client, cfg.Redis.SearchCacheTTL, slog.Default())
		redisPinger = redisClient
	}

	searchService := search.NewService(universeService, cache, slog.Default())
	if db != nil {
		presetRepo := preset.NewRepository(db, slog.Default())
		presetService = preset.NewService(presetRepo, searchService, slog.Default())
	}

	if !cfg.AdminEnabled() {
		log.Warn("JWT_SECRET not set, admin endpoints are disabled")
	}

	health := serverHandlers.NewHealthHandler(dbPinger, redisPinger, universeService)
	routes := server.NewRoutes(universeService, searchService, presetService, health, cfg.Auth.JWTSecret)
	mux := routes.Setup()

	rateLimiter := middleware.NewRateLimiter(ctx, cfg.RateLimit)
	cors := middleware.NewCORS(cfg.Frontend)

	var handler http.Handler = mux
	handler = rateLimiter.Middleware(handler)
	handler = cors.Middleware(handler)
	handler = middleware.PrometheusMetrics(handler)
	handler = middleware.RequestID(handler)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr, "url", cfg.Server.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
}
