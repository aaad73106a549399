// Package main is the entry point for the fare aggregation service.
//
//	@title						Fare Aggregator API
//	@version					1.0.0
//	@description				Queries several flight fare providers concurrently and returns one deduplicated, price-ordered list of offers.
//
//	@contact.name				API Support
//	@contact.url				https://github.com/skyscout/fare-aggregator/issues
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@schemes					http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Import generated docs for swagger
	_ "github.com/skyscout/fare-aggregator/docs"

	farehttp "github.com/skyscout/fare-aggregator/internal/adapter/http"
	"github.com/skyscout/fare-aggregator/internal/adapter/http/middleware"
	"github.com/skyscout/fare-aggregator/internal/config"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/cache"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/events"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/logger"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/timeutil"
	"github.com/skyscout/fare-aggregator/internal/usecase"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg)

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Backend).
		Msg("Configuration loaded")

	clock := timeutil.NewRealClock()

	resultCache, err := newResultCache(cfg, clock, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise result cache")
	}

	publisher := newPublisher(cfg, log)

	registry := buildRegistry(cfg, clock, log)
	if registry.Len() == 0 {
		log.Warn().Msg("No provider credentials configured; searches will return empty results")
	}

	engine := usecase.NewEngine(registry,
		usecase.WithConfig(usecase.Config{
			SearchTimeout:  cfg.Timeouts.GlobalSearch,
			PublishTimeout: cfg.Timeouts.EventPublish,
		}),
		usecase.WithCache(resultCache),
		usecase.WithRateLimiter(newRateLimiter(cfg)),
		usecase.WithPublisher(publisher),
		usecase.WithClock(clock),
		usecase.WithLogger(log),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupWithConfig(e, log, middleware.RecoveryConfig{DisablePrintStack: cfg.IsProduction()})

	handler := farehttp.NewFareHandler(engine, cfg.EnabledProviders(), clock)
	farehttp.RegisterRoutes(e, handler)

	if !cfg.IsProduction() {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().
			Str("address", addr).
			Strs("providers", registry.Names()).
			Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	gracefulShutdown(e, cfg, log, func() {
		engine.Close()
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event publisher")
		}
		if err := resultCache.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing result cache")
		}
	})
}

func setupLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(logger.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		EnableCaller: cfg.Logging.Caller,
		ServiceName:  cfg.App.Name,
	})
}

func newResultCache(cfg *config.Config, clock timeutil.Clock, log zerolog.Logger) (cache.ResultCache, error) {
	if cfg.Cache.Backend != config.CacheBackendRedis {
		return cache.NewMemoryCache(cfg.Cache.TTL, clock), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ReadTimeout)
	defer cancel()

	return cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	}, cfg.Cache.TTL, log)
}

func newPublisher(cfg *config.Config, log zerolog.Logger) events.Publisher {
	if !cfg.Events.Enabled() {
		return events.NopPublisher{}
	}
	return events.NewKafkaPublisher(events.KafkaConfig{
		Brokers:      cfg.Events.Brokers,
		Topic:        cfg.Events.Topic,
		BatchTimeout: cfg.Events.BatchTimeout,
	}, log)
}

// gracefulShutdown blocks until SIGINT or SIGTERM, drains the HTTP server and
// then runs cleanup.
func gracefulShutdown(e *echo.Echo, cfg *config.Config, log zerolog.Logger, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	cleanup()

	log.Info().Msg("Server stopped")
}
