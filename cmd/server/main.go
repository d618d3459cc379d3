package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"
	"github.com/wadjakorntonsri/linkshelf/pkg/adapters/cache"
	"github.com/wadjakorntonsri/linkshelf/pkg/adapters/handler"
	"github.com/wadjakorntonsri/linkshelf/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/linkshelf/pkg/config"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/services"
	"github.com/wadjakorntonsri/linkshelf/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	a, err := buildApp(cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("startup failed")
	}
	defer a.close()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zlog.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	zlog.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("graceful shutdown failed")
	}
}

type app struct {
	router  http.Handler
	service *services.OrganizerService
	close   func()
}

// buildApp wires store, cache, service and HTTP routes.
func buildApp(cfg *config.Config) (*app, error) {
	store, err := sqlstore.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	treeCache, err := cache.New(cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		store.Close()
		return nil, err
	}
	if cfg.RedisURL == "" {
		zlog.Info().Msg("REDIS_URL not set, tree cache disabled")
	}

	service := services.NewOrganizerService(store, treeCache)
	return &app{
		router:  handler.NewRouter(cfg, service, store),
		service: service,
		close: func() {
			if closer, ok := treeCache.(interface{ Close() error }); ok {
				closer.Close()
			}
			store.Close()
		},
	}, nil
}
