package handler

import (
	"net/http"

	zlog "github.com/rs/zerolog/log"
	"github.com/wadjakorntonsri/linkshelf/pkg/adapters/cache"
	"github.com/wadjakorntonsri/linkshelf/pkg/adapters/handler"
	"github.com/wadjakorntonsri/linkshelf/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/linkshelf/pkg/config"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/services"
	"github.com/wadjakorntonsri/linkshelf/pkg/logging"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	// Local SQLite files do not survive between invocations; point
	// DATABASE_URL at Turso or PostgreSQL here.
	store, err := sqlstore.New(cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}

	treeCache, err := cache.New(cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		zlog.Warn().Err(err).Msg("tree cache unavailable, continuing without it")
		treeCache = cache.Noop{}
	}

	service := services.NewOrganizerService(store, treeCache)
	mux = handler.NewRouter(cfg, service, store)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
