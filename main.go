package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/swaggo/swag"

	"growest_connect/cache"
	"growest_connect/config"
	"growest_connect/db"
	_ "growest_connect/docs" // swagger docs
	"growest_connect/handlers"
	"growest_connect/logger"
	"growest_connect/scheduler"
	"growest_connect/services"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	logger.Info("logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format, "output", cfg.Log.Output)

	if err := db.InitMySQLWithConfig(cfg); err != nil {
		logger.Error("mysql init failed", "error", err)
		os.Exit(1)
	}
	logger.Info("mysql connected",
		"max_open_conns", cfg.DB.MaxOpenConns,
		"max_idle_conns", cfg.DB.MaxIdleConns,
		"conn_max_lifetime", cfg.DB.ConnMaxLifetime)

	// The score cache is an optimization; the service runs without it.
	var scoreCache *services.ScoreCache
	if cfg.Redis.Addr != "" {
		if err := cache.InitRedis(cfg); err != nil {
			logger.Warn("redis unavailable, score caching disabled", "error", err)
		} else {
			ttl := time.Duration(cfg.Matching.ScoreCacheTTLMin) * time.Minute
			scoreCache = services.NewScoreCache(cache.Client, ttl)
			logger.Info("redis connected", "addr", cfg.Redis.Addr, "score_cache_ttl", ttl)
		}
	}

	scorer := services.NewLLMScorer(cfg)
	matcher := services.NewMatchingService(cfg, scorer, scoreCache)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(handlers.CORS)

	handlers.RegisterRoutes(r, matcher)

	scheduler.Start(cfg, matcher)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  secondsOrDefault(cfg.Timeouts.RequestSec, 30),
		WriteTimeout: secondsOrDefault(cfg.Timeouts.ResponseSec, 120),
		IdleTimeout:  secondsOrDefault(cfg.Timeouts.IdleSec, 120),
	}

	logger.Info("server starting", "address", cfg.Server.Addr)
	logger.Info("swagger docs available", "url", "http://localhost"+cfg.Server.Addr+"/swagger/index.html")
	log.Fatal(server.ListenAndServe())
}

func secondsOrDefault(seconds, fallback int) time.Duration {
	if seconds <= 0 {
		seconds = fallback
	}
	return time.Duration(seconds) * time.Second
}
