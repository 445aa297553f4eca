package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"vendor_insight/internal/adapters/csvstore"
	server "vendor_insight/internal/adapters/http_server"
	"vendor_insight/internal/adapters/model"
	"vendor_insight/internal/adapters/observability"
	redisad "vendor_insight/internal/adapters/redis"
	"vendor_insight/internal/app"
	"vendor_insight/internal/domain"
	"vendor_insight/internal/shared"
	mysqlrepo "vendor_insight/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// run log is optional; the pipeline runs fine without MySQL
	var runlog domain.RunLog
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		runlog = mysqlrepo.New(db)
	} else {
		log.Warn().Msg("MYSQL_DSN is empty, run log disabled")
	}

	// deps
	store := csvstore.New(cfg.RawReviewsPath, cfg.ClassifiedPath)
	registry := model.New(cfg.SentimentModel, cfg.AspectModel)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	gap := app.NewGapService(store, registry, cache, runlog, cfg.CacheTTL, cfg.SampleFraction, cfg.SampleSeed)

	// http
	srv := server.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Gap: gap, RunLog: runlog})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
