package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/car_rental/internal/config"
	"github.com/Skotchmaster/car_rental/internal/db"
	"github.com/Skotchmaster/car_rental/internal/es"
	"github.com/Skotchmaster/car_rental/internal/httpserver"
	"github.com/Skotchmaster/car_rental/internal/logging"
	"github.com/Skotchmaster/car_rental/internal/middleware/csrf"
	"github.com/Skotchmaster/car_rental/internal/mykafka"
	"github.com/Skotchmaster/car_rental/internal/repo"
	"github.com/Skotchmaster/car_rental/internal/service"
	"github.com/Skotchmaster/car_rental/internal/session"
	"github.com/Skotchmaster/car_rental/internal/storage"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logging.New("info", false)
		boot.Fatal().Err(err).Msg("config load failed")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogPretty)
	ctx = logging.IntoContext(ctx, logger)

	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("db init failed")
	}
	if err := db.Migrate(gdb); err != nil {
		logger.Fatal().Err(err).Msg("db migrate failed")
	}

	checks := map[string]httpserver.Check{
		"database": func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	}

	var store session.Store = session.NewMemoryStore()
	var rdb *redis.Client
	if cfg.Session.Store == "redis" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis ping failed")
		}
		store = session.NewRedisStore(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	var events mykafka.Publisher = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		events = mykafka.NewProducer(cfg.KafkaBrokers)
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Msg("kafka producer ready")
	}

	var index service.CarIndex
	if cfg.ES.URL != "" {
		client, err := es.NewClient(ctx, cfg.ES)
		if err != nil {
			logger.Fatal().Err(err).Msg("elasticsearch init failed")
		}
		index = es.NewCarIndex(client, cfg.ES.Index)
	}

	r := &repo.GormRepo{DB: gdb}
	authSvc := service.NewAuthService(r, events)
	if err := authSvc.BootstrapAdmin(ctx, cfg.BootstrapAdminEmail); err != nil {
		logger.Fatal().Err(err).Msg("bootstrap admin failed")
	}

	carSvc := service.NewCarService(r, index, events)
	if index != nil {
		rctx, cancel := context.WithTimeout(ctx, 60*time.Second)
		if err := carSvc.Reindex(rctx); err != nil {
			logger.Warn().Err(err).Msg("car index rebuild failed, search uses the database")
		}
		cancel()
	}

	var csrfCfg *csrf.Config
	if cfg.CSRFEnabled {
		c := csrf.DefaultConfig()
		c.Secure = cfg.Session.CookieSecure
		csrfCfg = &c
	}

	e, err := httpserver.New(&httpserver.Deps{
		Logger:    logger,
		Sessions:  session.NewManager(store, cfg.Session.TTL, cfg.Session.CookieName, cfg.Session.CookieSecure),
		CSRF:      csrfCfg,
		Metrics:   prometheus.DefaultRegisterer,
		Checks:    checks,
		PublicDir: cfg.PublicDir,
		UploadDir: cfg.UploadDir,
		Auth:      &httpserver.AuthHTTP{Svc: authSvc},
		Cars:      &httpserver.CarHTTP{Svc: carSvc, Images: storage.NewImageStore(cfg.UploadDir)},
		Cart:      &httpserver.CartHTTP{Svc: service.NewCartService(r, events)},
		Reviews:   &httpserver.ReviewHTTP{Svc: service.NewReviewService(r)},
		Pages:     &httpserver.PageHTTP{Auth: authSvc},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("http server init failed")
	}
	e.GET("/metrics", echoprometheus.NewHandler())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("car rental app listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn().Msg("force exit")
		os.Exit(1)
	}()

	logger.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	if err := db.Close(gdb); err != nil {
		logger.Error().Err(err).Msg("db close error")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}
	if err := events.Close(); err != nil {
		logger.Error().Err(err).Msg("kafka close error")
	}

	logger.Info().Msg("shutdown complete")
}
