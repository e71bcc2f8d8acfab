package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kartka-game/kartka-bot/internal/bot"
	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
	"github.com/kartka-game/kartka-bot/internal/game"
	"github.com/kartka-game/kartka-bot/internal/repository"
	"github.com/kartka-game/kartka-bot/internal/state"
	"github.com/kartka-game/kartka-bot/pkg/config"
	"github.com/kartka-game/kartka-bot/pkg/graceful"
	"github.com/kartka-game/kartka-bot/pkg/logger"
	appredis "github.com/kartka-game/kartka-bot/pkg/redis"
)

const (
	shutdownTimeout = 10 * time.Second
	sessionTTL      = 30 * time.Minute
	sweepInterval   = 5 * time.Minute
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	sentryEnabled := cfg.Sentry.DSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			TracesSampleRate: cfg.Sentry.SampleRate,
		}); err != nil {
			slog.Error("failed to init sentry", slog.Any("error", err))
			sentryEnabled = false
		} else {
			defer sentry.Flush(shutdownTimeout)
		}
	}

	level := new(slog.LevelVar)
	level.Set(config.ParseLevel(cfg.Logger.Level))

	log, logCloser := logger.New(logger.Options{
		Level:       level,
		Format:      cfg.Logger.Format,
		FilePath:    cfg.Logger.File.Path,
		MaxSizeMB:   cfg.Logger.File.MaxSizeMB,
		MaxBackups:  cfg.Logger.File.MaxBackups,
		MaxAgeDays:  cfg.Logger.File.MaxAgeDays,
		Compress:    cfg.Logger.File.Compress,
		SentryTaps:  sentryEnabled,
		Environment: cfg.AppEnv,
	})
	defer logCloser.Close()
	slog.SetDefault(log)

	config.WatchLogLevel(v, level, log)

	log.Info("starting kartka bot",
		slog.String("env", cfg.AppEnv),
		slog.String("db_path", cfg.Database.Path),
	)

	store, err := repository.Open(cfg.Database.Path, log)
	if err != nil {
		log.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Error("error closing store", slog.Any("error", cerr))
		}
	}()

	var sessions state.Storage = state.NewMemoryStorage()
	var redisClient *appredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = appredis.New(ctx, appredis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Error("failed to connect to redis, falling back to memory sessions", slog.Any("error", err))
		} else {
			defer redisClient.Close()
			sessions = state.NewRedisStorage(redisClient.Client, log)
		}
	}

	var fsm state.Machine
	if redisClient != nil {
		fsm = state.NewMachine(sessions, log, redisClient.Client)
	} else {
		fsm = state.NewMachine(sessions, log, nil)
	}

	cleaner := state.NewCleaner(sessions, log, sessionTTL, sweepInterval)
	go cleaner.Run(ctx)

	svc := game.NewService(store, log, nil, nil)
	errHandler := apperrors.NewHandler(log, sentryEnabled)

	b, err := bot.New(cfg.Bot, log, svc, fsm, errHandler)
	if err != nil {
		log.Error("failed to build bot", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		srv := graceful.NewServer(log, &http.Server{
			Addr:    cfg.Metrics.Addr,
			Handler: mux,
		}, shutdownTimeout)

		go func() {
			if err := srv.ListenAndServe(ctx); err != nil {
				log.Error("metrics server failed", slog.Any("error", err))
			}
		}()
	}

	go b.Start()

	<-ctx.Done()

	b.Stop()
	log.Info("kartka bot shut down")
}
