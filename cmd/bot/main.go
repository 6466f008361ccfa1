package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"

	"github.com/atelier-shop/assistant-bot/internal/bot"
	"github.com/atelier-shop/assistant-bot/internal/catalog"
	"github.com/atelier-shop/assistant-bot/internal/database"
	"github.com/atelier-shop/assistant-bot/internal/dialogue"
	apperrors "github.com/atelier-shop/assistant-bot/internal/errors"
	"github.com/atelier-shop/assistant-bot/internal/health"
	"github.com/atelier-shop/assistant-bot/internal/intent"
	"github.com/atelier-shop/assistant-bot/internal/order"
	"github.com/atelier-shop/assistant-bot/internal/server"
	"github.com/atelier-shop/assistant-bot/internal/session"
	"github.com/atelier-shop/assistant-bot/internal/store"
	"github.com/atelier-shop/assistant-bot/pkg/config"
	"github.com/atelier-shop/assistant-bot/pkg/graceful"
	"github.com/atelier-shop/assistant-bot/pkg/logger"
	appredis "github.com/atelier-shop/assistant-bot/pkg/redis"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		return 1
	}

	log := logger.New(*cfg)
	log.Info("starting shop assistant",
		slog.String("env", cfg.AppEnv),
		slog.String("port", cfg.Server.Port),
		slog.String("store_backend", cfg.Store.Backend))

	if cfg.Sentry.Enabled {
		defer sentry.Flush(2 * time.Second)
	}

	checker := health.NewChecker(log)

	// Session storage: redis when configured, in-process otherwise.
	var (
		sessionStorage session.Storage
		sessionLocker  session.Locker
	)
	if cfg.Redis.Addr != "" {
		redisClient, err := appredis.New(ctx, cfg.Redis)
		if err != nil {
			log.Error("failed to connect to redis", slog.Any("error", err))
			return 1
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				log.Error("error closing redis client", slog.Any("error", cerr))
			}
		}()

		sessionStorage = session.NewRedisStorage(redisClient.Client, log, cfg.Dialogue.SessionTTL)
		sessionLocker = session.NewRedisLocker(redisClient.Client, log)
		checker.AddCheck("redis", health.NewRedisChecker(redisClient.Client))
	} else {
		log.Warn("redis not configured, using in-memory session storage")
		sessionStorage = session.NewMemoryStorage()
		sessionLocker = session.NewMemoryLocker()
	}

	// Order record store.
	var orderStore order.Store
	switch cfg.Store.Backend {
	case "postgres":
		db, err := sql.Open("postgres", cfg.Store.DSN())
		if err != nil {
			log.Error("failed to open database", slog.Any("error", err))
			return 1
		}
		defer func() {
			if cerr := db.Close(); cerr != nil {
				log.Error("error closing database", slog.Any("error", cerr))
			}
		}()

		if err := db.PingContext(ctx); err != nil {
			log.Error("failed to ping database", slog.Any("error", err))
			return 1
		}

		migrationsDir := cfg.Store.MigrationsDir
		if migrationsDir == "" {
			migrationsDir = "migrations"
		}
		if err := database.NewMigrator(db, log).ApplyDir(ctx, migrationsDir); err != nil {
			log.Error("failed to apply migrations", slog.Any("error", err))
			return 1
		}

		pgStore := store.NewPostgresStore(db, log)
		orderStore = pgStore
		checker.AddCheck("order_store", pgStore)
	default:
		fileStore := store.NewFileStore(cfg.Store.Path, log)
		orderStore = fileStore
		checker.AddCheck("order_store", fileStore)
	}

	oracle := catalog.NewHTTPOracle(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, log)
	machine := order.NewMachine(oracle, orderStore, log)
	registry := session.NewRegistry(sessionStorage, sessionLocker, log)
	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled)

	classifier := intent.NewKeywordClassifier(cfg.Intent.Keywords)
	config.Watch(v, log, func(updated *config.Config) {
		classifier.SetKeywords(updated.Intent.Keywords)
	})

	svc := dialogue.NewService(
		classifier,
		registry,
		machine,
		dialogue.NewHTTPResponder(cfg.Dialogue.FallbackURL),
		cfg.Dialogue.FallbackTimeout,
		errHandler,
		log,
	)

	cleaner := session.NewCleaner(sessionStorage, log, cfg.Dialogue.SessionTTL, cfg.Dialogue.CleanupInterval)
	go cleaner.Run(ctx)

	if cfg.Bot.Token != "" {
		tgBot, err := bot.New(*cfg, svc, log)
		if err != nil {
			log.Error("failed to initialize telegram bot", slog.Any("error", err))
			return 1
		}

		checker.AddCheck("telegram", health.NewTelegramChecker(tgBot.Telebot()))

		go tgBot.Start()
		go func() {
			<-ctx.Done()
			tgBot.Stop()
		}()
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.New(svc, checker, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := graceful.NewServer(log, httpServer, cfg.Server.ShutdownTimeout).ListenAndServe(ctx); err != nil {
		log.Error("http server failed", slog.Any("error", err))
		return 1
	}

	log.Info("shop assistant shut down")
	return 0
}
