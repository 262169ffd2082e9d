package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/joho/godotenv"

	"github.com/MKhiriev/go-screenly/internal/adapter"
	"github.com/MKhiriev/go-screenly/internal/config"
	"github.com/MKhiriev/go-screenly/internal/events"
	"github.com/MKhiriev/go-screenly/internal/handler"
	"github.com/MKhiriev/go-screenly/internal/handler/http"
	"github.com/MKhiriev/go-screenly/internal/logger"
	"github.com/MKhiriev/go-screenly/internal/metrics"
	"github.com/MKhiriev/go-screenly/internal/notify"
	"github.com/MKhiriev/go-screenly/internal/server"
	"github.com/MKhiriev/go-screenly/internal/service"
	"github.com/MKhiriev/go-screenly/internal/store"
	"github.com/MKhiriev/go-screenly/internal/workers"
	"github.com/MKhiriev/go-screenly/models"
)

const rateLimitKeyPrefix = "screenly:ratelimit"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("error loading .env file: %v\n", err)
	}

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("screenly-server").Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildInfo.BuildVersion()
	}

	log := logger.NewLoggerWithLevel("screenly-server", logger.LevelForEnvironment(cfg.App.IsDevelopment()))
	log.Debug().
		Str("environment", cfg.App.Environment).
		Str("db_driver", cfg.Storage.DB.Driver).
		Str("address", cfg.Server.HTTPAddress).
		Msg("received configs")

	ctx := context.Background()

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}
	storages := store.NewStorages(db, log)

	m := metrics.New()
	handlerOpts := []http.Option{http.WithMetrics(m)}
	var hooks []server.Option

	var redisCloser func(context.Context) error
	if cfg.Redis.Address != "" {
		redisClient, err := store.NewRedisClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("error connecting to redis")
		}
		handlerOpts = append(handlerOpts, http.WithRateLimiter(store.NewRedisRateLimiter(redisClient, rateLimitKeyPrefix)))
		redisCloser = func(context.Context) error { return redisClient.Close() }
	}

	notifier := notify.NewDispatcherFromConfig(cfg.Mail, log).WithObserver(m.ObserveNotification)

	var publisher events.Publisher = events.NopPublisher{}
	var background []workers.Worker
	var broker *events.Broker
	if cfg.Broker.URL != "" {
		broker, err = events.NewBroker(cfg.Broker, log)
		if err != nil {
			log.Fatal().Err(err).Msg("error connecting to message broker")
		}
		publisher = broker
		background = append(background,
			workers.NewWelcomeMailWorker(broker, notifier, cfg.App.PublicURL, cfg.Mail.Timeout, log))
	}

	services, err := service.NewServices(storages, service.Dependencies{
		Catalog:   adapter.NewTMDBAdapter(cfg.TMDB, log),
		Notifier:  notifier,
		Publisher: publisher,
		Metrics:   m,
	}, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log, handlerOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	workersCtx, stopWorkers := context.WithCancel(ctx)
	var workersDone sync.WaitGroup
	if len(background) > 0 {
		workersDone.Add(1)
		go func() {
			defer workersDone.Done()
			workers.NewWorkers(background...).Run(workersCtx)
		}()
	}

	hooks = append(hooks,
		server.WithShutdownHook("reset-mail", services.PasswordResetService.Wait),
		server.WithShutdownHook("workers", func(ctx context.Context) error {
			stopWorkers()
			return waitGroupWithContext(ctx, &workersDone)
		}),
	)
	if broker != nil {
		hooks = append(hooks, server.WithShutdownHook("broker", func(context.Context) error {
			return broker.Close()
		}))
	}
	if redisCloser != nil {
		hooks = append(hooks, server.WithShutdownHook("redis", redisCloser))
	}
	hooks = append(hooks, server.WithShutdownHook("database", func(context.Context) error {
		return db.Close()
	}))

	srv, err := server.NewServer(handlers, cfg.Server, log, hooks...)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// waitGroupWithContext waits for wg or returns ctx.Err() when ctx ends first.
func waitGroupWithContext(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
