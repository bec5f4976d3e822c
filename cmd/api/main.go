package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/crazyimage/task-system/internal/api"
	"github.com/crazyimage/task-system/internal/api/handler"
	"github.com/crazyimage/task-system/internal/core/ports"
	"github.com/crazyimage/task-system/internal/infrastructure/db/memory"
	mongostore "github.com/crazyimage/task-system/internal/infrastructure/db/mongo"
	redisstore "github.com/crazyimage/task-system/internal/infrastructure/db/redis"
	"github.com/crazyimage/task-system/internal/infrastructure/db/sqlstore"
	"github.com/crazyimage/task-system/internal/infrastructure/messaging/kafka"
	"github.com/crazyimage/task-system/internal/infrastructure/queue"
	"github.com/crazyimage/task-system/internal/pkg/config"
	"github.com/crazyimage/task-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title           Task System API
// @version         1.0
// @description     User and task management with JWT authentication.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet.
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "task-system",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("open storage")
	}
	defer closeQuietly(log, "storage", store.Close)

	probes := map[string]handler.Pinger{"storage": store}

	var revocations ports.TokenRevoker = memory.NewRevocationStore()
	if cfg.Redis.Addr != "" {
		redisRevocations, err := redisstore.Open(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer func() { _ = redisRevocations.Close() }()
		revocations = redisRevocations
		probes["redis"] = redisRevocations
	}

	var sink ports.TaskEventSink = kafka.NewLogSink(log.With().Str("component", "task_events").Logger())
	if len(cfg.Events.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(kafka.Config{
			Brokers: cfg.Events.KafkaBrokers,
			Topic:   cfg.Events.KafkaTopic,
		}, log.With().Str("component", "kafka").Logger())
		defer func() { _ = publisher.Close() }()
		sink = publisher
	}

	dispatcher := queue.NewDispatcher(cfg.Events.Workers, sink, log.With().Str("component", "dispatcher").Logger())
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	dispatcher.Start(workerCtx)

	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; tokens are signed with an empty key")
	}

	e := api.NewRouter(api.Dependencies{
		Users:       store.users,
		Tasks:       store.tasks,
		Revocations: revocations,
		Events:      dispatcher,
		Probes:      probes,
	}, api.Options{
		JWTSecret:        cfg.Auth.JWTSecret,
		TokenTTL:         cfg.Auth.TokenTTL,
		BcryptCost:       cfg.Auth.BcryptCost,
		AuthRequired:     cfg.Auth.Required,
		CORSOrigins:      cfg.HTTP.CORSOrigins,
		TaskCORSOrigins:  cfg.HTTP.TaskCORSOrigins,
		AllowCredentials: cfg.HTTP.CORSAllowCredentials,
		RateLimitRPS:     cfg.HTTP.RateLimitRPS,
		RateLimitBurst:   cfg.HTTP.RateLimitBurst,
	}, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage.Driver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Drain queued task events before the sinks close.
	dispatcher.Close()
	log.Info().Msg("shutdown complete")
}

// storage is the selected persistence driver.
type storage struct {
	users ports.UserRepository
	tasks ports.TaskRepository
	ping  func(context.Context) error
	close func(context.Context) error
}

func (s *storage) Ping(ctx context.Context) error  { return s.ping(ctx) }
func (s *storage) Close(ctx context.Context) error { return s.close(ctx) }

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMySQL, config.DriverPostgres:
		db, err := sqlstore.Connect(ctx, sqlstore.Config{
			Driver:   cfg.Storage.Driver,
			Host:     cfg.Storage.Host,
			Port:     cfg.Storage.Port,
			User:     cfg.Storage.User,
			Password: cfg.Storage.Password,
			Name:     cfg.Storage.Name,
			SSLMode:  cfg.Storage.SSLMode,
		}, log)
		if err != nil {
			return nil, err
		}
		dialect, err := sqlstore.DialectFor(cfg.Storage.Driver)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := sqlstore.Migrate(ctx, db, dialect, 3); err != nil {
			_ = db.Close()
			return nil, err
		}
		s := sqlstore.New(db, dialect)
		return &storage{users: s.Users, tasks: s.Tasks, ping: s.Ping, close: s.Close}, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		s := mongostore.New(client, db)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		return &storage{users: s.Users, tasks: s.Tasks, ping: s.Ping, close: s.Close}, nil

	default:
		s := memory.New()
		return &storage{users: s.Users, tasks: s.Tasks, ping: s.Ping, close: s.Close}, nil
	}
}

func closeQuietly(log zerolog.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn().Err(err).Str("resource", name).Msg("close failed")
	}
}
