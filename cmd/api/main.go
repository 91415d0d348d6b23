// Command api runs the media collection HTTP service: the REST and GraphQL
// channels, plus the background consumer that applies published events.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/esteveslima/media-collection/internal/api"
	"github.com/esteveslima/media-collection/internal/api/handler"
	"github.com/esteveslima/media-collection/internal/core/ports"
	"github.com/esteveslima/media-collection/internal/core/service"
	"github.com/esteveslima/media-collection/internal/infrastructure/config"
	"github.com/esteveslima/media-collection/internal/infrastructure/db/mongo"
	"github.com/esteveslima/media-collection/internal/infrastructure/db/redis"
	"github.com/esteveslima/media-collection/internal/infrastructure/db/sqldb"
	"github.com/esteveslima/media-collection/internal/infrastructure/hash"
	"github.com/esteveslima/media-collection/internal/infrastructure/queue"
	"github.com/esteveslima/media-collection/internal/infrastructure/token"
	"github.com/esteveslima/media-collection/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad(ctx)
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "media-collection",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped with error")
	}
	log.Info().Msg("goodbye")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	db, err := sqldb.Connect(ctx, sqldb.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.URL})
	if err != nil {
		return err
	}
	defer db.Close()
	if err := sqldb.EnsureSchema(ctx, db); err != nil {
		return err
	}

	mongoClient, mongoDB, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()
	eventLog := mongo.NewEventLog(mongoDB)
	if err := eventLog.EnsureIndexes(ctx); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Core ---
	publisher := redis.NewPublisher(rdb, cfg.Events.Channel)
	tokens := token.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	userRepo := sqldb.NewUserRepository(db)
	mediaRepo := sqldb.NewMediaRepository(db)

	userService := service.NewUserService(userRepo, hash.NewBcrypt(0), publisher, log)
	mediaService := service.NewMediaService(mediaRepo, publisher, log)
	authService := service.NewAuthService(userService, tokens, log)
	eventService := service.NewEventService(mediaRepo, eventLog, redis.NewDedupChecker(rdb), log)

	if cfg.Admin.Enabled() {
		if err := userService.EnsureAdmin(ctx, ports.RegisterUserInput{
			Username: cfg.Admin.Username,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		}); err != nil {
			return err
		}
	}

	// --- Event consumer ---
	dispatcher := queue.NewDispatcher(cfg.Events.Workers, eventService, log)
	dispatcher.Start(ctx)
	subscriber := redis.NewSubscriber(rdb, cfg.Events.Channel, dispatcher.Enqueue, log)
	go func() {
		if err := subscriber.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event subscriber stopped")
		}
	}()

	// --- HTTP ---
	graphqlHandler, err := handler.NewGraphQLHandler(authService, mediaService)
	if err != nil {
		return err
	}
	e := api.NewRouter(api.Deps{
		Log:      log,
		Verifier: tokens,
		Handlers: api.Handlers{
			Auth:    handler.NewAuthHandler(authService),
			User:    handler.NewUserHandler(userService),
			Media:   handler.NewMediaHandler(mediaService),
			GraphQL: graphqlHandler,
			Health:  handler.NewHealthHandler(),
			Ready: handler.NewHealthDependenciesHandler(
				handler.DependencyCheck{Name: "sql", Ping: db.PingContext},
				handler.DependencyCheck{Name: "mongo", Ping: func(ctx context.Context) error { return mongo.Ping(ctx, mongoClient) }},
				handler.DependencyCheck{Name: "redis", Ping: func(ctx context.Context) error { return redis.Ping(ctx, rdb) }},
			),
		},
		CORSAllowedDomain: cfg.CORSAllowedDomain,
		Registry:          prometheus.NewRegistry(),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		return err
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http server shutdown failed")
	}
	dispatcher.Wait()
	return nil
}
