// Clinic operations service entrypoint.
//
// @title        Clinic Ops API
// @version      1.0
// @description  Role-gated clinic operations service: sessions, bookings and slot availability.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	redisdriver "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/stillpoint/clinic-ops/internal/api"
	"github.com/stillpoint/clinic-ops/internal/infrastructure/config"
	"github.com/stillpoint/clinic-ops/internal/infrastructure/db/memory"
	mongostore "github.com/stillpoint/clinic-ops/internal/infrastructure/db/mongo"
	redisstore "github.com/stillpoint/clinic-ops/internal/infrastructure/db/redis"
	"github.com/stillpoint/clinic-ops/internal/infrastructure/queue"
	"github.com/stillpoint/clinic-ops/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := api.Dependencies{Log: log}

	var (
		mongoClient *mongodriver.Client
		redisClient *redisdriver.Client
	)

	switch cfg.Store {
	case "mongo":
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		mongoClient = client

		users := mongostore.NewUserRepository(db)
		bookings := mongostore.NewBookingRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to create user indexes")
		}
		if err := bookings.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to create booking indexes")
		}

		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		redisClient = rdb

		deps.Users = users
		deps.Bookings = bookings
		deps.Therapists = mongostore.NewTherapistRepository(db)
		deps.Revoked = redisstore.NewRevocationList(rdb)
		deps.Settings = redisstore.NewSettingsStore(rdb)
		deps.Mongo = db
		deps.Redis = rdb

	case "memory":
		deps.Users = memory.NewUserRepository()
		deps.Bookings = memory.NewBookingRepository()
		deps.Therapists = memory.NewTherapistRepository()
		deps.Revoked = memory.NewRevocationList()
		deps.Settings = memory.NewSettingsStore()

	default:
		log.Fatal().Str("store", cfg.Store).Msg("unknown STORE value, want mongo or memory")
	}

	dispatcher := queue.NewDispatcher(cfg.NotifyWorkers, queue.NewLogNotifier(log), log)
	dispatcher.Start(ctx)
	deps.Notify = dispatcher

	e := api.NewRouter(cfg, deps)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("store", cfg.Store).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}
}
