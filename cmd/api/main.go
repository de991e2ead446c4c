// @title           Marketplace Accounts API
// @version         1.0
// @description     Customer and company sign-up and login for the home-services marketplace.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/homefix/marketplace/internal/api"
	"github.com/homefix/marketplace/internal/api/handler"
	"github.com/homefix/marketplace/internal/core/ports"
	"github.com/homefix/marketplace/internal/core/service"
	mongostore "github.com/homefix/marketplace/internal/infrastructure/db/mongo"
	pgstore "github.com/homefix/marketplace/internal/infrastructure/db/postgres"
	redisstore "github.com/homefix/marketplace/internal/infrastructure/db/redis"
	"github.com/homefix/marketplace/internal/infrastructure/queue"
	"github.com/homefix/marketplace/internal/pkg/config"
	"github.com/homefix/marketplace/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty(),
		Service: "marketplace-accounts",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Mongo always backs the audit trail; STORE picks where accounts live.
	mdb, err := mongostore.Open(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo unavailable")
	}
	defer func() { _ = mdb.Close(context.Background()) }()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis unavailable")
	}
	defer func() { _ = rdb.Close() }()

	health := map[string]handler.Pinger{
		"mongodb": mdb,
		"redis":   handler.PingerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
	}

	var users ports.UserRepository = mdb.Users
	if cfg.Store == config.StorePostgres {
		gdb, err := pgstore.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres unavailable")
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("postgres pool")
		}
		defer func() { _ = sqlDB.Close() }()

		users = pgstore.NewUserRepository(gdb)
		health["postgres"] = handler.PingerFunc(sqlDB.PingContext)
	}

	events := service.NewEventService(mdb.Events, log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, events, log)
	dispatcher.Start(ctx)

	throttle := redisstore.NewLoginThrottle(rdb, cfg.Throttle.MaxAttempts, cfg.Throttle.Window)
	authService := service.NewAuthService(users, throttle, dispatcher, cfg.JWTSecret, cfg.TokenTTL, log)

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		JWTSecret:   cfg.JWTSecret,
		Health:      health,
		Log:         log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	dispatcher.Wait()
}
