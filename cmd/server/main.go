package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/serverless-auth/customer-auth/internal/api"
	"github.com/serverless-auth/customer-auth/internal/api/handler"
	"github.com/serverless-auth/customer-auth/internal/api/metrics"
	"github.com/serverless-auth/customer-auth/internal/core/ports"
	"github.com/serverless-auth/customer-auth/internal/core/service"
	"github.com/serverless-auth/customer-auth/internal/infrastructure/config"
	mongodb "github.com/serverless-auth/customer-auth/internal/infrastructure/db/mongo"
	"github.com/serverless-auth/customer-auth/internal/infrastructure/db/postgres"
	rediscache "github.com/serverless-auth/customer-auth/internal/infrastructure/db/redis"
	"github.com/serverless-auth/customer-auth/internal/infrastructure/security"
	"github.com/serverless-auth/customer-auth/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic("load config: " + err.Error())
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "customer-auth",
	})
	log.Info().
		Str("env", cfg.Env).
		Str("store", cfg.StoreDriver).
		Msg("starting customer-auth")

	customers, pingers, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open customer store")
	}
	defer closeStore()

	issuer, err := security.NewJWTIssuer(security.Config{
		Secret:    cfg.JWT.Secret,
		Algorithm: cfg.JWT.Algorithm,
		Issuer:    cfg.JWT.Issuer,
		TTL:       cfg.JWT.TTL(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build token issuer")
	}

	authService := service.NewAuthService(customers, issuer, log)

	e := api.NewRouter(api.Deps{
		AuthService:    authService,
		TokenVerifier:  issuer,
		Pingers:        pingers,
		Log:            log,
		RequestTimeout: cfg.RequestTimeout,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	log.Info().Msg("customer-auth stopped")
}

// openStore connects the configured customer store and, when enabled, puts
// the Redis read-through cache in front of it.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.CustomerRepository, []handler.Pinger, func(), error) {
	var (
		repo    ports.CustomerRepository
		pingers []handler.Pinger
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.Postgres.URL})
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, pool.Close)
		repo = postgres.NewCustomerRepository(pool)
		pingers = append(pingers, postgres.NewPinger(pool))
	default:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		})
		repo = mongodb.NewCustomerRepository(db)
		pingers = append(pingers, mongodb.NewPinger(db))
	}

	if cfg.Redis.Enabled {
		client, err := rediscache.Connect(ctx, rediscache.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		closers = append(closers, func() { _ = client.Close() })
		repo = rediscache.NewCachedCustomerRepository(client, repo, cfg.Redis.CacheTTL, log, metrics.CacheRecorder{})
		pingers = append(pingers, rediscache.NewPinger(client))
	}

	return repo, pingers, closeAll, nil
}
