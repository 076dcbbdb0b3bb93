// @title                       Credential Service API
// @version                     1.0
// @description                 User registration, login and password management.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmigwi24/credential-service/internal/api"
	"github.com/danmigwi24/credential-service/internal/api/handler"
	"github.com/danmigwi24/credential-service/internal/core/service"
	"github.com/danmigwi24/credential-service/internal/infrastructure/db/mongo"
	"github.com/danmigwi24/credential-service/internal/infrastructure/db/redis"
	"github.com/danmigwi24/credential-service/internal/infrastructure/queue"
	"github.com/danmigwi24/credential-service/internal/infrastructure/security"
	"github.com/danmigwi24/credential-service/internal/pkg/config"
	"github.com/danmigwi24/credential-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "credential-service",
	})

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		Timeout:     cfg.Mongo.Timeout,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	users := mongo.NewUserRepository(db, cfg.Mongo.Timeout)
	if err := users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Security ---
	// The pool outlives ctx so requests draining during shutdown can still hash.
	poolCtx, stopPool := context.WithCancel(context.WithoutCancel(ctx))
	defer stopPool()
	pool := queue.NewPool(cfg.Auth.HashWorkers, log)
	pool.Start(poolCtx)

	hasher, err := security.NewBcryptHasher(cfg.Auth.BcryptCost, pool)
	if err != nil {
		return err
	}
	issuer, err := security.NewJWTIssuer(cfg.Auth.JWTSecret, security.WithIssuer(cfg.Auth.JWTIssuer))
	if err != nil {
		return err
	}
	throttle := redis.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)

	userService := service.NewUserService(users, hasher, issuer, throttle, log, cfg.Auth.TokenTTL)

	router := api.NewRouter(api.Deps{
		Users:  userService,
		Tokens: issuer,
		Checks: map[string]handler.PingFunc{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Log:            log,
		RequestTimeout: cfg.RequestTimeout,
	})

	return serve(ctx, log, net.JoinHostPort("", cfg.Port), router)
}

func serve(ctx context.Context, log zerolog.Logger, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		log.Info().Msg("http server stopped")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}
