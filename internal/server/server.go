// Package server owns the process lifecycle: open the store, serve HTTP,
// shut down gracefully, close the store.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/productapi/app/repositories"
	"github.com/shashiranjanraj/productapi/config"
	"github.com/shashiranjanraj/productapi/internal/kernel"
	"github.com/shashiranjanraj/productapi/pkg/auth"
	"github.com/shashiranjanraj/productapi/pkg/database"
	"github.com/shashiranjanraj/productapi/pkg/logger"
)

const denylistPrefix = "productapi:revoked:"

// ErrDefaultSecret stops a production start that still signs tokens with
// the built-in JWT secret.
var ErrDefaultSecret = errors.New("JWT_SECRET must be set when APP_ENV is production")

// Resources are the long-lived handles shared by the server and the CLI.
type Resources struct {
	Store    *database.Store
	Products *repositories.MongoProductRepository
	Users    *repositories.MongoUserRepository
	Tokens   *auth.TokenService

	redis   *redis.Client
	logSink *logger.MongoHandler
}

// Open loads config, connects to MongoDB and, when configured, Redis and
// the MongoDB log sink.
func Open(ctx context.Context) (*Resources, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := checkSecret(config.IsProduction(), config.UsingDefaultJWTSecret()); err != nil {
		return nil, err
	}

	store, err := database.Connect(ctx, config.MongoURI(), config.MongoDatabase())
	if err != nil {
		return nil, err
	}

	res := &Resources{
		Store:    store,
		Products: repositories.NewMongoProductRepository(store.DB()),
		Users:    repositories.NewMongoUserRepository(store.DB()),
		Tokens:   auth.NewTokenService(config.JWTSecret(), config.JWTTTL()),
	}

	if col := config.LogMongoCollection(); col != "" {
		res.logSink = logger.NewMongoHandler(ctx, store.DB().Collection(col), slog.LevelInfo)
		logger.Setup(config.IsProduction(), res.logSink)
	}

	if addr := config.RedisAddr(); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr, Password: config.RedisPassword()})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			res.Close(context.Background())
			return nil, fmt.Errorf("redis ping %s: %w", addr, err)
		}
		res.redis = rdb
	}
	return res, nil
}

// checkSecret refuses the default secret in production and warns elsewhere.
func checkSecret(production, defaultSecret bool) error {
	if !defaultSecret {
		return nil
	}
	if production {
		return ErrDefaultSecret
	}
	logger.Warn("JWT_SECRET is the built-in default; set it before deploying")
	return nil
}

// Denylist is nil when no Redis address is configured.
func (r *Resources) Denylist() auth.Denylist {
	if r.redis == nil {
		return nil
	}
	return auth.NewRedisDenylist(r.redis, denylistPrefix)
}

// Dependencies returns what the HTTP kernel needs.
func (r *Resources) Dependencies() kernel.Dependencies {
	return kernel.Dependencies{
		Products: r.Products,
		Users:    r.Users,
		Tokens:   r.Tokens,
		Denylist: r.Denylist(),
	}
}

// Close releases everything Open acquired. The log sink is flushed before
// the client it writes through is disconnected.
func (r *Resources) Close(ctx context.Context) {
	if r.redis != nil {
		if err := r.redis.Close(); err != nil {
			logger.Warn("redis close failed", "error", err)
		}
	}
	if r.logSink != nil {
		logger.Setup(config.IsProduction())
		r.logSink.Close()
	}
	if err := r.Store.Close(ctx); err != nil {
		logger.Warn("mongo disconnect failed", "error", err)
	}
}

// Start runs the HTTP server until SIGINT or SIGTERM.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout())
		defer cancel()
		res.Close(closeCtx)
	}()

	if err := res.Users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	httpKernel := kernel.NewHTTPKernel(res.Dependencies())

	addr := ":" + config.AppPort()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	logger.Info("productapi listening",
		"addr", ln.Addr().String(),
		"env", config.AppEnv(),
		"database", config.MongoDatabase(),
		"logout", res.redis != nil,
	)
	return Serve(ctx, ln, httpKernel.Handler(), config.ShutdownTimeout())
}

// Serve handles requests on ln until ctx is done, then drains in-flight
// requests for at most shutdownTimeout.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", shutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
