package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/cotobang/internal/auth"
	"github.com/geocoder89/cotobang/internal/authz"
	"github.com/geocoder89/cotobang/internal/config"
	"github.com/geocoder89/cotobang/internal/db"
	httpx "github.com/geocoder89/cotobang/internal/http"
	"github.com/geocoder89/cotobang/internal/http/handlers"
	"github.com/geocoder89/cotobang/internal/http/middlewares"
	"github.com/geocoder89/cotobang/internal/observability"
	"github.com/geocoder89/cotobang/internal/redisclient"
	"github.com/geocoder89/cotobang/internal/repo"
	"github.com/geocoder89/cotobang/internal/repo/memory"
	"github.com/geocoder89/cotobang/internal/repo/postgres"
	"github.com/geocoder89/cotobang/internal/security"
	"github.com/geocoder89/cotobang/internal/service"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	startCtx, cancel := config.WithTimeout(15 * time.Second)
	defer cancel()

	shutdownTracer, err := observability.InitTracer(startCtx, cfg.OTelServiceName, cfg.Env, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		ctx, cancel := config.WithTimeout(5 * time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	prom := observability.NewProm()
	checks := map[string]handlers.Check{}

	store, closeStore, err := openStore(startCtx, cfg, prom, log)
	if err != nil {
		return err
	}
	defer closeStore()
	checks["store"] = store.Ping

	hasher := security.NewBcrypt(bcrypt.DefaultCost)

	if err := db.EnsureAdminUser(startCtx, store, hasher, cfg); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	var limiter middlewares.Limiter

	if cfg.RedisAddr != "" {
		rdb := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		if err := rdb.Ping(startCtx); err != nil {
			log.Warn("redis not reachable at startup", "addr", cfg.RedisAddr, "err", err)
		}

		limiter = rdb.FixedWindow("cotobang:ratelimit:", cfg.RateLimit, cfg.RateWindow)
		checks["redis"] = rdb.Ping
	}

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	router := httpx.NewRouter(httpx.Deps{
		Config:   cfg,
		Log:      log,
		Prom:     prom,
		Tokens:   tokens,
		Users:    service.NewUserService(store, hasher, tokens),
		Coins:    service.NewCoinService(store),
		Comments: service.NewCommentService(store, authz.NewGate("")),
		Limiter:  limiter,
		Checks:   checks,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.StorageDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-serveErr:
		if ok {
			return err
		}
		return nil
	case <-stop:
	}

	log.Info("server shutting down")

	ctx, cancelShutdown := config.WithTimeout(10 * time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}

func openStore(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (repo.Store, func(), error) {
	switch cfg.StorageDriver {
	case "memory":
		log.Warn("using in-memory storage; data is lost on restart")
		return memory.NewStore(), func() {}, nil

	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}

		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}

		return postgres.NewStore(pool, prom), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}
