package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"minter/internal/chain"
	"minter/internal/config"
	"minter/internal/httpapi"
	"minter/internal/httpapi/handlers"
	"minter/internal/pkg/logger"
	"minter/internal/pkg/shutdown"
	"minter/internal/repositories"
	"minter/internal/worker/processor"
	"minter/internal/worker/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		AddSource:   cfg.Log.AddSource,
		ServiceName: "minter-api",
	})
	defer func() { _ = log.Sync() }()

	if err := cfg.ValidateAPI(); err != nil {
		log.LogFatal("invalid configuration", err)
	}
	log.Info("starting minter API", "queue", cfg.Queue.Name, "engine", cfg.Queue.Engine)

	ctx := context.Background()
	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	log.Info("connecting to PostgreSQL")
	pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		log.LogFatal("failed to connect to PostgreSQL", err)
	}
	shutdownMgr.RegisterSimple("postgres", pool.Close)
	if err := pool.Ping(ctx); err != nil {
		log.LogFatal("failed to ping PostgreSQL", err)
	}
	teams := repositories.NewTeamRepository(pool)
	if cfg.Postgres.RunMigrations {
		if err := teams.EnsureSchema(ctx); err != nil {
			log.LogFatal("failed to ensure teams schema", err)
		}
	}
	log.Info("PostgreSQL connected")

	log.Info("connecting to Redis")
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.LogFatal("invalid REDIS_URL", err)
	}
	rdb := redis.NewClient(redisOpts)
	shutdownMgr.Register("redis", func(context.Context) error {
		return rdb.Close()
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.LogFatal("failed to ping Redis", err)
	}
	log.Info("Redis connected")

	engine, err := queue.Open(rdb, cfg.Redis.URL, queue.Options{
		Engine:   cfg.Queue.Engine,
		Name:     cfg.Queue.Name,
		TaskType: processor.JobName,
		Retry: queue.RetryPolicy{
			MaxAttempts: cfg.Queue.Attempts,
			Backoff:     cfg.Queue.Backoff,
			MaxBackoff:  cfg.Queue.MaxBackoff,
		},
	}, log)
	if err != nil {
		log.LogFatal("failed to open queue", err)
	}
	shutdownMgr.Register("queue", func(context.Context) error {
		return engine.Close()
	})

	checks := map[string]handlers.Pinger{
		"postgres": pool,
		"redis": handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}),
	}
	if cfg.Chain.RPCURL != "" {
		rpc, err := chain.DialReader(ctx, cfg.Chain.RPCURL)
		if err != nil {
			log.LogFatal("invalid RPC_URL", err)
		}
		shutdownMgr.RegisterSimple("chain-rpc", rpc.Close)
		checks["chain"] = rpc
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Teams:          teams,
		Queue:          engine,
		Checks:         checks,
		Log:            log,
		AllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	if err := shutdownMgr.Wait(); err != nil {
		log.LogFatal("shutdown finished with errors", err)
	}
}
