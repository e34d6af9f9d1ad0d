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
	"minter/internal/observability/metrics"
	"minter/internal/pkg/logger"
	"minter/internal/pkg/shutdown"
	"minter/internal/repositories"
	"minter/internal/storage"
	"minter/internal/worker"
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
		ServiceName: "minter-worker",
	})
	defer func() { _ = log.Sync() }()

	if err := cfg.ValidateWorker(); err != nil {
		log.LogFatal("invalid configuration", err)
	}

	log.Info("starting mint worker",
		"queue", cfg.Queue.Name,
		"engine", cfg.Queue.Engine,
		"concurrency", cfg.Queue.Concurrency,
		"chain_id", cfg.Chain.ChainID,
	)

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

	log.Info("connecting to chain RPC")
	minter, err := chain.Dial(ctx, chain.Config{
		RPCURL:          cfg.Chain.RPCURL,
		PrivateKey:      cfg.Chain.PrivateKey,
		ContractAddress: cfg.Chain.ContractAddress,
		ChainID:         cfg.Chain.ChainID,
	})
	if err != nil {
		log.LogFatal("failed to set up chain client", err)
	}
	shutdownMgr.RegisterSimple("chain", minter.Close)
	log.Info("chain client ready", "signer", minter.Address().Hex())

	sp, err := storage.NewProvider(ctx, cfg.Storage)
	if err != nil {
		log.LogFatal("failed to initialize storage provider", err)
	}

	engine, err := queue.Open(rdb, cfg.Redis.URL, queue.Options{
		Engine:      cfg.Queue.Engine,
		Name:        cfg.Queue.Name,
		TaskType:    processor.JobName,
		Concurrency: cfg.Queue.Concurrency,
		Retry: queue.RetryPolicy{
			MaxAttempts: cfg.Queue.Attempts,
			Backoff:     cfg.Queue.Backoff,
			MaxBackoff:  cfg.Queue.MaxBackoff,
		},
		ShutdownTimeout: 20 * time.Second,
	}, log)
	if err != nil {
		log.LogFatal("failed to open queue", err)
	}
	shutdownMgr.Register("queue", func(context.Context) error {
		return engine.Close()
	})

	if cfg.HTTP.MetricsAddr != "" {
		startMetricsServer(cfg.HTTP.MetricsAddr, log, shutdownMgr)
	}

	runCtx, cancel := context.WithCancel(ctx)
	stopped := make(chan struct{})
	var runErr error
	go func() {
		defer close(stopped)
		runErr = worker.Run(runCtx, worker.Deps{
			Consumer: engine,
			Minter:   minter,
			Teams:    teams,
			Storage:  sp,
			Log:      log,
		})
	}()

	// Registered last so it stops first, before the clients it uses close.
	shutdownMgr.Register("worker", func(ctx context.Context) error {
		cancel()
		select {
		case <-stopped:
			return runErr
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	// A worker that exits on its own takes the process down with it.
	waitCtx, stopWaiting := context.WithCancel(ctx)
	go func() {
		<-stopped
		stopWaiting()
	}()

	if err := shutdownMgr.WaitWithContext(waitCtx); err != nil {
		log.LogFatal("shutdown finished with errors", err)
	}
}

func startMetricsServer(addr string, log *logger.Logger, mgr *shutdown.Manager) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	mgr.Register("metrics-server", srv.Shutdown)

	go func() {
		log.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", "error", err.Error())
		}
	}()
}
