package queue

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"minter/internal/pkg/errors"
	"minter/internal/pkg/logger"
)

const (
	EngineRedis = "redis"
	EngineAsynq = "asynq"
)

// Options selects and configures an Engine.
type Options struct {
	Engine          string
	Name            string
	TaskType        string
	Concurrency     int
	Retry           RetryPolicy
	ShutdownTimeout time.Duration
}

// Open builds the engine named by opts.Engine. The redis engine shares rdb;
// asynq opens its own connections from redisURL.
func Open(rdb *redis.Client, redisURL string, opts Options, log *logger.Logger) (Engine, error) {
	switch opts.Engine {
	case EngineRedis, "":
		return NewRedisQueue(rdb, RedisOptions{
			Name:        opts.Name,
			Concurrency: opts.Concurrency,
			Retry:       opts.Retry,
		}, log), nil
	case EngineAsynq:
		return NewAsynqQueue(redisURL, AsynqOptions{
			Name:            opts.Name,
			TaskType:        opts.TaskType,
			Concurrency:     opts.Concurrency,
			Retry:           opts.Retry,
			ShutdownTimeout: opts.ShutdownTimeout,
		}, log)
	default:
		return nil, errors.ValidationField("QUEUE_ENGINE", fmt.Sprintf("unknown queue engine %q", opts.Engine))
	}
}
