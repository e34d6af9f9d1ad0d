package queue

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"minter/internal/observability/metrics"
	"minter/internal/pkg/errors"
	"minter/internal/pkg/logger"
	"minter/internal/worker/util"
)

// AsynqOptions tunes the asynq-backed engine.
type AsynqOptions struct {
	Name        string
	TaskType    string
	Concurrency int
	Retry       RetryPolicy
	// ShutdownTimeout is how long in-flight tasks get after Consume's ctx ends.
	ShutdownTimeout time.Duration
	// PollInterval is how often the server looks for new and due tasks.
	// Zero keeps asynq's defaults.
	PollInterval time.Duration
	// DepthInterval is how often queue depth is exported while consuming.
	DepthInterval time.Duration
}

// AsynqQueue runs jobs through hibiken/asynq on the same Redis instance.
// Retries, scheduling and archiving are delegated to asynq.
type AsynqQueue struct {
	redisOpt  asynq.RedisConnOpt
	client    *asynq.Client
	inspector *asynq.Inspector
	opts      AsynqOptions
	log       *logger.Logger
}

func NewAsynqQueue(redisURL string, opts AsynqOptions, log *logger.Logger) (*AsynqQueue, error) {
	redisOpt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeValidation, "queue.asynq.new", "parse REDIS_URL").
			WithField("field", "REDIS_URL")
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Retry.MaxAttempts < 1 {
		opts.Retry.MaxAttempts = 1
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 30 * time.Second
	}
	if opts.DepthInterval <= 0 {
		opts.DepthInterval = 15 * time.Second
	}
	return &AsynqQueue{
		redisOpt:  redisOpt,
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		opts:      opts,
		log:       log.WithComponent("queue").WithFields(map[string]any{"queue": opts.Name, "engine": "asynq"}),
	}, nil
}

// Enqueue submits job as an asynq task whose payload is job.Data.
func (q *AsynqQueue) Enqueue(ctx context.Context, job *Job) (*Job, error) {
	const op = "queue.asynq.enqueue"

	stored := *job
	if stored.ID == "" {
		stored.ID = util.NewID(stored.Name)
	}
	if stored.EnqueuedAt.IsZero() {
		stored.EnqueuedAt = time.Now().UTC()
	}
	if stored.MaxAttempts <= 0 {
		stored.MaxAttempts = q.opts.Retry.MaxAttempts
	}
	stored.Attempts = 0

	task := asynq.NewTask(stored.Name, stored.Data)
	info, err := q.client.EnqueueContext(ctx, task, q.taskOptions(&stored)...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return nil, errors.WrapWithCode(err, errors.CodeConflict, op, "task already queued").
				WithField("job_id", stored.ID)
		}
		return nil, errors.WrapWithCode(err, errors.CodeQueue, op, "enqueue task")
	}
	stored.ID = info.ID
	return &stored, nil
}

func (q *AsynqQueue) taskOptions(job *Job) []asynq.Option {
	return []asynq.Option{
		asynq.TaskID(job.ID),
		asynq.Queue(q.opts.Name),
		asynq.MaxRetry(job.MaxAttempts - 1),
	}
}

// Consume starts an asynq server and blocks until ctx is done, exporting
// queue depth meanwhile.
func (q *AsynqQueue) Consume(ctx context.Context, h Handler) error {
	srv := asynq.NewServer(q.redisOpt, q.serverConfig())

	mux := asynq.NewServeMux()
	mux.HandleFunc(q.opts.TaskType, func(ctx context.Context, t *asynq.Task) error {
		return q.process(ctx, t, h)
	})

	if err := srv.Start(mux); err != nil {
		return errors.WrapWithCode(err, errors.CodeQueue, "queue.asynq.consume", "start server")
	}
	q.log.Info("consumer started", "concurrency", q.opts.Concurrency)

	q.depthLoop(ctx)
	srv.Shutdown()
	q.log.Info("consumer stopped")
	return nil
}

func (q *AsynqQueue) depthLoop(ctx context.Context) {
	ticker := time.NewTicker(q.opts.DepthInterval)
	defer ticker.Stop()

	for {
		if _, err := q.Stats(ctx); err != nil && ctx.Err() == nil {
			q.log.Warn("read queue depth failed", "error", err.Error())
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (q *AsynqQueue) serverConfig() asynq.Config {
	return asynq.Config{
		Concurrency:              q.opts.Concurrency,
		TaskCheckInterval:        q.opts.PollInterval,
		DelayedTaskCheckInterval: q.opts.PollInterval,
		Queues:                   map[string]int{q.opts.Name: 1},
		RetryDelayFunc:           q.retryDelay,
		ShutdownTimeout:          q.opts.ShutdownTimeout,
		Logger:                   asynqLogger{log: q.log},
		LogLevel:                 asynq.WarnLevel,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, t *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			q.log.Warn("task failed",
				"type", t.Type(),
				"retried", retried,
				"max_retry", maxRetry,
				"error", err.Error(),
			)
		}),
	}
}

// retryDelay maps asynq's retry count (failures so far minus one) onto
// the shared policy.
func (q *AsynqQueue) retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	return q.opts.Retry.Delay(n + 1)
}

func (q *AsynqQueue) process(ctx context.Context, t *asynq.Task, h Handler) error {
	job := jobFromTask(ctx, t)
	ctx = logger.ContextWithJobID(ctx, job.ID)

	start := time.Now()
	err := h.ProcessJob(ctx, job)
	metrics.RecordJob(q.opts.Name, attemptResult(job, err), time.Since(start))
	return err
}

func attemptResult(job *Job, err error) string {
	switch {
	case err == nil:
		return metrics.ResultCompleted
	case job.Attempts >= job.MaxAttempts:
		return metrics.ResultFailed
	default:
		return metrics.ResultRetried
	}
}

func jobFromTask(ctx context.Context, t *asynq.Task) *Job {
	job := &Job{Name: t.Type(), Data: t.Payload(), Attempts: 1, MaxAttempts: 1}
	if id, ok := asynq.GetTaskID(ctx); ok {
		job.ID = id
	}
	if retried, ok := asynq.GetRetryCount(ctx); ok {
		job.Attempts = retried + 1
	}
	if maxRetry, ok := asynq.GetMaxRetry(ctx); ok {
		job.MaxAttempts = maxRetry + 1
	}
	return job
}

func (q *AsynqQueue) Stats(ctx context.Context) (Stats, error) {
	info, err := q.inspector.GetQueueInfo(q.opts.Name)
	if err != nil {
		if errors.Is(err, asynq.ErrQueueNotFound) {
			return Stats{}, nil
		}
		return Stats{}, errors.WrapWithCode(err, errors.CodeQueue, "queue.asynq.stats", "queue info")
	}
	st := Stats{
		Waiting: int64(info.Pending + info.Active),
		Delayed: int64(info.Scheduled + info.Retry),
		Failed:  int64(info.Archived),
	}
	metrics.SetQueueDepth(q.opts.Name, "waiting", st.Waiting)
	metrics.SetQueueDepth(q.opts.Name, "delayed", st.Delayed)
	metrics.SetQueueDepth(q.opts.Name, "failed", st.Failed)
	return st, nil
}

func (q *AsynqQueue) Close() error {
	return errors.Join(q.client.Close(), q.inspector.Close())
}

// asynqLogger routes asynq's internal logging through our logger.
type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...any) { l.log.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { l.log.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { l.log.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { l.log.Error(fmt.Sprint(args...)) }

func (l asynqLogger) Fatal(args ...any) {
	l.log.Error(fmt.Sprint(args...))
	_ = l.log.Sync()
	os.Exit(1)
}
