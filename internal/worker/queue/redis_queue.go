package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"minter/internal/observability/metrics"
	"minter/internal/pkg/errors"
	"minter/internal/pkg/logger"
	"minter/internal/worker/util"
)

// promoteScript moves due members of the delayed set onto the list.
// KEYS[1] delayed zset, KEYS[2] list. ARGV[1] now (ms), ARGV[2] batch size.
var promoteScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, tonumber(ARGV[2]))
for _, member in ipairs(due) do
	redis.call('ZREM', KEYS[1], member)
	redis.call('LPUSH', KEYS[2], member)
end
return #due
`)

const promoteBatch = 100

// RedisOptions tunes the list-based engine.
type RedisOptions struct {
	Name        string
	Concurrency int
	Retry       RetryPolicy
	// BlockTimeout bounds each BRPOP. go-redis rounds values under 1s up.
	BlockTimeout time.Duration
	// PromoteInterval is how often due retries are moved back to the list.
	PromoteInterval time.Duration
}

// RedisQueue stores jobs as JSON on a Redis list (LPUSH/BRPOP). Failed
// attempts wait in <name>:delayed and exhausted jobs land in <name>:failed.
type RedisQueue struct {
	rdb  *redis.Client
	opts RedisOptions
	log  *logger.Logger
}

func NewRedisQueue(rdb *redis.Client, opts RedisOptions, log *logger.Logger) *RedisQueue {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Retry.MaxAttempts < 1 {
		opts.Retry.MaxAttempts = 1
	}
	if opts.BlockTimeout <= 0 {
		opts.BlockTimeout = 5 * time.Second
	}
	if opts.PromoteInterval <= 0 {
		opts.PromoteInterval = time.Second
	}
	return &RedisQueue{
		rdb:  rdb,
		opts: opts,
		log:  log.WithComponent("queue").WithFields(map[string]any{"queue": opts.Name}),
	}
}

func (q *RedisQueue) delayedKey() string { return q.opts.Name + ":delayed" }
func (q *RedisQueue) failedKey() string  { return q.opts.Name + ":failed" }

// Enqueue pushes job onto the list, filling id, timestamps and limits.
func (q *RedisQueue) Enqueue(ctx context.Context, job *Job) (*Job, error) {
	const op = "queue.redis.enqueue"

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

	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, op, "marshal job")
	}
	if err := q.rdb.LPush(ctx, q.opts.Name, raw).Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeQueue, op, "lpush")
	}
	return &stored, nil
}

// Pop blocks up to BlockTimeout. It returns nil, nil when nothing arrived.
func (q *RedisQueue) Pop(ctx context.Context) (*Job, error) {
	res, err := q.rdb.BRPop(ctx, q.opts.BlockTimeout, q.opts.Name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.WrapWithCode(err, errors.CodeQueue, "queue.redis.pop", "brpop")
	}
	if len(res) < 2 {
		return nil, nil
	}

	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		// Unreadable envelopes cannot be retried; park them for inspection.
		q.log.Error("dropping malformed job envelope", "error", err.Error())
		if perr := q.rdb.LPush(context.WithoutCancel(ctx), q.failedKey(), res[1]).Err(); perr != nil {
			q.log.Error("dead-letter push failed", "error", perr.Error())
		}
		return nil, nil
	}
	return &job, nil
}

// Consume runs Concurrency pollers plus one promoter until ctx is done.
func (q *RedisQueue) Consume(ctx context.Context, h Handler) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q.promoteLoop(gctx)
		return nil
	})
	for i := 0; i < q.opts.Concurrency; i++ {
		g.Go(func() error {
			q.pollLoop(gctx, h)
			return nil
		})
	}

	q.log.Info("consumer started", "concurrency", q.opts.Concurrency)
	err := g.Wait()
	q.log.Info("consumer stopped")
	return err
}

func (q *RedisQueue) pollLoop(ctx context.Context, h Handler) {
	for ctx.Err() == nil {
		job, err := q.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			q.log.Warn("queue pop error, retrying", "error", err.Error())
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		if job == nil {
			continue
		}
		q.handle(ctx, job, h)
	}
}

// handle runs one attempt. The attempt and its bookkeeping are detached from
// ctx so that shutdown lets an in-flight mint finish and be recorded.
func (q *RedisQueue) handle(ctx context.Context, job *Job, h Handler) {
	runCtx := logger.ContextWithJobID(context.WithoutCancel(ctx), job.ID)
	log := q.log.WithJobID(job.ID)

	job.Attempts++
	if job.MaxAttempts <= 0 {
		job.MaxAttempts = q.opts.Retry.MaxAttempts
	}

	start := time.Now()
	log.Info("processing job", "attempt", job.Attempts, "max_attempts", job.MaxAttempts)

	err := q.run(runCtx, log, job, h)
	elapsed := time.Since(start)
	if err == nil {
		log.Info("job completed", "duration_ms", elapsed.Milliseconds())
		metrics.RecordJob(q.opts.Name, metrics.ResultCompleted, elapsed)
		return
	}

	job.LastError = err.Error()
	if q.opts.Retry.Exhausted(job.Attempts, job.MaxAttempts) {
		log.Error("job failed permanently",
			"error", err.Error(),
			"attempt", job.Attempts,
			"duration_ms", elapsed.Milliseconds(),
		)
		metrics.RecordJob(q.opts.Name, metrics.ResultFailed, elapsed)
		if derr := q.deadLetter(runCtx, job); derr != nil {
			log.Error("dead-letter push failed", "error", derr.Error())
		}
		return
	}

	delay := q.opts.Retry.Delay(job.Attempts)
	log.Warn("job failed, scheduling retry",
		"error", err.Error(),
		"attempt", job.Attempts,
		"retry_in", delay.String(),
		"duration_ms", elapsed.Milliseconds(),
	)
	metrics.RecordJob(q.opts.Name, metrics.ResultRetried, elapsed)
	if serr := q.schedule(runCtx, job, time.Now().Add(delay)); serr != nil {
		log.Error("retry schedule failed", "error", serr.Error())
	}
}

// run calls the handler, turning a panic into an ordinary failed attempt so
// the job goes through retry instead of taking the consumer down.
func (q *RedisQueue) run(ctx context.Context, log *logger.Logger, job *Job, h Handler) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("job handler panicked", "panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
			err = errors.Newf(errors.CodeInternal, "handler panic: %v", rec)
		}
	}()
	return h.ProcessJob(ctx, job)
}

func (q *RedisQueue) schedule(ctx context.Context, job *Job, at time.Time) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "queue.redis.schedule", "marshal job")
	}
	err = q.rdb.ZAdd(ctx, q.delayedKey(), redis.Z{Score: float64(at.UnixMilli()), Member: raw}).Err()
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeQueue, "queue.redis.schedule", "zadd")
	}
	return nil
}

func (q *RedisQueue) deadLetter(ctx context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "queue.redis.dead_letter", "marshal job")
	}
	if err := q.rdb.LPush(ctx, q.failedKey(), raw).Err(); err != nil {
		return errors.WrapWithCode(err, errors.CodeQueue, "queue.redis.dead_letter", "lpush")
	}
	return nil
}

// Promote moves every due retry back onto the list and returns the count.
func (q *RedisQueue) Promote(ctx context.Context, now time.Time) (int, error) {
	n, err := promoteScript.Run(ctx, q.rdb,
		[]string{q.delayedKey(), q.opts.Name},
		strconv.FormatInt(now.UnixMilli(), 10), promoteBatch,
	).Int()
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.CodeQueue, "queue.redis.promote", "run promote script")
	}
	return n, nil
}

func (q *RedisQueue) promoteLoop(ctx context.Context) {
	ticker := time.NewTicker(q.opts.PromoteInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		for {
			n, err := q.Promote(ctx, time.Now())
			if err != nil {
				if ctx.Err() == nil {
					q.log.Warn("promote delayed jobs failed", "error", err.Error())
				}
				break
			}
			if n > 0 {
				q.log.Debug("promoted delayed jobs", "count", n)
			}
			if n < promoteBatch {
				break
			}
		}
		q.reportDepth(ctx)
	}
}

func (q *RedisQueue) reportDepth(ctx context.Context) {
	st, err := q.Stats(ctx)
	if err != nil {
		return
	}
	metrics.SetQueueDepth(q.opts.Name, "waiting", st.Waiting)
	metrics.SetQueueDepth(q.opts.Name, "delayed", st.Delayed)
	metrics.SetQueueDepth(q.opts.Name, "failed", st.Failed)
}

func (q *RedisQueue) Stats(ctx context.Context) (Stats, error) {
	pipe := q.rdb.Pipeline()
	waiting := pipe.LLen(ctx, q.opts.Name)
	delayed := pipe.ZCard(ctx, q.delayedKey())
	failed := pipe.LLen(ctx, q.failedKey())
	if _, err := pipe.Exec(ctx); err != nil {
		return Stats{}, errors.WrapWithCode(err, errors.CodeQueue, "queue.redis.stats", "read queue sizes")
	}
	return Stats{Waiting: waiting.Val(), Delayed: delayed.Val(), Failed: failed.Val()}, nil
}

// Close is a no-op; the Redis client belongs to the caller.
func (q *RedisQueue) Close() error {
	return nil
}
