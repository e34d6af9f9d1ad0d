// Package queue defines the job contract between the mint handler and the
// queue engines that deliver jobs to it.
package queue

import (
	"context"
	"encoding/json"
	"time"

	"minter/internal/pkg/errors"
	"minter/internal/worker/util"
)

// Job is one unit of work as stored on the queue.
type Job struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
	// Attempts counts deliveries, including the current one.
	Attempts    int       `json:"attempts"`
	MaxAttempts int       `json:"maxAttempts"`
	EnqueuedAt  time.Time `json:"enqueuedAt"`
	LastError   string    `json:"lastError,omitempty"`
}

// NewJob marshals payload into a fresh job envelope.
func NewJob(name string, payload any) (*Job, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeValidation, "queue.new_job", "marshal payload")
	}
	return &Job{
		ID:         util.NewID(name),
		Name:       name,
		Data:       data,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}

// Handler processes a single delivered job. A non-nil error marks the
// attempt failed and leaves retry decisions to the engine.
type Handler interface {
	ProcessJob(ctx context.Context, job *Job) error
}

type HandlerFunc func(ctx context.Context, job *Job) error

func (f HandlerFunc) ProcessJob(ctx context.Context, job *Job) error {
	return f(ctx, job)
}

// Consumer delivers jobs to h until ctx is canceled.
type Consumer interface {
	Consume(ctx context.Context, h Handler) error
}

// Enqueuer adds a job and returns it as stored.
type Enqueuer interface {
	Enqueue(ctx context.Context, job *Job) (*Job, error)
}

// Stats is a point-in-time view of the queue.
type Stats struct {
	Waiting int64 `json:"waiting"`
	Delayed int64 `json:"delayed"`
	Failed  int64 `json:"failed"`
}

// Engine is a queue backend usable by both the worker and the API.
type Engine interface {
	Consumer
	Enqueuer
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// RetryPolicy is exponential backoff with a cap.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
	MaxBackoff  time.Duration
}

// Delay returns the wait after the given failed attempt (1-based):
// Backoff * 2^(attempt-1), capped at MaxBackoff.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.Backoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxBackoff > 0 && d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// Exhausted reports whether a job that failed attempt n may not run again.
func (p RetryPolicy) Exhausted(attempt, maxAttempts int) bool {
	if maxAttempts <= 0 {
		maxAttempts = p.MaxAttempts
	}
	return attempt >= maxAttempts
}
