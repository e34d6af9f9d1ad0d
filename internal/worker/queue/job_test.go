package queue

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJob(t *testing.T) {
	job, err := NewJob("mint", map[string]string{"teamId": "T1"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(job.ID, "mint_"))
	assert.Equal(t, "mint", job.Name)
	assert.JSONEq(t, `{"teamId":"T1"}`, string(job.Data))
	assert.WithinDuration(t, time.Now(), job.EnqueuedAt, time.Second)

	_, err = NewJob("mint", make(chan int))
	assert.Error(t, err)
}

func TestJobRoundTripKeepsRawData(t *testing.T) {
	in := Job{ID: "j1", Name: "mint", Data: json.RawMessage(`{"teamId":"T1","extra":[1,2]}`), Attempts: 2}

	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out Job
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.JSONEq(t, string(in.Data), string(out.Data))
	assert.Equal(t, 2, out.Attempts)
}

func TestRetryPolicyDelay(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, Backoff: 5 * time.Second, MaxBackoff: 30 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 5 * time.Second},
		{1, 5 * time.Second},
		{2, 10 * time.Second},
		{3, 20 * time.Second},
		{4, 30 * time.Second},
		{40, 30 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Delay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestRetryPolicyExhausted(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3}

	assert.False(t, p.Exhausted(2, 0))
	assert.True(t, p.Exhausted(3, 0))
	assert.True(t, p.Exhausted(1, 1), "job-level max wins")
}

func TestHandlerFunc(t *testing.T) {
	var got string
	h := HandlerFunc(func(ctx context.Context, job *Job) error {
		got = job.ID
		return nil
	})
	require.NoError(t, h.ProcessJob(context.Background(), &Job{ID: "j9"}))
	assert.Equal(t, "j9", got)
}
