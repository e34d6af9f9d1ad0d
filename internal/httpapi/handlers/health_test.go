package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minter/internal/pkg/logger"
)

func TestDeepHealthRunsChecksConcurrently(t *testing.T) {
	slow := func(err error) Pinger {
		return PingFunc(func(ctx context.Context) error {
			select {
			case <-time.After(200 * time.Millisecond):
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	h := New(Deps{
		Checks: map[string]Pinger{
			"postgres": slow(nil),
			"redis":    slow(nil),
			"chain":    slow(assert.AnError),
		},
		Log: logger.New(logger.Config{Level: "error", Output: io.Discard}),
	})

	rec := httptest.NewRecorder()
	start := time.Now()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health?deep=true", nil))
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 550*time.Millisecond, "checks ran one after another")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status string                    `json:"status"`
		Checks map[string]map[string]any `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	require.Len(t, body.Checks, 3)
	assert.Equal(t, "ok", body.Checks["postgres"]["status"])
	assert.Equal(t, "ok", body.Checks["redis"]["status"])
	assert.Equal(t, "error", body.Checks["chain"]["status"])
	assert.Equal(t, assert.AnError.Error(), body.Checks["chain"]["error"])
}
