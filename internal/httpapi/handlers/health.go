package handlers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"minter/internal/httpkit"
)

const healthCheckTimeout = 5 * time.Second

// Health reports liveness. With ?deep=true it also pings every dependency
// and returns 503 when one of them is down.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	health := map[string]any{
		"status":  "ok",
		"service": "minter-api",
	}

	if r.URL.Query().Get("deep") != "true" {
		httpkit.WriteJSON(w, http.StatusOK, health)
		return
	}

	checks := h.deepHealthCheck(ctx)
	health["checks"] = checks

	status := http.StatusOK
	for name, check := range checks {
		if check["status"] != "ok" {
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
			h.log.FromContext(ctx).Warn("health check failed", "dependency", name, "error", check["error"])
		}
	}
	httpkit.WriteJSON(w, status, health)
}

// deepHealthCheck pings every dependency concurrently. A failed ping is
// reported in its result, never as a group error.
func (h *Handler) deepHealthCheck(ctx context.Context) map[string]map[string]any {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	results := make([]map[string]any, len(names))

	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			results[i] = runCheck(ctx, h.checks[name])
			return nil
		})
	}
	_ = g.Wait()

	checks := make(map[string]map[string]any, len(names))
	for i, name := range names {
		checks[name] = results[i]
	}
	return checks
}

func runCheck(ctx context.Context, p Pinger) map[string]any {
	start := time.Now()
	result := map[string]any{"status": "ok"}

	checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := p.Ping(checkCtx); err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
	}
	result["latency_ms"] = time.Since(start).Milliseconds()
	return result
}
