// Package metrics holds the Prometheus collectors exported by minter.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "minter"

// Job results.
const (
	ResultCompleted = "completed"
	ResultRetried   = "retried"
	ResultFailed    = "failed"
)

var (
	jobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Mint jobs handled, by outcome",
		},
		[]string{"queue", "result"},
	)

	jobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Wall time of a single mint job attempt",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"queue"},
	)

	mintTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mint_transactions_total",
			Help:      "batchMint submissions, by result and error class",
		},
		[]string{"result", "error_class"},
	)

	teamUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "team_updates_total",
			Help:      "Team minted-flag updates, by result",
		},
		[]string{"result"},
	)

	queueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Jobs sitting in the queue, by state",
		},
		[]string{"queue", "state"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served",
		},
		[]string{"method", "route", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func RecordJob(queue, result string, elapsed time.Duration) {
	jobsTotal.WithLabelValues(queue, result).Inc()
	jobDuration.WithLabelValues(queue).Observe(elapsed.Seconds())
}

// RecordMintTransaction counts a batchMint call. errorClass is empty on success.
func RecordMintTransaction(errorClass string) {
	if errorClass == "" {
		mintTransactionsTotal.WithLabelValues("sent", "").Inc()
		return
	}
	mintTransactionsTotal.WithLabelValues("error", errorClass).Inc()
}

func RecordTeamUpdate(ok bool) {
	if ok {
		teamUpdatesTotal.WithLabelValues("updated").Inc()
		return
	}
	teamUpdatesTotal.WithLabelValues("error").Inc()
}

func SetQueueDepth(queue, state string, n int64) {
	queueDepth.WithLabelValues(queue, state).Set(float64(n))
}

func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
