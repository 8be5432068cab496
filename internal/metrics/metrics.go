// Package metrics holds the Prometheus collectors for the forum service and
// the handler that exposes them.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// replyOperations counts reply operations by operation and result
	replyOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forum_reply_operations_total",
		Help: "Reply operations by operation and result",
	}, []string{"operation", "result"})

	// repliesRemoved counts replies removed by cascade deletes, targets included
	repliesRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forum_replies_removed_total",
		Help: "Replies removed by deletes, descendants included",
	})

	// forestBuildDuration tracks how long it takes to nest a post's replies
	forestBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forum_reply_forest_build_seconds",
		Help:    "Time spent building a reply forest",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	// forestSize tracks the number of replies per built forest
	forestSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forum_reply_forest_size",
		Help:    "Replies per built forest",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
	})

	// saveConflicts counts writes rejected because the post changed underneath
	saveConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forum_post_save_conflicts_total",
		Help: "Post writes rejected by the version check",
	})
)

// Result labels
const (
	ResultOK          = "ok"
	ResultClientError = "client_error"
	ResultServerError = "server_error"
)

// ObserveReplyOperation records the outcome of a reply operation
func ObserveReplyOperation(operation, result string) {
	replyOperations.WithLabelValues(operation, result).Inc()
}

// ObserveRepliesRemoved records how many replies a delete removed
func ObserveRepliesRemoved(n int) {
	repliesRemoved.Add(float64(n))
}

// ObserveForestBuild records the size and duration of one forest build
func ObserveForestBuild(size int, took time.Duration) {
	forestSize.Observe(float64(size))
	forestBuildDuration.Observe(took.Seconds())
}

// ObserveSaveConflict records a rejected post write
func ObserveSaveConflict() {
	saveConflicts.Inc()
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
