package handler

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// prometheusEpochs counts handled batches
	prometheusEpochs prometheus.Counter
	// prometheusAcceptedTransactions counts accepted transactions
	prometheusAcceptedTransactions prometheus.Counter
	// prometheusRejectedTransactions counts rejected transactions by rule
	prometheusRejectedTransactions *prometheus.CounterVec
	// prometheusCollectedFees sums the fees of accepted transactions
	prometheusCollectedFees prometheus.Counter
	// prometheusEpochDuration measures how long a batch takes
	prometheusEpochDuration prometheus.Histogram
)

var prometheusMetricsInitOnce sync.Once

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusEpochs = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "txhandler",
			Name:      "epochs",
			Help:      "Number of transaction batches handled",
		},
	)

	prometheusAcceptedTransactions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "txhandler",
			Name:      "accepted_transactions",
			Help:      "Number of transactions accepted into the ledger",
		},
	)

	prometheusRejectedTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "txhandler",
			Name:      "rejected_transactions",
			Help:      "Number of transactions rejected, by rule",
		},
		[]string{"reason"},
	)

	prometheusCollectedFees = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "txhandler",
			Name:      "collected_fees",
			Help:      "Sum of the fees of accepted transactions",
		},
	)

	prometheusEpochDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "txhandler",
			Name:      "epoch_duration_seconds",
			Help:      "Time taken to handle a transaction batch",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)
}
