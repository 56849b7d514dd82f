package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncPassesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "waba_sync",
			Name:      "passes_total",
			Help:      "Total number of reconciliation passes, by outcome.",
		},
		[]string{"status"},
	)
	syncedWABAsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "waba_sync",
			Name:      "wabas_total",
			Help:      "Total number of WABAs reconciled across all passes.",
		},
	)
	syncedPhoneNumbersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "waba_sync",
			Name:      "phone_numbers_total",
			Help:      "Total number of phone numbers reconciled across all passes.",
		},
	)
	syncPassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "waba_sync",
			Name:      "pass_duration_seconds",
			Help:      "Duration of reconciliation passes.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)
