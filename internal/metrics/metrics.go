package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PayloadsTotal counts DAO creation payloads by outcome: accepted, malformed,
	// parse_error or rejected.
	PayloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dao_payloads_total",
			Help: "Total number of DAO creation payloads received",
		},
		[]string{"outcome"},
	)

	// ValidationRejections counts payload rejections by kind and field.
	ValidationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dao_validation_rejections_total",
			Help: "Total number of payload validation rejections",
		},
		[]string{"kind", "field"},
	)

	// DaosCreated counts created DAOs by token source (new or existing).
	DaosCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dao_created_total",
			Help: "Total number of DAOs created",
		},
		[]string{"token_source"},
	)

	// CreateDuration tracks the full DAO creation flow.
	CreateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dao_create_duration_seconds",
			Help:    "DAO creation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CouncilInitializations counts membership initialisations by status:
	// replaced, unchanged or failed.
	CouncilInitializations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dao_council_initializations_total",
			Help: "Total number of council membership initialisations",
		},
		[]string{"status"},
	)

	// DaoCount tracks the number of stored DAOs.
	DaoCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dao_count",
			Help: "Number of DAOs currently stored",
		},
	)
)
