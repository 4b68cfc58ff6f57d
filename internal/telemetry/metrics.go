package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ClassificationsTotal counts classified login attempts by outcome
	// (benign, threat, unscored)
	ClassificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "authgate",
			Name:      "classifications_total",
			Help:      "Total number of login attempts run through the classification gate",
		},
		[]string{"outcome"},
	)

	// ClassifierErrors counts failed oracle calls by error kind
	ClassifierErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "authgate",
			Name:      "classifier_errors_total",
			Help:      "Total number of failed classifier calls",
		},
		[]string{"kind"},
	)

	// ThreatsBlocked counts blocking verdicts by threat type
	ThreatsBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "authgate",
			Name:      "threats_blocked_total",
			Help:      "Total number of login attempts blocked by the gate",
		},
		[]string{"type"},
	)

	// BlacklistHits counts requests rejected by the blacklist middleware
	BlacklistHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "authgate",
			Name:      "blacklist_hits_total",
			Help:      "Total number of requests rejected because the source IP is blacklisted",
		},
	)

	// PersistenceErrors counts failed ledger/blacklist/audit writes after a verdict
	PersistenceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "authgate",
			Name:      "persistence_errors_total",
			Help:      "Total number of failed writes following a classification verdict",
		},
		[]string{"store"},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// This function is idempotent and can be called multiple times safely.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(ClassificationsTotal)
		prometheus.DefaultRegisterer.Register(ClassifierErrors)
		prometheus.DefaultRegisterer.Register(ThreatsBlocked)
		prometheus.DefaultRegisterer.Register(BlacklistHits)
		prometheus.DefaultRegisterer.Register(PersistenceErrors)
	})
}
