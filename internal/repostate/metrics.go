package repostate

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeChanged   = "changed"
	outcomeUnchanged = "unchanged"
	outcomeAbandoned = "abandoned"
)

type metrics struct {
	refreshes       *prometheus.CounterVec
	queryFailures   *prometheus.CounterVec
	refreshDuration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "repopulse",
			Name:      "refreshes_total",
			Help:      "Completed refresh cycles by outcome.",
		}, []string{"outcome"}),
		queryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "repopulse",
			Name:      "query_failures_total",
			Help:      "External query failures by query kind.",
		}, []string{"query"}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "repopulse",
			Name:      "refresh_duration_seconds",
			Help:      "Wall time of a refresh cycle.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.refreshes, m.queryFailures, m.refreshDuration)
	}

	return m
}

func (m *metrics) observeOutcome(outcome string) {
	m.refreshes.WithLabelValues(outcome).Inc()
}

func (m *metrics) observeFailures(failures []QueryError) {
	for _, f := range failures {
		m.queryFailures.WithLabelValues(f.Query).Inc()
	}
}
