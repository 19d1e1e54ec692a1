// Package metrics aggregates generated-transaction statistics. Counters are
// registered on the default Prometheus registry; the benchmark harness
// scrapes or dumps them at the end of a run.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TxnsGenerated counts generated transactions by family, transaction
	// type and intended placement.
	TxnsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gaia",
		Subsystem: "workload",
		Name:      "txns_generated_total",
		Help:      "Transactions produced by the workload generators.",
	}, []string{"workload", "txn", "placement"})

	// SunflowerRedirects counts transactions redirected by a sunflower
	// schedule.
	SunflowerRedirects = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gaia",
		Subsystem: "workload",
		Name:      "sunflower_redirects_total",
		Help:      "Transactions redirected to a sunflower target region.",
	}, []string{"workload"})
)

// Placement renders the canonical placement label of a profile.
func Placement(multiHome, multiPartition bool) string {
	switch {
	case multiHome && multiPartition:
		return "mh_mp"
	case multiHome:
		return "mh_sp"
	case multiPartition:
		return "sh_mp"
	default:
		return "sh_sp"
	}
}
