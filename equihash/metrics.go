package equihash

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the §7 diagnostic counters (bfull, xfull, hfull) as
// Prometheus collectors, plus the per-round nslots histogram §7 mentions
// as an optional "spark-line" diagnostic. A Solver never registers it;
// callers register Collectors() themselves. A nil *Metrics in
// SolverOptions makes the solver skip every counter.
type Metrics struct {
	BucketFull    prometheus.Counter
	CollisionFull prometheus.Counter
	HashDupFull   prometheus.Counter
	SlotsPerRound prometheus.Histogram
}

// NewMetrics builds a Metrics set labelled with the given (N, K), ready to
// be passed to prometheus.MustRegister by the caller (the core package
// never registers on the default registry itself).
func NewMetrics(n, k uint32) *Metrics {
	labels := prometheus.Labels{"n": strconv.FormatUint(uint64(n), 10), "k": strconv.FormatUint(uint64(k), 10)}
	return &Metrics{
		BucketFull: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "equihash",
			Name:        "bucket_full_total",
			Help:        "Slots dropped because a bucket's NSLOTS allocation was exhausted.",
			ConstLabels: labels,
		}),
		CollisionFull: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "equihash",
			Name:        "collision_index_full_total",
			Help:        "Slots dropped because a collision index's XFULL allocation was exhausted.",
			ConstLabels: labels,
		}),
		HashDupFull: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "equihash",
			Name:        "hash_duplicate_total",
			Help:        "Pairs dropped by the duplicate-leading-word guard.",
			ConstLabels: labels,
		}),
		SlotsPerRound: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "equihash",
			Name:        "bucket_occupancy_slots",
			Help:        "Distribution of per-bucket slot occupancy at each round's drain.",
			ConstLabels: labels,
			Buckets:     prometheus.LinearBuckets(0, 4, 16),
		}),
	}
}

// Collectors returns every metric as a prometheus.Collector, for a single
// MustRegister(m.Collectors()...) call.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.BucketFull, m.CollisionFull, m.HashDupFull, m.SlotsPerRound}
}
