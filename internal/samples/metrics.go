package samples

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Merge metrics. The dropped-override gauge exists because the merge drops
// override-only sample IDs silently; operators watch it to tell in-progress
// samples apart from upstream data loss.
var (
	mergesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "samplecat_merges_total",
		Help: "Completed sample database merges.",
	})
	mergeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "samplecat_merge_failures_total",
		Help: "Merge passes aborted by a missing or malformed source.",
	})
	mergeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "samplecat_merge_duration_seconds",
		Help:    "Wall time of a full merge pass including persistence.",
		Buckets: prometheus.DefBuckets,
	})
	droppedOverrideKeys = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "samplecat_dropped_override_keys",
		Help: "Augment entries with no matching transformation entry in the last merge.",
	})
)
