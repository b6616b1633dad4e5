package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pricing holds the counters for draft writes and commits. A nil *Pricing records nothing.
type Pricing struct {
	draftRows      *prometheus.CounterVec
	commits        *prometheus.CounterVec
	promoted       *prometheus.CounterVec
	commitDuration prometheus.Histogram
}

func NewPricing(reg prometheus.Registerer) *Pricing {
	m := &Pricing{
		draftRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quote",
			Subsystem: "pricing",
			Name:      "draft_rows_written_total",
			Help:      "Draft rows written, by write path.",
		}, []string{"op"}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quote",
			Subsystem: "pricing",
			Name:      "commits_total",
			Help:      "Project commits, by result.",
		}, []string{"result"}),
		promoted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quote",
			Subsystem: "pricing",
			Name:      "promoted_rows_total",
			Help:      "Committed rows written from drafts, by store.",
		}, []string{"store"}),
		commitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quote",
			Subsystem: "pricing",
			Name:      "commit_duration_seconds",
			Help:      "Time spent in the commit transaction.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.draftRows, m.commits, m.promoted, m.commitDuration)
	return m
}

func (m *Pricing) DraftRowsWritten(op string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.draftRows.WithLabelValues(op).Add(float64(n))
}

func (m *Pricing) Commit(result string, prices, groups int, took time.Duration) {
	if m == nil {
		return
	}
	m.commits.WithLabelValues(result).Inc()
	m.commitDuration.Observe(took.Seconds())
	if prices > 0 {
		m.promoted.WithLabelValues("price").Add(float64(prices))
	}
	if groups > 0 {
		m.promoted.WithLabelValues("group_option").Add(float64(groups))
	}
}
