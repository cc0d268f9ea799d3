package tracker

import "github.com/prometheus/client_golang/prometheus"

// metrics instruments the tracked lifecycle. A nil *metrics is a valid
// no-op receiver, so the hot path never branches on configuration.
type metrics struct {
	live      prometheus.Gauge
	created   prometheus.Counter
	finalized prometheus.Counter
	refs      prometheus.Counter
	unrefs    prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "refscope_live_objects",
			Help: "Number of tracked objects currently alive.",
		}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refscope_objects_created_total",
			Help: "Total tracked object creations.",
		}),
		finalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refscope_objects_finalized_total",
			Help: "Total tracked object finalizations.",
		}),
		refs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refscope_refs_total",
			Help: "Total intercepted reference acquisitions.",
		}),
		unrefs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refscope_unrefs_total",
			Help: "Total intercepted reference releases.",
		}),
	}
	reg.MustRegister(m.live, m.created, m.finalized, m.refs, m.unrefs)
	return m
}

func (m *metrics) objectCreated() {
	if m == nil {
		return
	}
	m.created.Inc()
	m.live.Inc()
}

func (m *metrics) objectFinalized() {
	if m == nil {
		return
	}
	m.finalized.Inc()
	m.live.Dec()
}

func (m *metrics) refAcquired() {
	if m == nil {
		return
	}
	m.refs.Inc()
}

func (m *metrics) refReleased() {
	if m == nil {
		return
	}
	m.unrefs.Inc()
}
