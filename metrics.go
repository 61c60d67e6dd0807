package hoteldash

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var allStates = []LoadState{StateLoading, StateLoaded, StateFailed}

// metrics holds the per-dashboard Prometheus collectors.
type metrics struct {
	gatherer prometheus.Gatherer
	polls    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	dropped  *prometheus.CounterVec
	state    *prometheus.GaugeVec
}

// newMetrics registers the dashboard collectors with reg. A nil reg gets a
// fresh registry, so several dashboards can run in one process.
func newMetrics(reg *prometheus.Registry) (*metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &metrics{
		gatherer: reg,
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hoteldash_polls_total",
			Help: "Committed polls per panel by outcome (success or failure).",
		}, []string{"panel", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hoteldash_poll_duration_seconds",
			Help:    "Latency of committed polls per panel.",
			Buckets: prometheus.DefBuckets,
		}, []string{"panel"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hoteldash_stale_results_dropped_total",
			Help: "Poll results discarded because a newer result was already committed or the panel had stopped.",
		}, []string{"panel"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hoteldash_panel_state",
			Help: "1 for the panel's current load state, 0 for the others.",
		}, []string{"panel", "state"}),
	}

	for _, c := range []prometheus.Collector{m.polls, m.latency, m.dropped, m.state} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// handler serves the registry in the Prometheus exposition format.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// observeCommit records a committed poll.
func (m *metrics) observeCommit(snap Snapshot) {
	outcome := "success"
	if snap.State == StateFailed {
		outcome = "failure"
	}
	m.polls.WithLabelValues(snap.Panel, outcome).Inc()
	m.latency.WithLabelValues(snap.Panel).Observe(snap.Latency.Seconds())
	m.setState(snap.Panel, snap.State)
}

// observeDrop records a discarded poll result.
func (m *metrics) observeDrop(panel string) {
	m.dropped.WithLabelValues(panel).Inc()
}

func (m *metrics) setState(panel string, current LoadState) {
	for _, s := range allStates {
		v := 0.0
		if s == current {
			v = 1
		}
		m.state.WithLabelValues(panel, string(s)).Set(v)
	}
}
