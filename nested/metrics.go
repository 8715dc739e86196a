// SPDX-License-Identifier: MIT

package nested

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the sampler's Prometheus collectors. Every collector is
// labelled by "run" so concurrent chains share one registry.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// iterations counts retired points.
	// Labels: run
	iterations *prometheus.CounterVec

	// proposals counts MCMC proposals.
	// Labels: run
	proposals *prometheus.CounterVec

	// accepted counts accepted MCMC proposals.
	// Labels: run
	accepted *prometheus.CounterVec

	// pdRetries counts covariance positive-definiteness recoveries.
	// Labels: run
	pdRetries *prometheus.CounterVec

	// stallRetries counts replacements restarted after zero acceptance.
	// Labels: run
	stallRetries *prometheus.CounterVec

	logZ    *prometheus.GaugeVec
	deltaZ  *prometheus.GaugeVec
	logLMax *prometheus.GaugeVec
	info    *prometheus.GaugeVec

	// duration observes wall time of complete runs.
	// Labels: run
	duration *prometheus.HistogramVec
}

// NewMetrics registers the sampler collectors on reg. Registering twice on
// the same registry panics, as with promauto.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	labels := []string{"run"}
	counter := func(name, help string) *prometheus.CounterVec {
		return f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nestsampler",
			Subsystem: "nested",
			Name:      name,
			Help:      help,
		}, labels)
	}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "nestsampler",
			Subsystem: "nested",
			Name:      name,
			Help:      help,
		}, labels)
	}

	return &Metrics{
		iterations:   counter("iterations_total", "Total live points retired"),
		proposals:    counter("proposals_total", "Total MCMC proposals"),
		accepted:     counter("accepted_total", "Total accepted MCMC proposals"),
		pdRetries:    counter("pd_retries_total", "Total covariance positive-definiteness recoveries"),
		stallRetries: counter("stall_retries_total", "Total replacements restarted after zero acceptance"),
		logZ:         gauge("log_evidence", "Current log evidence estimate"),
		deltaZ:       gauge("delta_log_evidence", "Current estimate of remaining log evidence"),
		logLMax:      gauge("log_likelihood_max", "Largest log-likelihood seen"),
		info:         gauge("information_nats", "Current information H in nats"),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nestsampler",
			Subsystem: "nested",
			Name:      "run_duration_seconds",
			Help:      "Wall time of complete sampler runs",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, labels),
	}
}

type iterationSample struct {
	proposals, accepted, stallRetries int
	logZ, deltaZ, logLMax, info       float64
}

func (m *Metrics) observeIteration(run string, s iterationSample) {
	if m == nil {
		return
	}
	m.iterations.WithLabelValues(run).Inc()
	m.proposals.WithLabelValues(run).Add(float64(s.proposals))
	m.accepted.WithLabelValues(run).Add(float64(s.accepted))
	m.stallRetries.WithLabelValues(run).Add(float64(s.stallRetries))
	m.logZ.WithLabelValues(run).Set(s.logZ)
	m.deltaZ.WithLabelValues(run).Set(s.deltaZ)
	m.logLMax.WithLabelValues(run).Set(s.logLMax)
	m.info.WithLabelValues(run).Set(s.info)
}

func (m *Metrics) observePDRetries(run string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.pdRetries.WithLabelValues(run).Add(float64(n))
}

func (m *Metrics) observeRun(run string, d time.Duration, logZ float64) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(run).Observe(d.Seconds())
	m.logZ.WithLabelValues(run).Set(logZ)
}
