// Package status implements the periodic status reporter shared by the
// SAT and BBU daemons (spec section 4.8, component C8), plus a
// Prometheus metrics registry that gives operators a machine-readable
// view of the same read-only state.
package status

import "github.com/prometheus/client_golang/prometheus"

// Metrics is a small Prometheus registry of gauges and counters mirroring
// the status reporter's snapshot fields. It never mutates simulation
// state — every gauge here is set from a Snapshot taken elsewhere, and
// PacketsTotal is incremented by the TM producer.
type Metrics struct {
	Registry *prometheus.Registry

	Elevation  prometheus.Gauge
	Doppler    prometheus.Gauge
	RateDL     prometheus.Gauge
	RateUL     prometheus.Gauge
	LiveDepth  prometheus.Gauge
	HistDepth  prometheus.Gauge
	TCDepth    prometheus.Gauge
	Visible    prometheus.Gauge

	PacketsTotal *prometheus.CounterVec
}

// NewMetrics registers a fresh set of metrics under their own registry
// (rather than the global default) so SAT and BBU processes never
// collide when both happen to run in the same binary, e.g. under test.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		Elevation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "elevation_deg", Help: "Current elevation angle in degrees.",
		}),
		Doppler: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "doppler_hz", Help: "Current Doppler shift in hertz.",
		}),
		RateDL: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "rate_dl_mbps", Help: "Current permitted downlink rate in Mbps.",
		}),
		RateUL: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "rate_ul_mbps", Help: "Current permitted uplink rate in Mbps.",
		}),
		LiveDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "live_buffer_depth", Help: "Number of frames currently queued in the live buffer.",
		}),
		HistDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "history_buffer_depth", Help: "Number of frames currently retained in the history buffer.",
		}),
		TCDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "tc_queue_depth", Help: "Number of telecommands awaiting transmission or execution.",
		}),
		Visible: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "visible", Help: "1 when the spacecraft is currently visible, 0 otherwise.",
		}),
		PacketsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "packets_total", Help: "Packets processed by the RF channel, by direction and outcome.",
		}, []string{"direction", "outcome"}),
	}

	reg.MustRegister(m.Elevation, m.Doppler, m.RateDL, m.RateUL,
		m.LiveDepth, m.HistDepth, m.TCDepth, m.Visible, m.PacketsTotal)
	return m
}

// Apply copies a Snapshot into the gauges. Counters are updated
// incrementally elsewhere via PacketsTotal directly, since a snapshot has
// no notion of "since last report".
func (m *Metrics) Apply(s Snapshot) {
	m.Elevation.Set(s.ElevDeg)
	m.Doppler.Set(s.DopplerHz)
	m.RateDL.Set(s.RateDLMbps)
	m.RateUL.Set(s.RateULMbps)
	m.LiveDepth.Set(float64(s.LiveDepth))
	m.HistDepth.Set(float64(s.HistDepth))
	m.TCDepth.Set(float64(s.TCQueueDepth))
	if s.Visible {
		m.Visible.Set(1)
	} else {
		m.Visible.Set(0)
	}
}
