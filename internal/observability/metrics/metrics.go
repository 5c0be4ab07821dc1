package metrics

import "github.com/prometheus/client_golang/prometheus"

// DocumentMetrics exposes counters/histograms for extraction and template
// filling flows.
type DocumentMetrics struct {
	extractionsTotal  *prometheus.CounterVec
	extractionLatency prometheus.Histogram
	discoveriesTotal  *prometheus.CounterVec
	fillsTotal        *prometheus.CounterVec
	fillLatency       *prometheus.HistogramVec
}

func NewDocumentMetrics(reg prometheus.Registerer) *DocumentMetrics {
	m := &DocumentMetrics{
		extractionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hmr",
			Subsystem: "extraction",
			Name:      "requests_total",
			Help:      "Total referral extraction requests",
		}, []string{"status", "degraded"}),
		extractionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hmr",
			Subsystem: "extraction",
			Name:      "duration_seconds",
			Help:      "Latency of referral extraction (OCR plus parsing)",
			Buckets:   prometheus.DefBuckets,
		}),
		discoveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hmr",
			Subsystem: "templates",
			Name:      "field_discoveries_total",
			Help:      "Total template field discovery requests",
		}, []string{"format", "status"}),
		fillsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hmr",
			Subsystem: "templates",
			Name:      "fills_total",
			Help:      "Total template fill requests",
		}, []string{"format", "status"}),
		fillLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hmr",
			Subsystem: "templates",
			Name:      "fill_duration_seconds",
			Help:      "Latency of template filling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.extractionsTotal, m.extractionLatency, m.discoveriesTotal, m.fillsTotal, m.fillLatency)
	return m
}

func (m *DocumentMetrics) ObserveExtraction(status string, degraded bool, seconds float64) {
	if m == nil {
		return
	}
	label := "false"
	if degraded {
		label = "true"
	}
	m.extractionsTotal.WithLabelValues(status, label).Inc()
	m.extractionLatency.Observe(seconds)
}

func (m *DocumentMetrics) ObserveDiscovery(format, status string) {
	if m == nil {
		return
	}
	m.discoveriesTotal.WithLabelValues(format, status).Inc()
}

func (m *DocumentMetrics) ObserveFill(format, status string, seconds float64) {
	if m == nil {
		return
	}
	m.fillsTotal.WithLabelValues(format, status).Inc()
	m.fillLatency.WithLabelValues(format).Observe(seconds)
}
