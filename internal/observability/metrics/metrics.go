package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters/histograms for the intake pipeline. A nil
// receiver is a no-op so wiring metrics stays optional in tests.
type IntakeMetrics struct {
	inboundTotal    *prometheus.CounterVec
	bookingsTotal   *prometheus.CounterVec
	reparseTotal    *prometheus.CounterVec
	webhookLatency  *prometheus.HistogramVec
	segmentsPerBody prometheus.Histogram
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inbox",
			Subsystem: "intake",
			Name:      "inbound_total",
			Help:      "Inbound webhook deliveries by platform and outcome",
		}, []string{"platform", "outcome"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inbox",
			Subsystem: "intake",
			Name:      "bookings_total",
			Help:      "Bookings created or patched by the orchestrator",
		}, []string{"action"}),
		reparseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inbox",
			Subsystem: "reparse",
			Name:      "messages_total",
			Help:      "Messages touched by reconciliation runs",
		}, []string{"result"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "inbox",
			Subsystem: "intake",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"platform"}),
		segmentsPerBody: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "inbox",
			Subsystem: "intake",
			Name:      "segments_per_message",
			Help:      "Date segments extracted per inbound message",
			Buckets:   []float64{0, 1, 2, 3, 5},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.bookingsTotal, m.reparseTotal, m.webhookLatency, m.segmentsPerBody)
	return m
}

func (m *IntakeMetrics) ObserveInbound(platform, outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(platform, outcome).Inc()
}

func (m *IntakeMetrics) ObserveBooking(action string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(action).Inc()
}

func (m *IntakeMetrics) ObserveReparse(result string) {
	if m == nil {
		return
	}
	m.reparseTotal.WithLabelValues(result).Inc()
}

func (m *IntakeMetrics) ObserveWebhookLatency(platform string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(platform).Observe(seconds)
}

func (m *IntakeMetrics) ObserveSegments(n int) {
	if m == nil {
		return
	}
	m.segmentsPerBody.Observe(float64(n))
}
