// Package metrics defines Warden's Prometheus instruments. Recording
// methods are safe to call on a nil *Metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	// Classification outcomes by tier and origin (stored, preview)
	Classifications *prometheus.CounterVec

	// Distribution of aggregate risk scores
	Scores prometheus.Histogram

	// Results where annex membership and score thresholds disagreed
	PolicyReviews prometheus.Counter

	// Audit entries dropped because the buffer was full
	AuditDropped prometheus.Counter

	// Audit entries that failed to persist
	AuditFailures prometheus.Counter

	RequestDuration *prometheus.HistogramVec
}

// New registers all collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Classifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_classifications_total",
			Help: "Total classifier runs by resulting tier and origin",
		}, []string{"tier", "origin"}),

		Scores: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "warden_classification_score",
			Help:    "Aggregate risk score of classifier runs",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		PolicyReviews: f.NewCounter(prometheus.CounterOpts{
			Name: "warden_policy_reviews_total",
			Help: "Classifier runs where annex membership and score thresholds disagreed",
		}),

		AuditDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "warden_audit_dropped_total",
			Help: "Audit entries dropped because the buffer was full",
		}),

		AuditFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "warden_audit_persist_failures_total",
			Help: "Audit entries that failed to persist",
		}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "warden_http_request_duration_seconds",
			Help:    "HTTP request latency by method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}

// ObserveClassification records one classifier run.
func (m *Metrics) ObserveClassification(tier, origin string, score int, review bool) {
	if m == nil {
		return
	}
	m.Classifications.WithLabelValues(tier, origin).Inc()
	m.Scores.Observe(float64(score))
	if review {
		m.PolicyReviews.Inc()
	}
}

// AuditDrop records an audit entry lost to a full buffer.
func (m *Metrics) AuditDrop() {
	if m != nil {
		m.AuditDropped.Inc()
	}
}

// AuditFailure records an audit entry that could not be written.
func (m *Metrics) AuditFailure() {
	if m != nil {
		m.AuditFailures.Inc()
	}
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(method string, status int, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
	}
}
