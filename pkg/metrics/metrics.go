package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/inputguard/pkg/sanitizer"
)

const namespace = "inputguard"

// Collector counts sanitizer activity. It implements sanitizer.Reporter.
type Collector struct {
	valuesSanitized  *prometheus.CounterVec
	attacksDetected  *prometheus.CounterVec
	fallbacks        prometheus.Counter
	keywordsRejected *prometheus.CounterVec
	auditDropped     prometheus.Counter
}

var _ sanitizer.Reporter = (*Collector)(nil)

// New registers the inputguard metrics on reg. It panics if any metric is
// already registered there.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		panic("metrics: registerer cannot be nil")
	}
	f := promauto.With(reg)

	return &Collector{
		valuesSanitized: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "values_sanitized_total",
			Help:      "Total number of input values altered by the sanitizer",
		}, []string{"source", "attack"}),
		attacksDetected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attacks_detected_total",
			Help:      "Total number of values classified as injection attempts, per attack family",
		}, []string{"family"}),
		fallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sanitize_fallbacks_total",
			Help:      "Total number of values that were escaped without pattern stripping",
		}),
		keywordsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_keywords_rejected_total",
			Help:      "Total number of rejected search keywords",
		}, []string{"reason"}),
		auditDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_dropped_total",
			Help:      "Total number of audit events dropped because the recorder queue was full",
		}),
	}
}

// ReportChange implements sanitizer.Reporter.
func (c *Collector) ReportChange(_ context.Context, ch sanitizer.Change) {
	c.valuesSanitized.WithLabelValues(string(ch.Field.Source), strconv.FormatBool(ch.Attack())).Inc()
	for _, f := range ch.Families {
		c.attacksDetected.WithLabelValues(string(f)).Inc()
	}
	if ch.Fallback {
		c.fallbacks.Inc()
	}
}

// KeywordRejected counts a rejected search keyword. Use it with
// sanitizer.WithRejectHook.
func (c *Collector) KeywordRejected(v sanitizer.KeywordVerdict) {
	c.keywordsRejected.WithLabelValues(string(v)).Inc()
}

// AuditDropped counts an audit event dropped by the recorder. Use it with
// audit.WithDropHook.
func (c *Collector) AuditDropped() {
	c.auditDropped.Inc()
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
