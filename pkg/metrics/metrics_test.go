package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inputguard/pkg/metrics"
	"github.com/dmitrymomot/inputguard/pkg/sanitizer"
)

func TestCollectorReportChange(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	ctx := context.Background()

	m.ReportChange(ctx, sanitizer.Change{
		Field:    sanitizer.Field{Source: sanitizer.SourceParam, Name: "content"},
		Families: []sanitizer.Family{sanitizer.FamilyScript, sanitizer.FamilySQL},
	})
	m.ReportChange(ctx, sanitizer.Change{
		Field: sanitizer.Field{Source: sanitizer.SourceHeader, Name: "X-Note"},
	})
	m.ReportChange(ctx, sanitizer.Change{
		Field:    sanitizer.Field{Source: sanitizer.SourceParam, Name: "big"},
		Fallback: true,
	})

	expected := `
# HELP inputguard_values_sanitized_total Total number of input values altered by the sanitizer
# TYPE inputguard_values_sanitized_total counter
inputguard_values_sanitized_total{attack="false",source="header"} 1
inputguard_values_sanitized_total{attack="false",source="param"} 1
inputguard_values_sanitized_total{attack="true",source="param"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "inputguard_values_sanitized_total"))

	expected = `
# HELP inputguard_attacks_detected_total Total number of values classified as injection attempts, per attack family
# TYPE inputguard_attacks_detected_total counter
inputguard_attacks_detected_total{family="script"} 1
inputguard_attacks_detected_total{family="sql"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "inputguard_attacks_detected_total"))

	expected = `
# HELP inputguard_sanitize_fallbacks_total Total number of values that were escaped without pattern stripping
# TYPE inputguard_sanitize_fallbacks_total counter
inputguard_sanitize_fallbacks_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "inputguard_sanitize_fallbacks_total"))
}

func TestCollectorWithSanitizer(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	s := sanitizer.New(sanitizer.WithLogger(discardLogger()), sanitizer.WithReporters(m))

	s.CleanField(context.Background(), sanitizer.Field{Source: sanitizer.SourceParam, Name: "q"}, "<script>alert(1)</script>")
	s.CleanField(context.Background(), sanitizer.Field{Source: sanitizer.SourceParam, Name: "q"}, "hello")

	assert.Equal(t, 1, testutil.CollectAndCount(reg, "inputguard_values_sanitized_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "inputguard_attacks_detected_total"))
}

func TestKeywordRejected(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	kv := sanitizer.NewKeywordValidator(
		sanitizer.New(sanitizer.WithLogger(discardLogger())),
		sanitizer.WithKeywordLogger(discardLogger()),
		sanitizer.WithRejectHook(m.KeywordRejected),
	)

	kv.IsSearchKeywordSafe("a<b")
	kv.IsSearchKeywordSafe("x>y")
	kv.IsSearchKeywordSafe(strings.Repeat("k", 101))
	kv.IsSearchKeywordSafe("golang")

	expected := `
# HELP inputguard_search_keywords_rejected_total Total number of rejected search keywords
# TYPE inputguard_search_keywords_rejected_total counter
inputguard_search_keywords_rejected_total{reason="forbidden_character"} 2
inputguard_search_keywords_rejected_total{reason="too_long"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "inputguard_search_keywords_rejected_total"))
}

func TestAuditDropped(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.AuditDropped()
	m.AuditDropped()

	expected := `
# HELP inputguard_audit_events_dropped_total Total number of audit events dropped because the recorder queue was full
# TYPE inputguard_audit_events_dropped_total counter
inputguard_audit_events_dropped_total 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "inputguard_audit_events_dropped_total"))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.AuditDropped()

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "inputguard_audit_events_dropped_total 2")
}

func TestNewPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { metrics.New(nil) })

	reg := prometheus.NewRegistry()
	metrics.New(reg)
	assert.Panics(t, func() { metrics.New(reg) }, "duplicate registration")
}
