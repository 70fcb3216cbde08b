// Package metrics exposes Prometheus counters for sanitizer activity.
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	s := sanitizer.New(sanitizer.WithReporters(m))
//	kv := sanitizer.NewKeywordValidator(s, sanitizer.WithRejectHook(m.KeywordRejected))
//	r.Handle("/metrics", metrics.Handler(reg))
package metrics
