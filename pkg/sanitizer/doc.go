// Package sanitizer classifies and cleans untrusted strings before they reach
// handlers, templates or query builders.
//
// The package is built around three types:
//
//   - Library: an immutable, ordered set of compiled attack patterns grouped
//     into families (FamilyScript, FamilySQL). Build it once with NewLibrary and
//     share it; it is safe for concurrent use.
//
//   - Sanitizer: classification (IsDangerous, ContainsAttack) and the Clean
//     transform that escapes & < > " ' and removes script-injection substrings.
//
//   - KeywordValidator: allow-list checks for free-text search keywords and
//     sort parameters, run on raw values before a query is constructed.
//
// Script rules use find semantics: any matching substring counts. SQL rules use
// full-match semantics on the trimmed, lower-cased value, so prose that merely
// contains a reserved word ("I sell union suits") is not classified.
//
// All rules are compiled with Go's RE2 engine, which runs in time linear in the
// input. Values whose escaped form is larger than Config.MaxInputLength are
// escaped but not run through the patterns.
//
// # Usage
//
//	import "github.com/dmitrymomot/inputguard/pkg/sanitizer"
//
//	lib := sanitizer.NewLibrary()
//	s := sanitizer.New(
//	    sanitizer.WithLibrary(lib),
//	    sanitizer.WithLogger(log),
//	    sanitizer.WithReporters(metricsCollector, auditRecorder),
//	)
//
//	s.Clean(`<img src=x onerror=alert(1)>Hello`)
//	// "&lt;img src=x alert(1)&gt;Hello"
//
//	kv := sanitizer.NewKeywordValidator(s)
//	kv.IsSearchKeywordSafe("'; DROP TABLE users; --") // false
//	kv.IsSortParameterSafe("id", "desc")              // true
//
// Clean escapes before it strips. Tag-shaped rules therefore rarely fire on
// the escaped text; scheme and call rules such as "javascript:" and "eval("
// still do. Escaping is entity-aware and stripping runs until stable, so
// Clean(Clean(s)) == Clean(s).
//
// # Reporting
//
// Every value altered by Clean is passed to the registered Reporter
// implementations as a Change. A logging reporter is always installed;
// reporters run inline and must not block.
//
// # Error handling
//
// None of the helpers returns an error. Clean recovers from internal failures
// and falls back to escaping only.
//
// The Apply and Compose helpers build reusable transform pipelines:
//
//	clean := sanitizer.Compose(sanitizer.Trim, sanitizer.NormalizeWhitespace)
package sanitizer
