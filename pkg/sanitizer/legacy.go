package sanitizer

import (
	"strings"
)

// CleanHTML removes script-injection constructs from markup without
// escaping it. Use it for content that is rendered as HTML on purpose and
// is escaped or tag-filtered elsewhere.
func (s *Sanitizer) CleanHTML(html string) string {
	if html == "" {
		return html
	}
	return s.strip(html)
}

// sqlEscaper escapes a value for a single-quoted SQL LIKE pattern declared
// with ESCAPE '\'. Backslash is replaced first by construction of the
// replacer (it never rescans its own output).
var sqlEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `''`,
	`%`, `\%`,
	`_`, `\_`,
)

// EscapeSQL escapes quotes, backslashes and LIKE wildcards. Parameterised
// queries remain the primary defense; this is for the rare literal.
func EscapeSQL(value string) string {
	return sqlEscaper.Replace(value)
}

// CleanSQLInjection returns value unchanged unless IsDangerous classifies
// it; in that case SQL metacharacters and reserved words are removed.
func (s *Sanitizer) CleanSQLInjection(value string) string {
	if !s.IsDangerous(value) {
		return value
	}
	cleaned := sqlMetaRegex.ReplaceAllString(value, "")
	cleaned = sqlKeywordRegex.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}
