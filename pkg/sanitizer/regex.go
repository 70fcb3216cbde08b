package sanitizer

import "regexp"

// Pre-compiled regular expressions for performance
var (
	// Whitespace normalization
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// Characters rejected in free-text search input
	keywordDenyRegex = regexp.MustCompile(`[<>"'%;()&+\-]`)

	// Characters removed from values classified as SQL injection
	sqlMetaRegex = regexp.MustCompile(`[';"\-#/*]`)

	// Reserved SQL words removed from values classified as SQL injection
	sqlKeywordRegex = regexp.MustCompile(`(?i)\b(?:select|insert|update|delete|drop|create|alter|exec|execute|union|script|declare|cast|convert)\b`)
)
