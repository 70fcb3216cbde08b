package sanitizer

import (
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dmitrymomot/inputguard/pkg/validator"
)

// MaxKeywordLength is the longest search keyword accepted, in characters.
const MaxKeywordLength = 100

var (
	// DefaultSortFields are the fields a listing may be ordered by.
	DefaultSortFields = []string{"id", "title", "createdAt", "updatedAt", "viewCount", "username", "email"}
	// DefaultSortDirections are the accepted sort directions.
	DefaultSortDirections = []string{"asc", "desc", "ASC", "DESC"}
)

// KeywordVerdict is the outcome of checking a search keyword.
type KeywordVerdict string

const (
	KeywordSafe               KeywordVerdict = "safe"
	KeywordTooLong            KeywordVerdict = "too_long"
	KeywordSQLInjection       KeywordVerdict = "sql_injection"
	KeywordForbiddenCharacter KeywordVerdict = "forbidden_character"
)

// KeywordValidator gates free-text search input and sort parameters before
// they reach a query layer. It only classifies; rejecting the request or
// substituting defaults is up to the caller.
type KeywordValidator struct {
	sanitizer      *Sanitizer
	log            *slog.Logger
	sortFields     []string
	sortDirections []string
	cleanKeyword   func(string) string
	onReject       func(KeywordVerdict)
}

// KeywordOption configures a KeywordValidator.
type KeywordOption func(*KeywordValidator)

// WithSortFields replaces DefaultSortFields.
func WithSortFields(fields ...string) KeywordOption {
	return func(v *KeywordValidator) {
		if len(fields) > 0 {
			v.sortFields = slices.Clone(fields)
		}
	}
}

// WithKeywordLogger sets the logger used to record rejected input.
func WithKeywordLogger(l *slog.Logger) KeywordOption {
	return func(v *KeywordValidator) {
		if l != nil {
			v.log = l
		}
	}
}

// WithRejectHook registers fn to be called with the verdict of every
// keyword rejected by IsSearchKeywordSafe or ValidateSearch.
func WithRejectHook(fn func(KeywordVerdict)) KeywordOption {
	return func(v *KeywordValidator) {
		v.onReject = fn
	}
}

// NewKeywordValidator creates a validator that uses s for SQL classification.
// A nil s falls back to Default().
func NewKeywordValidator(s *Sanitizer, opts ...KeywordOption) *KeywordValidator {
	if s == nil {
		s = Default()
	}
	v := &KeywordValidator{
		sanitizer:      s,
		log:            s.log,
		sortFields:     DefaultSortFields,
		sortDirections: DefaultSortDirections,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.cleanKeyword = Compose(
		func(k string) string { return keywordDenyRegex.ReplaceAllString(k, "") },
		NormalizeWhitespace,
		func(k string) string { return LimitLength(k, MaxKeywordLength) },
	)
	return v
}

// Verdict classifies keyword. Blank keywords are safe.
func (v *KeywordValidator) Verdict(keyword string) KeywordVerdict {
	switch {
	case strings.TrimSpace(keyword) == "":
		return KeywordSafe
	case utf8.RuneCountInString(keyword) > MaxKeywordLength:
		return KeywordTooLong
	case v.sanitizer.IsDangerous(keyword):
		return KeywordSQLInjection
	case keywordDenyRegex.MatchString(keyword):
		return KeywordForbiddenCharacter
	default:
		return KeywordSafe
	}
}

// IsSearchKeywordSafe reports whether keyword may be used to build a search query.
func (v *KeywordValidator) IsSearchKeywordSafe(keyword string) bool {
	return v.check(keyword) == KeywordSafe
}

func (v *KeywordValidator) check(keyword string) KeywordVerdict {
	verdict := v.Verdict(keyword)
	if verdict != KeywordSafe {
		v.log.Warn("unsafe search keyword", slog.String("keyword", keyword), slog.String("reason", string(verdict)))
		if v.onReject != nil {
			v.onReject(verdict)
		}
	}
	return verdict
}

// CleanSearchKeyword removes forbidden characters, collapses whitespace and
// truncates the result to MaxKeywordLength characters.
func (v *KeywordValidator) CleanSearchKeyword(keyword string) string {
	if keyword == "" {
		return keyword
	}
	return v.cleanKeyword(keyword)
}

// IsSortParameterSafe reports whether field and direction are allowed.
// An empty value means the parameter is absent and is always safe.
func (v *KeywordValidator) IsSortParameterSafe(field, direction string) bool {
	if field != "" && !slices.Contains(v.sortFields, field) {
		v.log.Warn("invalid sort field", slog.String("field", field))
		return false
	}
	if direction != "" && !slices.Contains(v.sortDirections, direction) {
		v.log.Warn("invalid sort direction", slog.String("direction", direction))
		return false
	}
	return true
}

// ValidateSearch runs the keyword and sort checks and returns
// validator.ValidationErrors describing every failed parameter.
func (v *KeywordValidator) ValidateSearch(keyword, field, direction string) error {
	verdict := v.check(keyword)
	rules := []validator.Rule{
		keywordRule("q", verdict),
	}
	if field != "" {
		rules = append(rules, validator.InListString("sort", field, v.sortFields))
	}
	if direction != "" {
		rules = append(rules, validator.InListString("dir", direction, v.sortDirections))
	}
	return validator.Apply(rules...)
}

func keywordRule(field string, verdict KeywordVerdict) validator.Rule {
	var message string
	switch verdict {
	case KeywordTooLong:
		message = "must be at most 100 characters long"
	case KeywordSQLInjection:
		message = "contains a disallowed query expression"
	case KeywordForbiddenCharacter:
		message = `must not contain any of < > " ' % ; ( ) & + -`
	}
	return validator.Rule{
		Check: func() bool { return verdict == KeywordSafe },
		Error: validator.ValidationError{
			Field:          field,
			Message:        message,
			TranslationKey: "validation.search_keyword." + string(verdict),
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}
