package sanitizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Family groups attack patterns by the kind of injection they recognise.
type Family string

const (
	// FamilyScript covers markup and script constructs that execute in a rendered page.
	FamilyScript Family = "script"
	// FamilySQL covers forms that can alter the intent of a constructed data query.
	FamilySQL Family = "sql"
)

// Families lists every family in evaluation order.
var Families = []Family{FamilyScript, FamilySQL}

// Pattern is a single compiled detection rule.
type Pattern struct {
	name   string
	family Family
	re     *regexp.Regexp
}

func (p Pattern) Name() string           { return p.name }
func (p Pattern) Family() Family         { return p.family }
func (p Pattern) Regexp() *regexp.Regexp { return p.re }

type rule struct {
	name string
	expr string
}

// Script rules use find semantics: any matching substring counts.
var scriptRules = []rule{
	{"script-block", `(?i)<script[^>]*>.*?</script>`},
	{"script-open", `(?i)<script[^>]*>`},
	{"script-close", `(?i)</script>`},
	{"javascript-scheme", `(?i)javascript:`},
	{"event-handler", `(?i)on\w+\s*=`},
	{"iframe", `(?i)<iframe[^>]*>.*?</iframe>`},
	{"object", `(?i)<object[^>]*>.*?</object>`},
	{"embed", `(?i)<embed[^>]*>.*?</embed>`},
	{"applet", `(?i)<applet[^>]*>.*?</applet>`},
	{"meta", `(?i)<meta[^>]*>`},
	{"link", `(?i)<link[^>]*>`},
	{"style", `(?i)<style[^>]*>.*?</style>`},
	{"css-expression", `(?i)expression\s*\(`},
	{"vbscript-scheme", `(?i)vbscript:`},
	{"eval-call", `(?i)eval\s*\(`},
	{"tag-event-handler", `(?i)<\s*\w*\s*(` + strings.Join(tagEventHandlers, "|") + `)+\s*=`},
}

// tagEventHandlers is matched only when it directly follows a tag opening.
var tagEventHandlers = []string{
	"oncontrolselect", "oncopy", "oncut", "ondataavailable", "ondatasetchanged",
	"ondatasetcomplete", "ondblclick", "ondeactivate", "ondrag", "ondragend",
	"ondragenter", "ondragleave", "ondragover", "ondragstart", "ondrop", "onerror=",
	"onerroupdate", "onfilterchange", "onfinish", "onfocus", "onfocusin", "onfocusout",
	"onhelp", "onkeydown", "onkeypress", "onkeyup", "onlayoutcomplete", "onload",
	"onlosecapture", "onmousedown", "onmouseenter", "onmouseleave", "onmousemove",
	"onmousout", "onmouseover", "onmouseup", "onmousewheel", "onmove", "onmoveend",
	"onmovestart", "onabort", "onactivate", "onafterprint", "onafterupdate", "onbefore",
	"onbeforeactivate", "onbeforecopy", "onbeforecut", "onbeforedeactivate",
	"onbeforeeditocus", "onbeforepaste", "onbeforeprint", "onbeforeunload",
	"onbeforeupdate", "onblur", "onbounce", "oncellchange", "onchange", "onclick",
	"oncontextmenu", "onpaste", "onpropertychange", "onreadystatechange", "onreset",
	"onresize", "onresizend", "onresizestart", "onrowenter", "onrowexit",
	"onrowsdelete", "onrowsinserted", "onscroll", "onselect", "onselectionchange",
	"onselectstart", "onstart", "onstop", "onsubmit", "onunload",
}

// sqlKeywords are the reserved words that make a value look like a statement.
var sqlKeywords = []string{
	"select", "insert", "update", "delete", "drop", "create", "alter",
	"exec", "execute", "union", "script", "declare", "cast", "convert",
}

// SQL rules are written as bodies and wrapped into full-match expressions by
// compileSQL, so every rule must account for the whole value.
var sqlRules = []rule{
	// A keyword counts when it opens the value or follows a statement
	// terminator, quote or parenthesis. Prose such as "I sell union suits"
	// does not match.
	{"keyword", `^(?:.*[;'"(]\s*)?(?:` + strings.Join(sqlKeywords, "|") + `)\b.*$`},
	{"comment", `^.*(?:--|#|/\*|\*/).*$`},
	{"quote", `^.*(?:'|"|\\x27|\\x22|\\x2d\\x2d).*$`},
	{"hex-escape", `^.*\\x[0-9a-f]{2}.*$`},
	{"tautology", `^.*(?:or\s+1\s*=\s*1|and\s+1\s*=\s*1).*$`},
	{"tautology-single-quoted", `^.*(?:or\s+'1'\s*=\s*'1'|and\s+'1'\s*=\s*'1').*$`},
	{"tautology-double-quoted", `^.*(?:or\s+"1"\s*=\s*"1"|and\s+"1"\s*=\s*"1").*$`},
	{"timing", `^.*(?:waitfor\s+delay|sleep\s*\(|benchmark\s*\().*$`},
	{"union-select", `^.*union\s+(?:all\s+)?select.*$`},
	{"subquery", `^.*\(\s*select\s+.+\s+from\s+.+\).*$`},
	{"stored-procedure", `^.*(?:exec\s*\(|sp_|xp_).*$`},
	{"introspection", `^.*(?:user\s*\(|database\s*\(|version\s*\(|@@version|@@user).*$`},
}

// Library is an immutable, ordered set of attack patterns grouped by family.
// It is safe for concurrent use and is meant to be built once per process.
type Library struct {
	script []Pattern
	sql    []Pattern
}

// NewLibrary compiles the built-in rule set. The rules are fixed, so
// construction cannot fail at runtime.
func NewLibrary() *Library {
	l := &Library{
		script: make([]Pattern, 0, len(scriptRules)),
		sql:    make([]Pattern, 0, len(sqlRules)),
	}
	for _, r := range scriptRules {
		l.script = append(l.script, Pattern{name: r.name, family: FamilyScript, re: regexp.MustCompile(r.expr)})
	}
	for _, r := range sqlRules {
		l.sql = append(l.sql, Pattern{name: r.name, family: FamilySQL, re: compileSQL(r.expr)})
	}
	return l
}

// compileSQL makes dot match newlines so multi-line payloads cannot slip
// past the full-match anchors.
func compileSQL(body string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)` + body)
}

// Patterns returns a copy of the patterns of the given family in evaluation order.
func (l *Library) Patterns(f Family) []Pattern {
	var src []Pattern
	switch f {
	case FamilyScript:
		src = l.script
	case FamilySQL:
		src = l.sql
	}
	out := make([]Pattern, len(src))
	copy(out, src)
	return out
}

// Match reports whether value is recognised by any rule of the family.
//
// Script rules look for a matching substring of the value. SQL rules must
// match the whole trimmed, lower-cased value. Both fold Unicode
// compatibility forms first, so full-width look-alikes classify the same
// as their ASCII counterparts.
func (l *Library) Match(value string, f Family) bool {
	switch f {
	case FamilyScript:
		return l.matchScript(fold(value))
	case FamilySQL:
		return l.matchSQL(sqlSubject(value))
	default:
		return false
	}
}

// Matches returns every family that recognises value, in evaluation order.
func (l *Library) Matches(value string) []Family {
	var out []Family
	for _, f := range Families {
		if l.Match(value, f) {
			out = append(out, f)
		}
	}
	return out
}

// MatchedRules returns the names of the rules of family f that fire on value.
func (l *Library) MatchedRules(value string, f Family) []string {
	var (
		subject  string
		patterns []Pattern
	)
	switch f {
	case FamilyScript:
		subject, patterns = fold(value), l.script
	case FamilySQL:
		subject, patterns = sqlSubject(value), l.sql
	default:
		return nil
	}

	var names []string
	for _, p := range patterns {
		if p.re.MatchString(subject) {
			names = append(names, p.name)
		}
	}
	return names
}

func (l *Library) matchScript(s string) bool {
	for _, p := range l.script {
		if p.re.MatchString(s) {
			return true
		}
	}
	return false
}

func (l *Library) matchSQL(s string) bool {
	if s == "" {
		return false
	}
	for _, p := range l.sql {
		if p.re.MatchString(s) {
			return true
		}
	}
	return false
}

// strip removes every script-family match from s in a single pass.
func (l *Library) strip(s string) string {
	for _, p := range l.script {
		s = p.re.ReplaceAllString(s, "")
	}
	return s
}

func sqlSubject(value string) string {
	return strings.ToLower(strings.TrimSpace(fold(value)))
}

func fold(s string) string {
	return norm.NFKC.String(s)
}
