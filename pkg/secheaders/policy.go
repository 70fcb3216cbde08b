package secheaders

import (
	"errors"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Directive is a single Content-Security-Policy directive.
type Directive struct {
	Name    string   `yaml:"name"`
	Sources []string `yaml:"sources"`
}

// Policy lists the security headers added to every response. Empty fields
// are not sent.
type Policy struct {
	CSP               []Directive       `yaml:"csp"`
	CSPReportOnly     bool              `yaml:"csp_report_only"`
	ContentTypeOpts   string            `yaml:"content_type_options"`
	FrameOptions      string            `yaml:"frame_options"`
	XSSProtection     string            `yaml:"xss_protection"`
	ReferrerPolicy    string            `yaml:"referrer_policy"`
	PermissionsPolicy string            `yaml:"permissions_policy"`
	Extra             map[string]string `yaml:"extra"`
}

var cdnSources = []string{"https://cdn.jsdelivr.net", "https://cdnjs.cloudflare.com"}

// DefaultPolicy returns the headers of the blog front end: scripts and
// styles from self and the two public CDNs, no framing, no plugins.
func DefaultPolicy() Policy {
	return Policy{
		CSP: []Directive{
			{Name: "default-src", Sources: []string{"'self'"}},
			{Name: "script-src", Sources: append([]string{"'self'", "'unsafe-inline'"}, cdnSources...)},
			{Name: "style-src", Sources: append([]string{"'self'", "'unsafe-inline'"}, cdnSources...)},
			{Name: "img-src", Sources: []string{"'self'", "data:", "https:"}},
			{Name: "font-src", Sources: append([]string{"'self'"}, cdnSources...)},
			{Name: "connect-src", Sources: []string{"'self'"}},
			{Name: "frame-src", Sources: []string{"'none'"}},
			{Name: "object-src", Sources: []string{"'none'"}},
			{Name: "base-uri", Sources: []string{"'self'"}},
			{Name: "form-action", Sources: []string{"'self'"}},
			{Name: "frame-ancestors", Sources: []string{"'none'"}},
		},
		ContentTypeOpts:   "nosniff",
		FrameOptions:      "DENY",
		XSSProtection:     "1; mode=block",
		ReferrerPolicy:    "strict-origin-when-cross-origin",
		PermissionsPolicy: "geolocation=(), microphone=(), camera=()",
	}
}

// LoadPolicy reads a YAML policy from path. Keys missing from the file keep
// their DefaultPolicy values; a csp list replaces the default list.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, errors.Join(ErrLoadPolicy, err)
	}
	return ParsePolicy(data)
}

// ParsePolicy is LoadPolicy for an in-memory document.
func ParsePolicy(data []byte) (Policy, error) {
	p := DefaultPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, errors.Join(ErrInvalidPolicy, err)
	}
	if err := p.validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (p Policy) validate() error {
	for _, d := range p.CSP {
		if strings.TrimSpace(d.Name) == "" {
			return errors.Join(ErrInvalidPolicy, ErrEmptyDirective)
		}
	}
	return nil
}

// ContentSecurityPolicy renders the CSP header value.
func (p Policy) ContentSecurityPolicy() string {
	if len(p.CSP) == 0 {
		return ""
	}
	var b strings.Builder
	for i, d := range p.CSP {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.Name)
		for _, src := range d.Sources {
			b.WriteByte(' ')
			b.WriteString(src)
		}
		b.WriteByte(';')
	}
	return b.String()
}

// Headers returns the header name/value pairs of the policy.
func (p Policy) Headers() map[string]string {
	h := make(map[string]string, 6+len(p.Extra))
	cspHeader := "Content-Security-Policy"
	if p.CSPReportOnly {
		cspHeader = "Content-Security-Policy-Report-Only"
	}
	set := func(name, value string) {
		if value != "" {
			h[name] = value
		}
	}
	set(cspHeader, p.ContentSecurityPolicy())
	set("X-Content-Type-Options", p.ContentTypeOpts)
	set("X-Frame-Options", p.FrameOptions)
	set("X-XSS-Protection", p.XSSProtection)
	set("Referrer-Policy", p.ReferrerPolicy)
	set("Permissions-Policy", p.PermissionsPolicy)
	for name, value := range p.Extra {
		set(name, value)
	}
	return h
}
