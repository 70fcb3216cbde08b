package secheaders

import (
	"net/http"
	"net/textproto"
)

// Config selects the policy used by the server.
type Config struct {
	Enabled    bool   `env:"SECURITY_HEADERS_ENABLED" envDefault:"true"`
	PolicyFile string `env:"SECURITY_HEADERS_POLICY_FILE"` // PolicyFile is an optional YAML policy; DefaultPolicy is used when empty.
}

// FromConfig returns the policy selected by cfg.
func FromConfig(cfg Config) (Policy, error) {
	if cfg.PolicyFile == "" {
		return DefaultPolicy(), nil
	}
	return LoadPolicy(cfg.PolicyFile)
}

type header struct {
	name  string
	value string
}

// Middleware sets the policy headers on every response before the next
// handler runs, so error responses carry them too.
func Middleware(p Policy) func(http.Handler) http.Handler {
	headers := make([]header, 0, 8)
	for name, value := range p.Headers() {
		headers = append(headers, header{name: textproto.CanonicalMIMEHeaderKey(name), value: value})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, hdr := range headers {
				h[hdr.name] = []string{hdr.value}
			}
			next.ServeHTTP(w, r)
		})
	}
}
