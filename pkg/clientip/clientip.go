package clientip

import (
	"net"
	"net/http"
	"strings"
)

// DefaultHeaders are the proxy headers consulted, in order, before falling
// back to the connection address.
var DefaultHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// Config holds environment driven settings for client IP resolution.
type Config struct {
	// Headers lists trusted proxy headers in priority order. Leave it empty
	// when the service is exposed directly; clients can forge these headers.
	Headers []string `env:"CLIENTIP_HEADERS" envDefault:"CF-Connecting-IP,X-Forwarded-For,X-Real-IP" envSeparator:","`
}

// GetIP resolves the client address using DefaultHeaders.
func GetIP(r *http.Request) string {
	return Resolve(r, DefaultHeaders)
}

// Resolve returns the first valid address found in headers, then in
// RemoteAddr. Comma separated header values (X-Forwarded-For) yield their
// first valid entry. Returns "" when nothing parses as an IP.
func Resolve(r *http.Request, headers []string) string {
	for _, h := range headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		for part := range strings.SplitSeq(v, ",") {
			if ip := parseIP(part); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// parseIP normalizes s, rejecting anything net.ParseIP does not accept
// (zones, ports, control characters).
func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
