// Package secheaders adds Content-Security-Policy and related hardening
// headers to HTTP responses.
//
// DefaultPolicy allows scripts and styles from the site itself and two public
// CDNs, forbids framing and plugin content, and enables the legacy browser
// XSS filter. LoadPolicy reads overrides from YAML:
//
//	csp:
//	  - name: default-src
//	    sources: ["'self'"]
//	  - name: img-src
//	    sources: ["'self'", "data:"]
//	frame_options: SAMEORIGIN
//	extra:
//	  Cross-Origin-Opener-Policy: same-origin
package secheaders
