package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the client IP used as the rate-limit key. It trusts
// r.RemoteAddr only; proxy headers are not consulted.
func FromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}
