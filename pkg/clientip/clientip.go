package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// FromRequest resolves the originating client address for r.
//
// Candidates are tried in trust order: the X-Forwarded-For chain
// (left-most entry is the original client), then X-Real-IP, then the
// socket's RemoteAddr. The first value that parses as an IP wins and
// is returned in canonical form, so "2001:0db8::0001" and
// "2001:db8::1" key the same bucket.
//
// Forwarding headers are client-controlled unless a trusted proxy
// overwrites them. The result identifies a caller for attribution; it
// must not gate authorization. Returns "" when nothing parses.
func FromRequest(r *http.Request) string {
	for _, raw := range candidates(r) {
		if addr, err := netip.ParseAddr(strings.TrimSpace(raw)); err == nil {
			return addr.String()
		}
	}
	return ""
}

// candidates lists every address source on r, most trusted first.
// Entries are raw header values; validation happens in FromRequest.
func candidates(r *http.Request) []string {
	var out []string
	if chain := r.Header.Get("X-Forwarded-For"); chain != "" {
		out = append(out, strings.Split(chain, ",")...)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		out = append(out, ip)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		out = append(out, host)
	} else {
		// A RemoteAddr without a port is already a bare address.
		out = append(out, r.RemoteAddr)
	}
	return out
}
