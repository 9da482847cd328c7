package common

import (
	"net/http"
	"net/netip"
	"strings"
)

// ClientAddr returns the caller address used to bucket per-client state such as rate limits.
// Proxy headers are not read here: chi's RealIP middleware resolves them into RemoteAddr first.
// IPv4-mapped addresses are unmapped and IPv6 callers are grouped by their /64 prefix.
func ClientAddr(r *http.Request) string {
	if r == nil {
		return ""
	}
	raw := strings.TrimSpace(r.RemoteAddr)
	var addr netip.Addr
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		addr = ap.Addr()
	} else if a, err := netip.ParseAddr(raw); err == nil {
		addr = a
	} else {
		return raw
	}
	addr = addr.Unmap().WithZone("")
	if addr.Is6() {
		if prefix, err := addr.Prefix(64); err == nil {
			return prefix.String()
		}
	}
	return addr.String()
}
