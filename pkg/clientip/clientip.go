package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// DefaultHeaders are consulted in order before falling back to RemoteAddr.
var DefaultHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// Resolver extracts the originating client address from a request.
// The zero value only trusts RemoteAddr.
type Resolver struct {
	headers []string
}

type Option func(*Resolver)

// WithHeaders replaces the trusted proxy headers. Pass none to trust only
// the TCP peer, which is what a service exposed without a proxy wants.
func WithHeaders(headers ...string) Option {
	return func(r *Resolver) {
		r.headers = headers
	}
}

// New creates a resolver trusting DefaultHeaders unless overridden.
func New(opts ...Option) *Resolver {
	r := &Resolver{headers: DefaultHeaders}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IP returns the normalized client address or "" when nothing parses.
// For X-Forwarded-For style lists the first valid entry wins.
func (res *Resolver) IP(r *http.Request) string {
	for _, h := range res.headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		for part := range strings.SplitSeq(v, ",") {
			if ip := normalize(part); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

// GetIP resolves with DefaultHeaders.
func GetIP(r *http.Request) string {
	return New().IP(r)
}

func normalize(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return ""
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return ""
	}
	return addr.Unmap().WithZone("").String()
}
