package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrymomot/sessionkit/pkg/clientip"
)

// stableHeaders are the headers whose presence distinguishes clients without
// changing between requests of the same browser.
var stableHeaders = []string{
	"accept", "accept-encoding", "accept-language", "cache-control",
	"connection", "sec-fetch-dest", "sec-fetch-mode", "sec-fetch-site",
	"upgrade-insecure-requests", "user-agent",
}

// Generate derives a 32 character hex fingerprint from request headers and
// the client address. The address comes from the request context when
// clientip.Middleware ran, otherwise it is resolved with default headers.
func Generate(r *http.Request) string {
	ip := clientip.FromContext(r.Context())
	if ip == "" {
		ip = clientip.GetIP(r)
	}

	parts := []string{
		r.UserAgent(),
		r.Header.Get("Accept-Language"),
		r.Header.Get("Accept-Encoding"),
		r.Header.Get("Accept"),
		ip,
		headerSet(r),
	}
	parts = slices.DeleteFunc(parts, func(s string) bool { return s == "" })

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:16])
}

// Validate reports whether r still produces the stored fingerprint. An empty
// stored value never validates.
func Validate(r *http.Request, stored string) bool {
	return stored != "" && Generate(r) == stored
}

func headerSet(r *http.Request) string {
	var names []string
	for name := range r.Header {
		if n := strings.ToLower(name); slices.Contains(stableHeaders, n) {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return strings.Join(names, ",")
}
