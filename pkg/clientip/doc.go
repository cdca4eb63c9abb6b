// Package clientip resolves the originating client address of a request
// served behind reverse proxies.
//
// A Resolver walks its trusted headers in order (CF-Connecting-IP,
// X-Forwarded-For, X-Real-IP by default) and takes the first entry that
// parses as an IP address, falling back to RemoteAddr. IPv4-mapped IPv6
// addresses are unmapped and zones dropped, so the same client always maps
// to the same string.
//
//	r := chi.NewRouter()
//	r.Use(clientip.New(clientip.WithHeaders("X-Real-IP")).Middleware)
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//	    ip := clientip.FromContext(r.Context())
//	    _ = ip
//	})
//
// Only trust headers your edge proxy overwrites; anything else can be
// forged by the client. An empty string means no valid address was found.
package clientip
