package clientip

import "net/http"

// Middleware resolves the client address once per request and stores it in
// the request context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithContext(r.Context(), res.IP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Middleware is the default resolver's middleware.
func Middleware(next http.Handler) http.Handler {
	return New().Middleware(next)
}
