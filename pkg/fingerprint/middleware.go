package fingerprint

import "net/http"

// Middleware stores the request fingerprint in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), Generate(r))))
	})
}
