// Package fingerprint derives a stable device fingerprint from a request.
//
// The fingerprint hashes the User-Agent, the Accept headers, the client
// address and the set of commonly sent headers with SHA-256 and keeps the
// first 16 bytes as hex. Storing it in the server partition of a session
// lets a handler notice when a session cookie shows up from another device:
//
//	fp := fingerprint.Generate(r)
//	rec, _ := session.Get(r.Context())
//	if rec != nil && !fingerprint.Validate(r, rec.Server["fp"].(string)) {
//	    _ = session.Delete(r.Context())
//	}
//
// Run clientip.Middleware first so the address is resolved once.
package fingerprint
