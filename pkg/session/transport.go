package session

import "net/http"

// CookieAttributes are the attributes the pipeline sets on the outbound
// session cookie.
type CookieAttributes struct {
	// MaxAge in seconds.
	MaxAge   int
	HTTPOnly bool
	Secure   bool
	// Encrypted asks the transport to encrypt the payload.
	Encrypted bool
}

// Transport moves the session payload between client and server.
type Transport interface {
	// Read returns the decoded inbound payload. Missing or undecodable
	// values report false.
	Read(r *http.Request) (string, bool)

	// Write sets the outbound payload.
	Write(w http.ResponseWriter, payload string, attrs CookieAttributes) error

	// Clear removes the payload from the client.
	Clear(w http.ResponseWriter) error
}
