package session

import (
	"net/http"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// CookieTransport implements Transport using a single cookie.
type CookieTransport struct {
	cookieMgr  *cookie.Manager
	cookieName string
	options    []cookie.Option
}

// NewCookieTransport creates a new cookie-based transport. Extra options are
// applied after the attributes computed by the pipeline, so they can pin
// path, domain or same-site.
func NewCookieTransport(cookieMgr *cookie.Manager, cookieName string, opts ...cookie.Option) *CookieTransport {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &CookieTransport{
		cookieMgr:  cookieMgr,
		cookieName: cookieName,
		options:    opts,
	}
}

// Name returns the cookie name.
func (t *CookieTransport) Name() string {
	return t.cookieName
}

// Read decodes the session cookie, accepting encrypted or signed values.
// Tampered or foreign values are treated as missing.
func (t *CookieTransport) Read(r *http.Request) (string, bool) {
	if value, err := t.cookieMgr.GetEncrypted(r, t.cookieName); err == nil && value != "" {
		return value, true
	}
	if value, err := t.cookieMgr.GetSigned(r, t.cookieName); err == nil && value != "" {
		return value, true
	}
	return "", false
}

// Write stores the payload in the session cookie, encrypted or signed
// depending on attrs.
func (t *CookieTransport) Write(w http.ResponseWriter, payload string, attrs CookieAttributes) error {
	opts := []cookie.Option{
		cookie.WithMaxAge(attrs.MaxAge),
		cookie.WithHTTPOnly(attrs.HTTPOnly),
		cookie.WithSecure(attrs.Secure),
		cookie.WithSameSite(http.SameSiteLaxMode), // CSRF protection
	}
	opts = append(opts, t.options...)

	if attrs.Encrypted {
		return t.cookieMgr.SetEncrypted(w, t.cookieName, payload, opts...)
	}
	return t.cookieMgr.SetSigned(w, t.cookieName, payload, opts...)
}

// Clear removes the session cookie.
func (t *CookieTransport) Clear(w http.ResponseWriter) error {
	t.cookieMgr.Delete(w, t.cookieName)
	return nil
}

var _ Transport = (*CookieTransport)(nil)
