// Package cookie reads and writes HTTP cookies in plain, signed and
// encrypted form.
//
// A Manager is built from one or more secrets of at least 32 characters.
// Per-secret AES-256-GCM and HMAC-SHA256 keys are derived with HKDF, so the
// same secret never serves both purposes directly. The first secret writes;
// every secret is tried on read, which allows key rotation without logging
// users out.
//
// Both signatures and ciphertexts are bound to the cookie name: a value
// copied from one cookie into another fails verification.
//
// # Usage
//
//	mgr, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")})
//	if err != nil {
//	    return err
//	}
//	_ = mgr.SetEncrypted(w, "session_id", payload, cookie.WithMaxAge(3600))
//	payload, err := mgr.GetEncrypted(r, "session_id")
//
// # Configuration
//
// Config is parsed from the environment with github.com/caarlos0/env:
// COOKIE_SECRETS (comma separated), COOKIE_PATH, COOKIE_DOMAIN,
// COOKIE_SECURE and COOKIE_SAME_SITE (lax, strict or none).
//
// # Errors
//
// ErrCookieNotFound, ErrInvalidFormat, ErrInvalidSignature and
// ErrDecryptionFailed are returned from the getters and can be matched with
// errors.Is.
package cookie
