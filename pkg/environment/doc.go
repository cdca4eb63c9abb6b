// Package environment names the application environment.
//
// Parse accepts the canonical names as well as the dev, stage and prod
// aliases. The session pipeline asks SecureCookies whether session cookies
// get the Secure flag, and pkg/logger picks its output preset from it.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	if env.SecureCookies() {
//	    // serve over TLS
//	}
package environment
