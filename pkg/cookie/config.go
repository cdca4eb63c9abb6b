package cookie

import (
	"fmt"
	"net/http"
	"strings"
)

// Config holds cookie manager configuration. Secrets is a comma-separated
// list; the first entry is the active key, the rest are accepted for reading.
type Config struct {
	Secrets  string `env:"COOKIE_SECRETS,required" yaml:"secrets"`
	Path     string `env:"COOKIE_PATH" envDefault:"/" yaml:"path"`
	Domain   string `env:"COOKIE_DOMAIN" yaml:"domain"`
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"false" yaml:"secure"`
	SameSite string `env:"COOKIE_SAME_SITE" envDefault:"lax" yaml:"same_site"`
}

func DefaultConfig() Config {
	return Config{
		Path:     "/",
		SameSite: "lax",
	}
}

// ParseSameSite maps lax, strict and none to the http.SameSite modes.
func ParseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("cookie: unknown same-site mode %q", s)
	}
}

func (c Config) parseSecrets() []string {
	var secrets []string
	for s := range strings.SplitSeq(c.Secrets, ",") {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}

// NewFromConfig creates a Manager from cfg. Explicit opts win over config
// values.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	sameSite, err := ParseSameSite(cfg.SameSite)
	if err != nil {
		return nil, err
	}

	configOpts := []Option{WithSameSite(sameSite), WithSecure(cfg.Secure)}
	if cfg.Path != "" {
		configOpts = append(configOpts, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}

	return New(cfg.parseSecrets(), append(configOpts, opts...)...)
}
