package session

import (
	"net/http"
	"time"
)

const (
	// DefaultCookieName is the name of the session cookie
	DefaultCookieName = "session_id"
	// DefaultExportPath serves the client-visible session data
	DefaultExportPath = "/__session_data__"
	// DefaultDeletePath destroys the session on DELETE
	DefaultDeletePath = "/__session__/delete"
)

// CookieOptions are the transport cookie attributes the pipeline does not
// compute itself. The encryption flag is always forced on.
type CookieOptions struct {
	Path     string        `env:"PATH" envDefault:"/"`
	Domain   string        `env:"DOMAIN" envDefault:""`
	SameSite http.SameSite `env:"SAME_SITE" envDefault:"2"` // 2 = SameSiteLaxMode
}

// Config holds session configuration
type Config struct {
	// Type selects the storage strategy: cookie, memory, redis, postgres or mongo.
	Type string `env:"SESSION_TYPE" envDefault:"cookie" yaml:"type"`

	// CookieName is the name of the session cookie (default: "session_id")
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"session_id" yaml:"cookie_name"`

	// MaxAge is the session lifetime in seconds
	MaxAge int `env:"SESSION_MAX_AGE" envDefault:"86400" yaml:"max_age"`

	// UpdateExpirationOnActivity pushes expiry forward on every mutation
	UpdateExpirationOnActivity bool `env:"SESSION_UPDATE_EXPIRATION_ON_ACTIVITY" envDefault:"true" yaml:"update_expiration_on_activity"`

	// SkipForRoutes lists path patterns that bypass the session pipeline
	SkipForRoutes []string `env:"SESSION_SKIP_ROUTES" envSeparator:"," yaml:"skip_for_routes"`

	ExportPath string `env:"SESSION_EXPORT_PATH" envDefault:"/__session_data__" yaml:"export_path"`
	DeletePath string `env:"SESSION_DELETE_PATH" envDefault:"/__session__/delete" yaml:"delete_path"`

	// SweepInterval for expired in-memory sessions (0 to disable)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m" yaml:"sweep_interval"`

	// Environment decides the Secure cookie flag: secure everywhere but development
	Environment string `env:"APP_ENV" envDefault:"development" yaml:"environment"`

	Cookie CookieOptions `envPrefix:"SESSION_COOKIE_" yaml:"cookie"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		Type:                       string(KindCookie),
		CookieName:                 DefaultCookieName,
		MaxAge:                     int(DefaultMaxAge / time.Second),
		UpdateExpirationOnActivity: true,
		ExportPath:                 DefaultExportPath,
		DeletePath:                 DefaultDeletePath,
		SweepInterval:              DefaultSweepInterval,
		Environment:                "development",
		Cookie: CookieOptions{
			Path:     "/",
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Policy builds the expiration policy described by the config.
func (c Config) Policy() ExpirationPolicy {
	return NewExpirationPolicy(time.Duration(c.MaxAge)*time.Second, c.UpdateExpirationOnActivity)
}

// NewFromConfig creates a new Pipeline from the provided Config.
func NewFromConfig(backend Backend, transport Transport, cfg Config, opts ...Option) (*Pipeline, error) {
	configOpts := []Option{
		WithConfig(cfg),
	}

	configOpts = append(configOpts, opts...)

	return New(backend, transport, configOpts...)
}
