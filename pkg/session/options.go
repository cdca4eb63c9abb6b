package session

import (
	"log/slog"
	"net/http"
	"time"
)

// ErrorHandler answers a request whose session handling failed.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Option is a functional option for configuring the Pipeline
type Option func(*Pipeline)

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(p *Pipeline) {
		p.config = config
	}
}

// WithSkipRoutes sets the path patterns that bypass the pipeline
func WithSkipRoutes(patterns ...string) Option {
	return func(p *Pipeline) {
		p.config.SkipForRoutes = patterns
	}
}

// WithMaxAge sets the session lifetime
func WithMaxAge(maxAge time.Duration) Option {
	return func(p *Pipeline) {
		p.config.MaxAge = int(maxAge / time.Second)
	}
}

// WithRefreshOnActivity toggles expiry refresh on mutation
func WithRefreshOnActivity(enabled bool) Option {
	return func(p *Pipeline) {
		p.config.UpdateExpirationOnActivity = enabled
	}
}

// WithExportPath sets the data export endpoint path
func WithExportPath(path string) Option {
	return func(p *Pipeline) {
		p.config.ExportPath = path
	}
}

// WithDeletePath sets the deletion endpoint path, empty disables it
func WithDeletePath(path string) Option {
	return func(p *Pipeline) {
		p.config.DeletePath = path
	}
}

// WithEnvironment sets the application environment
func WithEnvironment(env string) Option {
	return func(p *Pipeline) {
		p.config.Environment = env
	}
}

// WithClock sets the clock used for expiry computations
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithErrorHandler sets the handler invoked when session handling fails
func WithErrorHandler(h ErrorHandler) Option {
	return func(p *Pipeline) {
		if h != nil {
			p.errorHandler = h
		}
	}
}
