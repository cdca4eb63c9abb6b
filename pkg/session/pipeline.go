package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/environment"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

// Phase is the position of a request in the session lifecycle.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseResolved
	PhaseFinalized
)

func (p Phase) String() string {
	switch p {
	case PhaseResolved:
		return "resolved"
	case PhaseFinalized:
		return "finalized"
	default:
		return "not_started"
	}
}

// State is the per-request pipeline state threaded through Begin, Export
// and Finish.
type State struct {
	Phase Phase
	// Session is nil when the route is skipped.
	Session *Session
	// Skipped reports that the route filter bypassed the pipeline.
	Skipped bool
}

// Pipeline glues the route filter, the backend and the transport into the
// request lifecycle.
type Pipeline struct {
	backend      Backend
	transport    Transport
	config       Config
	filter       *RouteFilter
	policy       ExpirationPolicy
	now          func() time.Time
	logger       *slog.Logger
	errorHandler ErrorHandler
	runner       Runner
	roundTrip    bool
	secure       bool
}

// New creates a pipeline. Backends implementing Runner are started here and
// stopped by Close.
func New(backend Backend, transport Transport, opts ...Option) (*Pipeline, error) {
	if backend == nil {
		return nil, ErrNoBackend
	}
	if transport == nil {
		return nil, ErrNoTransport
	}

	p := &Pipeline{
		backend:   backend,
		transport: transport,
		config:    DefaultConfig(),
		now:       time.Now,
		logger:    discardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.errorHandler == nil {
		p.errorHandler = p.defaultErrorHandler
	}

	filter, err := NewRouteFilter(p.config.SkipForRoutes...)
	if err != nil {
		return nil, err
	}
	p.filter = filter

	p.policy = p.config.Policy()
	p.policy.Now = p.now
	p.roundTrip = backend.Kind() == KindCookie
	p.secure = environment.Parse(p.config.Environment).SecureCookies()
	p.logger = p.logger.With(logger.Component("session"), logger.Backend(string(backend.Kind())))

	if r, ok := backend.(Runner); ok {
		p.runner = r
		r.Start(context.Background())
	}

	return p, nil
}

// Policy returns the expiration policy in effect.
func (p *Pipeline) Policy() ExpirationPolicy {
	return p.policy
}

// Close stops background work owned by the backend.
func (p *Pipeline) Close() error {
	if p.runner != nil {
		return p.runner.Close()
	}
	return nil
}

// Begin runs the pre-handling hook: it consults the route filter, reads the
// inbound payload and resolves it through the backend.
func (p *Pipeline) Begin(r *http.Request) (*State, error) {
	st := &State{Phase: PhaseNotStarted}

	if p.filter.Match(r.URL.Path) {
		st.Phase = PhaseFinalized
		st.Skipped = true
		return st, nil
	}

	payload, _ := p.transport.Read(r)
	id, rec, err := p.backend.Resolve(r.Context(), r, payload)
	if err != nil {
		return st, err
	}
	if rec.Expired(p.now()) {
		id, rec = "", nil
	}

	st.Session = newSession(id, rec, p.policy)
	st.Phase = PhaseResolved
	return st, nil
}

// Export answers GET requests on the export path with the client partition
// and metadata of the current record, or null. It reports whether the
// request was handled. Callers outside Middleware must run Finish before
// Export so outbound cookies precede the body.
func (p *Pipeline) Export(w http.ResponseWriter, r *http.Request, st *State) bool {
	if st == nil || st.Session == nil || r.Method != http.MethodGet {
		return false
	}
	if p.config.ExportPath == "" || r.URL.Path != p.config.ExportPath {
		return false
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(st.Session.record.Export()); err != nil {
		p.logger.ErrorContext(r.Context(), "failed to write session export", logger.Error(err))
	}
	return true
}

// Destroy answers DELETE requests on the delete path by marking the session
// deleted. It reports whether the request was handled.
func (p *Pipeline) Destroy(w http.ResponseWriter, r *http.Request, st *State) bool {
	if st == nil || st.Session == nil || r.Method != http.MethodDelete {
		return false
	}
	if p.config.DeletePath == "" || r.URL.Path != p.config.DeletePath {
		return false
	}

	st.Session.Delete()
	w.WriteHeader(http.StatusOK)
	return true
}

// Finish runs the post-handling hook: it evicts deleted sessions, persists
// updated ones and sets or clears the outbound cookie. A record that is
// already expired at this point is evicted like a deleted one. It is a no-op
// unless the state is resolved, so calling it twice is safe.
func (p *Pipeline) Finish(w http.ResponseWriter, r *http.Request, st *State) error {
	if st == nil || st.Phase != PhaseResolved {
		return nil
	}
	st.Phase = PhaseFinalized

	sess := st.Session
	act := sess.Activity()
	ctx := r.Context()

	expired := sess.Exists() && sess.record.Expired(p.now())

	switch {
	case act.Deleted || expired:
		// The in-request record may already be gone, so the inbound cookie
		// is the source of truth for what to evict.
		payload, ok := p.transport.Read(r)
		if err := p.transport.Clear(w); err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := p.backend.Evict(ctx, r, payload); err != nil {
			return err
		}
		p.logger.DebugContext(ctx, "session destroyed", logger.SessionID(sess.ID()), slog.Bool("expired", expired))
		return nil

	case sess.Exists() && (act.Updated || p.roundTrip):
		rec := sess.record
		payload, err := p.backend.Persist(ctx, r, sess.id, rec)
		if err != nil {
			return err
		}
		if id, ok := DecodeIdentity(payload); ok && p.backend.Kind() != KindCookie {
			sess.id = id
		}
		attrs := CookieAttributes{
			MaxAge:    p.policy.MaxAgeSeconds(rec.Meta.ExpiresAt),
			HTTPOnly:  true,
			Secure:    p.secure,
			Encrypted: true,
		}
		if err := p.transport.Write(w, payload, attrs); err != nil {
			return err
		}
		p.logger.DebugContext(ctx, "session persisted", logger.SessionID(sess.ID()))
		return nil
	}

	return nil
}

// Middleware wires Begin, the reserved endpoints and Finish around next.
// Finish runs right before the first header or body write, or after next
// returns when nothing was written.
func (p *Pipeline) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, err := p.Begin(r)
		if err != nil {
			p.errorHandler(w, r, err)
			return
		}
		if st.Skipped {
			next.ServeHTTP(w, r)
			return
		}

		r = r.WithContext(WithSession(r.Context(), st.Session))
		fw := &finishWriter{
			ResponseWriter: w,
			finish:         func() error { return p.Finish(w, r, st) },
			onError:        func(err error) { p.errorHandler(w, r, err) },
		}

		if !p.Export(fw, r, st) && !p.Destroy(fw, r, st) {
			next.ServeHTTP(fw, r)
		}
		fw.finalize()
	})
}

func (p *Pipeline) defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.ErrorContext(r.Context(), "session handling failed", logger.Error(err))
	if errors.Is(err, context.Canceled) {
		// client went away, nobody reads the response
		return
	}
	http.Error(w, "Session error", http.StatusInternalServerError)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
