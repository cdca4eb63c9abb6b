package session

import "context"

type sessionContextKey struct{}

// WithSession adds a session to the context
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// FromContext retrieves a session from the context
func FromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*Session)
	return session, ok && session != nil
}

// MustFromContext retrieves a session from the context or panics
func MustFromContext(ctx context.Context) *Session {
	session, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return session
}

// Set applies a patch to the session in ctx.
func Set(ctx context.Context, p Patch) error {
	session, ok := FromContext(ctx)
	if !ok {
		return ErrNoSession
	}
	return session.Set(p)
}

// Get returns a copy of the session record in ctx. A nil record with a nil
// error means the feature is active but no session exists yet.
func Get(ctx context.Context) (*Record, error) {
	session, ok := FromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}
	return session.Data(), nil
}

// Delete marks the session in ctx for deletion.
func Delete(ctx context.Context) error {
	session, ok := FromContext(ctx)
	if !ok {
		return ErrNoSession
	}
	session.Delete()
	return nil
}

// ResetExpiration refreshes the expiry of the session in ctx.
func ResetExpiration(ctx context.Context) error {
	session, ok := FromContext(ctx)
	if !ok {
		return ErrNoSession
	}
	session.ResetExpiration()
	return nil
}
