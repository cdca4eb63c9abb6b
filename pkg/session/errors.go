package session

import "errors"

var (
	// ErrNoSession indicates the session feature is not active for the request
	// (route skipped or middleware not installed).
	ErrNoSession = errors.New("session.no_session")

	// ErrSessionDeleted indicates a mutation after the session was deleted
	// within the same request.
	ErrSessionDeleted = errors.New("session.deleted")

	// ErrBackend wraps failures reported by a storage backend callback
	ErrBackend = errors.New("session.backend_failed")

	// ErrInvalidPattern indicates a skip route pattern could not be compiled
	ErrInvalidPattern = errors.New("session.invalid_pattern")

	// ErrNoTransport indicates no transport is configured
	ErrNoTransport = errors.New("session.no_transport")

	// ErrNoBackend indicates no backend is configured
	ErrNoBackend = errors.New("session.no_backend")

	// ErrTokenGeneration indicates session id generation failed
	ErrTokenGeneration = errors.New("session.token_generation_failed")
)
