// Package session resolves, mutates and persists per-request session state
// behind one API, whatever the storage strategy.
//
// A session Record has two partitions: Client, which may be shown to the
// browser through the export endpoint, and Server, which never leaves the
// backend. Meta carries createdAt, updatedAt and expiresAt in epoch
// milliseconds.
//
// # Architecture
//
// A Pipeline runs three hooks per request. Begin asks the RouteFilter whether
// the path is skipped, reads the inbound payload through the Transport and
// resolves it with the Backend. Handler code mutates the per-request Session
// found in the request context. Finish inspects the activity flags and
// persists or evicts through the Backend, then sets or clears the cookie.
//
//	┌────────┐  payload  ┌────────────┐
//	│ Client │ ────────► │  Transport │ (encrypted cookie)
//	└────────┘           └────────────┘
//	       ▲                   │
//	       │                   ▼
//	┌─────────────────────────────────┐
//	│   Pipeline  (Begin / Finish)    │──► Session (per request)
//	└─────────────────────────────────┘
//	       │   resolve / persist / evict
//	       ▼
//	┌──────────────────────────────┐
//	│ Backend: cookie|memory|custom│
//	└──────────────────────────────┘
//
// Three backends ship with the package:
//
//   - CookieBackend keeps the whole record in the cookie and rewrites it on
//     every response while a session exists, keeping maxAge fresh.
//   - MemoryBackend keeps records in a locked map keyed by a random id and
//     sweeps expired entries in the background every five minutes.
//   - CustomBackend delegates to Callbacks; see the redisstore, pgstore and
//     mongostore subpackages for ready-made ones.
//
// # Usage
//
//	cookieMgr, _ := cookie.New([]string{"a-secret-of-at-least-32-characters"})
//	pipeline, err := session.New(
//	    session.NewMemoryBackend(),
//	    session.NewCookieTransport(cookieMgr, session.DefaultCookieName),
//	    session.WithSkipRoutes("/static/*", "/healthz"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer pipeline.Close()
//
//	r := chi.NewRouter()
//	r.Use(pipeline.Middleware)
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//	    _ = session.Set(r.Context(), session.Patch{Client: map[string]any{"theme": "dark"}})
//	})
//
// # Reserved endpoints
//
// GET /__session_data__ answers with {"client": …, "meta": …} or null.
// DELETE /__session__/delete destroys the session. Both paths are
// configurable; an empty delete path disables that endpoint.
//
// # Deletion
//
// Delete is terminal for the request: a later Set returns ErrSessionDeleted
// and ResetExpiration does nothing. Data keeps returning the pre-deletion
// record until the request ends.
//
// # Errors
//
//   - ErrNoSession      – no Session in the context (route skipped or no middleware)
//   - ErrSessionDeleted – mutation after Delete
//   - ErrBackend        – custom callback failure, propagated to the error handler
//   - ErrInvalidPattern – skip pattern could not be compiled
//
// Malformed or undecodable cookies are never errors; they resolve to no
// session.
package session
