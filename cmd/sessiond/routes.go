package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/sessionkit/pkg/clientip"
	"github.com/dmitrymomot/sessionkit/pkg/fingerprint"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/requestid"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const healthPath = "/healthz"

// server partition keys
const (
	keyIP          = "ip"
	keyFingerprint = "fp"
)

type routerDeps struct {
	pipeline   *session.Pipeline
	resolver   *clientip.Resolver
	log        *slog.Logger
	bindDevice bool
	checks     []func(context.Context) error
}

func newRouter(d routerDeps) http.Handler {
	if d.resolver == nil {
		d.resolver = clientip.New()
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(d.resolver.Middleware)
	r.Use(d.pipeline.Middleware)
	if d.bindDevice {
		r.Use(bindDevice(d.log))
	}

	r.Get(healthPath, httpserver.HealthCheckHandler(d.log, d.checks...))

	h := &handlers{log: d.log}
	r.Get("/", h.visit)
	r.Post("/theme", h.theme)
	r.Post("/touch", h.touch)
	r.Post("/logout", h.logout)
	return r
}

// bindDevice destroys sessions whose stored fingerprint differs from the
// requesting device and answers 401.
func bindDevice(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec, err := session.Get(r.Context())
			if err == nil && rec != nil {
				stored, _ := rec.Server[keyFingerprint].(string)
				if stored != "" && !fingerprint.Validate(r, stored) {
					log.WarnContext(r.Context(), "session presented from another device",
						slog.String("ip", clientip.FromContext(r.Context())))
					_ = session.Delete(r.Context())
					http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

type handlers struct {
	log *slog.Logger
}

type visitResponse struct {
	Visits int    `json:"visits"`
	Theme  string `json:"theme,omitempty"`
}

func (h *handlers) visit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := session.Get(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	patch := session.Patch{Client: map[string]any{}}
	visits := 1
	var theme string
	if rec != nil {
		visits = asInt(rec.Client["visits"]) + 1
		theme, _ = rec.Client["theme"].(string)
	} else {
		patch.Server = map[string]any{
			keyIP:          clientip.FromContext(ctx),
			keyFingerprint: fingerprint.Generate(r),
		}
	}
	patch.Client["visits"] = visits

	if err := session.Set(ctx, patch); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, visitResponse{Visits: visits, Theme: theme})
}

type themeRequest struct {
	Theme string `json:"theme"`
}

func (h *handlers) theme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Theme == "" {
		http.Error(w, "theme is required", http.StatusBadRequest)
		return
	}
	if err := session.Set(r.Context(), session.Patch{Client: map[string]any{"theme": req.Theme}}); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) touch(w http.ResponseWriter, r *http.Request) {
	if err := session.ResetExpiration(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := session.Delete(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.log.ErrorContext(r.Context(), "request failed", logger.Error(err))
	status := http.StatusInternalServerError
	if errors.Is(err, session.ErrSessionDeleted) {
		status = http.StatusConflict
	}
	http.Error(w, http.StatusText(status), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// asInt reads a counter back from whatever numeric type the backend's codec
// produced.
func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
