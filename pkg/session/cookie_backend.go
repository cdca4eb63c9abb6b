package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CookieBackend carries the full record inside the cookie. It holds no
// server state.
type CookieBackend struct{}

// NewCookieBackend creates a cookie backend.
func NewCookieBackend() *CookieBackend {
	return &CookieBackend{}
}

// Kind implements Backend.
func (*CookieBackend) Kind() Kind { return KindCookie }

// Resolve decodes the record from the payload.
func (*CookieBackend) Resolve(_ context.Context, _ *http.Request, payload string) (string, *Record, error) {
	if payload == "" {
		return "", nil, nil
	}
	var rec Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil || !rec.valid() {
		return "", nil, nil
	}
	if rec.Client == nil {
		rec.Client = map[string]any{}
	}
	if rec.Server == nil {
		rec.Server = map[string]any{}
	}
	return "", &rec, nil
}

// Persist serializes the record, server partition included.
func (*CookieBackend) Persist(_ context.Context, _ *http.Request, _ string, rec *Record) (string, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encoding session record: %w", err)
	}
	return string(b), nil
}

// Evict is a no-op.
func (*CookieBackend) Evict(context.Context, *http.Request, string) error { return nil }

var _ Backend = (*CookieBackend)(nil)
