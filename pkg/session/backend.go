package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// Kind identifies a storage strategy.
type Kind string

const (
	// KindCookie keeps the whole record inside the transport cookie.
	KindCookie Kind = "cookie"
	// KindMemory keeps records in process memory keyed by id.
	KindMemory Kind = "memory"
	// KindCustom delegates to caller-supplied callbacks.
	KindCustom Kind = "custom"
)

// Backend resolves, persists and evicts session records.
//
// payload is the decoded cookie value handed over by the Transport. For
// KindCookie it is the serialized record, for identity based backends it is
// an identity envelope carrying only the id.
type Backend interface {
	Kind() Kind

	// Resolve returns the record for an inbound payload. Missing or garbled
	// payloads resolve to a nil record without error.
	Resolve(ctx context.Context, r *http.Request, payload string) (id string, rec *Record, err error)

	// Persist writes rec and returns the payload for the outbound cookie.
	// An empty id asks identity based backends to mint a new one.
	Persist(ctx context.Context, r *http.Request, id string, rec *Record) (payload string, err error)

	// Evict removes server side state for payload.
	Evict(ctx context.Context, r *http.Request, payload string) error
}

// Runner is implemented by backends owning background work. The pipeline
// starts it on construction and stops it on Close.
type Runner interface {
	Start(ctx context.Context)
	Close() error
}

type identity struct {
	ID string `json:"id"`
}

// EncodeIdentity builds the cookie payload for an identity based backend.
func EncodeIdentity(id string) string {
	b, _ := json.Marshal(identity{ID: id})
	return string(b)
}

// DecodeIdentity extracts the id from an identity payload.
func DecodeIdentity(payload string) (string, bool) {
	if payload == "" {
		return "", false
	}
	var ident identity
	if err := json.Unmarshal([]byte(payload), &ident); err != nil || ident.ID == "" {
		return "", false
	}
	return ident.ID, true
}

// NewID mints a random session identifier.
func NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return id.String(), nil
}
