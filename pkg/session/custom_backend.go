package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// MetaFactory returns metadata for a record created now.
type MetaFactory func() Meta

// Callbacks wire a caller-owned store into the pipeline, typically backed
// by an external database.
type Callbacks struct {
	// Init loads the record for id. Returning a nil record means absent.
	Init func(ctx context.Context, r *http.Request, id string, newMeta MetaFactory) (*Record, error)

	// OnNewData persists rec under id.
	OnNewData func(ctx context.Context, r *http.Request, id string, rec *Record) error

	// OnDelete removes id. Optional.
	OnDelete func(ctx context.Context, r *http.Request, id string) error

	// InitWithoutIdentity makes requests without an inbound identity mint a
	// fresh id and call Init to build the initial state.
	InitWithoutIdentity bool
}

// CustomBackend delegates storage to Callbacks.
type CustomBackend struct {
	cb     Callbacks
	policy ExpirationPolicy
}

// NewCustomBackend creates a backend from callbacks. Init and OnNewData are
// required.
func NewCustomBackend(cb Callbacks, policy ExpirationPolicy) (*CustomBackend, error) {
	if cb.Init == nil || cb.OnNewData == nil {
		return nil, errors.Join(ErrNoBackend, errors.New("init and onNewData callbacks are required"))
	}
	return &CustomBackend{cb: cb, policy: policy}, nil
}

// Kind implements Backend.
func (*CustomBackend) Kind() Kind { return KindCustom }

// Resolve calls Init for the inbound id.
func (b *CustomBackend) Resolve(ctx context.Context, r *http.Request, payload string) (string, *Record, error) {
	id, ok := DecodeIdentity(payload)
	if !ok {
		if !b.cb.InitWithoutIdentity {
			return "", nil, nil
		}
		var err error
		if id, err = NewID(); err != nil {
			return "", nil, err
		}
	}

	rec, err := b.cb.Init(ctx, r, id, b.policy.NewMeta)
	if err != nil {
		return "", nil, errors.Join(ErrBackend, fmt.Errorf("init session %s: %w", id, err))
	}
	if rec == nil {
		return "", nil, nil
	}
	if rec.Client == nil {
		rec.Client = map[string]any{}
	}
	if rec.Server == nil {
		rec.Server = map[string]any{}
	}
	return id, rec, nil
}

// Persist calls OnNewData, minting an id when none is given.
func (b *CustomBackend) Persist(ctx context.Context, r *http.Request, id string, rec *Record) (string, error) {
	if id == "" {
		var err error
		if id, err = NewID(); err != nil {
			return "", err
		}
	}
	if err := b.cb.OnNewData(ctx, r, id, rec.Clone()); err != nil {
		return "", errors.Join(ErrBackend, fmt.Errorf("persist session %s: %w", id, err))
	}
	return EncodeIdentity(id), nil
}

// Evict calls OnDelete when configured.
func (b *CustomBackend) Evict(ctx context.Context, r *http.Request, payload string) error {
	if b.cb.OnDelete == nil {
		return nil
	}
	id, ok := DecodeIdentity(payload)
	if !ok {
		return nil
	}
	if err := b.cb.OnDelete(ctx, r, id); err != nil {
		return errors.Join(ErrBackend, fmt.Errorf("delete session %s: %w", id, err))
	}
	return nil
}

var _ Backend = (*CustomBackend)(nil)
