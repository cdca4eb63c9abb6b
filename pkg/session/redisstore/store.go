// Package redisstore keeps session records in Redis as JSON strings with a
// TTL matching the record expiry. Plug it into the pipeline through
// session.NewCustomBackend(store.Callbacks(), policy).
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// DefaultPrefix namespaces session keys.
const DefaultPrefix = "session:"

// Store keeps each record as a JSON string under prefix+id with a TTL.
type Store struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithClock sets the clock used to compute TTLs.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a store over client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: DefaultPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

// Load returns the record for id, nil when missing.
func (s *Store) Load(ctx context.Context, id string) (*session.Record, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var rec session.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		// unreadable entries count as absent and are overwritten on next save
		return nil, nil
	}
	return &rec, nil
}

// Save stores rec until its expiry. Records already expired are removed.
func (s *Store) Save(ctx context.Context, id string, rec *session.Record) error {
	ttl := time.UnixMilli(rec.Meta.ExpiresAt).Sub(s.now())
	if ttl <= 0 {
		return s.Delete(ctx, id)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), data, ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Delete removes the key for id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Callbacks adapts the store to session.CustomBackend.
func (s *Store) Callbacks() session.Callbacks {
	return session.Callbacks{
		Init: func(ctx context.Context, _ *http.Request, id string, _ session.MetaFactory) (*session.Record, error) {
			return s.Load(ctx, id)
		},
		OnNewData: func(ctx context.Context, _ *http.Request, id string, rec *session.Record) error {
			return s.Save(ctx, id, rec)
		},
		OnDelete: func(ctx context.Context, _ *http.Request, id string) error {
			return s.Delete(ctx, id)
		},
	}
}
