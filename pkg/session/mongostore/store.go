// Package mongostore keeps session records in a MongoDB collection. A TTL
// index on expire_at lets the server drop expired documents on its own.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// DefaultCollection is the collection name used by cmd wiring.
const DefaultCollection = "sessions"

// Collection is the subset of *mongo.Collection the store needs.
type Collection interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongo.DeleteResult, error)
}

type document struct {
	ID     string         `bson:"_id"`
	Client map[string]any `bson:"client"`
	Server map[string]any `bson:"server"`
	Meta   session.Meta   `bson:"meta"`
	// ExpireAt mirrors Meta.ExpiresAt as a date for the TTL index.
	ExpireAt time.Time `bson:"expire_at"`
}

// Store reads and writes session documents in one collection.
type Store struct {
	coll Collection
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to filter out expired documents.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a store over coll.
func New(coll Collection, opts ...Option) *Store {
	s := &Store{coll: coll, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureIndexes creates the TTL index on expire_at.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expire_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("session_ttl"),
	})
	if err != nil {
		return fmt.Errorf("create ttl index: %w", err)
	}
	return nil
}

// Load returns the live record for id, nil when missing or expired. The TTL
// monitor runs about once a minute, so expiry is also checked in the filter.
func (s *Store) Load(ctx context.Context, id string) (*session.Record, error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "meta.expires_at", Value: bson.D{{Key: "$gt", Value: s.now().UnixMilli()}}},
	}

	var doc document
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &session.Record{
		Client: plainMap(doc.Client),
		Server: plainMap(doc.Server),
		Meta:   doc.Meta,
	}, nil
}

// plainMap rebuilds a decoded partition with nested documents as
// map[string]any and arrays as []any, the shapes every other backend yields.
func plainMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plain(v)
	}
	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.M:
		return plainMap(t)
	case map[string]any:
		return plainMap(t)
	case bson.A:
		return plainSlice(t)
	case []any:
		return plainSlice(t)
	default:
		return v
	}
}

func plainSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = plain(v)
	}
	return out
}

// Save upserts rec under id.
func (s *Store) Save(ctx context.Context, id string, rec *session.Record) error {
	doc := document{
		ID:       id,
		Client:   rec.Client,
		Server:   rec.Server,
		Meta:     rec.Meta,
		ExpireAt: time.UnixMilli(rec.Meta.ExpiresAt).UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Delete removes the document for id; a missing document is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
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

var _ Collection = (*mongo.Collection)(nil)
