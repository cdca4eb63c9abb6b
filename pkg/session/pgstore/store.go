// Package pgstore keeps session records in a PostgreSQL table. Client and
// server partitions are JSONB columns, timestamps are epoch milliseconds.
package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const (
	// DefaultTable is the table created by the bundled migration.
	DefaultTable = "sessions"
	// DefaultCleanupInterval matches the memory backend sweep.
	DefaultCleanupInterval = 5 * time.Minute
)

// psq is the PostgreSQL statement builder with dollar placeholders.
var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var selectColumns = []string{"client", "server", "created_at", "updated_at", "expires_at"}

// Store keeps records in a sessions table and optionally purges expired
// rows in the background.
type Store struct {
	db       *sql.DB
	table    string
	now      func() time.Time
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithTable overrides the table name. The bundled migration creates "sessions".
func WithTable(table string) Option {
	return func(s *Store) {
		if table != "" {
			s.table = table
		}
	}
}

// WithClock sets the clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCleanupInterval sets how often Start removes expired rows.
func WithCleanupInterval(d time.Duration) Option {
	return func(s *Store) {
		s.interval = d
	}
}

// WithLogger sets the logger of the cleanup loop.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a store over db. Call Start to run the cleanup loop.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:       db,
		table:    DefaultTable,
		now:      time.Now,
		interval: DefaultCleanupInterval,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the live record for id, nil when missing or expired.
func (s *Store) Load(ctx context.Context, id string) (*session.Record, error) {
	query, args, err := psq.Select(selectColumns...).
		From(s.table).
		Where(sq.Eq{"id": id}).
		Where(sq.Gt{"expires_at": s.now().UnixMilli()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	var (
		rec            session.Record
		client, server []byte
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&client, &server, &rec.Meta.CreatedAt, &rec.Meta.UpdatedAt, &rec.Meta.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	rec.Client = decodePartition(client)
	rec.Server = decodePartition(server)
	return &rec, nil
}

// Save upserts rec under id.
func (s *Store) Save(ctx context.Context, id string, rec *session.Record) error {
	client, err := json.Marshal(nonNil(rec.Client))
	if err != nil {
		return fmt.Errorf("marshaling client data: %w", err)
	}
	server, err := json.Marshal(nonNil(rec.Server))
	if err != nil {
		return fmt.Errorf("marshaling server data: %w", err)
	}

	query, args, err := psq.Insert(s.table).
		Columns("id", "client", "server", "created_at", "updated_at", "expires_at").
		Values(id, client, server, rec.Meta.CreatedAt, rec.Meta.UpdatedAt, rec.Meta.ExpiresAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET " +
			"client = EXCLUDED.client, server = EXCLUDED.server, " +
			"updated_at = EXCLUDED.updated_at, expires_at = EXCLUDED.expires_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building upsert query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}
	return nil
}

// Delete removes the row for id.
func (s *Store) Delete(ctx context.Context, id string) error {
	query, args, err := psq.Delete(s.table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building delete query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteExpired removes expired rows and returns how many were removed.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	query, args, err := psq.Delete(s.table).
		Where(sq.LtOrEq{"expires_at": s.now().UnixMilli()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building cleanup query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("cleaning up sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting removed sessions: %w", err)
	}
	return n, nil
}

// Start runs DeleteExpired periodically until Close. Calling Start twice is
// a no-op, as is a non-positive interval.
func (s *Store) Start(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.DeleteExpired(ctx)
				if err != nil {
					s.logger.WarnContext(ctx, "session cleanup failed", logger.Error(err))
					continue
				}
				if n > 0 {
					s.logger.DebugContext(ctx, "expired sessions removed", slog.Int64("removed", n))
				}
			}
		}
	}()
}

// Close stops the cleanup loop and waits for it to exit.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		<-s.done
		s.cancel = nil
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

func decodePartition(b []byte) map[string]any {
	m := map[string]any{}
	if len(b) > 0 {
		_ = json.Unmarshal(b, &m)
	}
	return m
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

var _ session.Runner = (*Store)(nil)
