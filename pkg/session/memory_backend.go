package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// DefaultSweepInterval is how often MemoryBackend removes expired records.
const DefaultSweepInterval = 5 * time.Minute

// MemoryBackend keeps records in a process local map keyed by id.
type MemoryBackend struct {
	mu       sync.RWMutex
	sessions map[string]*Record

	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// MemoryOption configures a MemoryBackend.
type MemoryOption func(*MemoryBackend)

// WithSweepInterval sets the sweep period. Zero or negative disables the sweep.
func WithSweepInterval(interval time.Duration) MemoryOption {
	return func(m *MemoryBackend) {
		m.interval = interval
	}
}

// WithMemoryClock sets the clock used to decide expiry.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *MemoryBackend) {
		if now != nil {
			m.now = now
		}
	}
}

// WithMemoryLogger sets the logger used by the sweep.
func WithMemoryLogger(l *slog.Logger) MemoryOption {
	return func(m *MemoryBackend) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMemoryBackend creates an in-memory backend. The sweep does not run until
// Start is called.
func NewMemoryBackend(opts ...MemoryOption) *MemoryBackend {
	m := &MemoryBackend{
		sessions: make(map[string]*Record),
		interval: DefaultSweepInterval,
		now:      time.Now,
		logger:   discardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Kind implements Backend.
func (*MemoryBackend) Kind() Kind { return KindMemory }

// Resolve looks the record up by the id in payload.
func (m *MemoryBackend) Resolve(_ context.Context, _ *http.Request, payload string) (string, *Record, error) {
	id, ok := DecodeIdentity(payload)
	if !ok {
		return "", nil, nil
	}

	m.mu.RLock()
	rec, exists := m.sessions[id]
	m.mu.RUnlock()

	if !exists || rec.Expired(m.now()) {
		return "", nil, nil
	}
	return id, rec.Clone(), nil
}

// Persist stores a copy of rec, minting an id when none is given.
func (m *MemoryBackend) Persist(_ context.Context, _ *http.Request, id string, rec *Record) (string, error) {
	if id == "" {
		var err error
		if id, err = NewID(); err != nil {
			return "", err
		}
	}

	m.mu.Lock()
	m.sessions[id] = rec.Clone()
	m.mu.Unlock()

	return EncodeIdentity(id), nil
}

// Evict removes the record referenced by payload.
func (m *MemoryBackend) Evict(_ context.Context, _ *http.Request, payload string) error {
	id, ok := DecodeIdentity(payload)
	if !ok {
		return nil
	}

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Sweep removes expired records and returns how many were removed.
// Candidates are collected under the read lock and deleted one by one, so
// request handling never waits for a full pass.
func (m *MemoryBackend) Sweep(ctx context.Context) int {
	now := m.now()

	m.mu.RLock()
	expired := make([]string, 0)
	for id, rec := range m.sessions {
		if rec.Expired(now) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	removed := 0
	for _, id := range expired {
		if ctx.Err() != nil {
			break
		}
		m.mu.Lock()
		// A concurrent Persist may have refreshed the entry since the snapshot.
		if rec, ok := m.sessions[id]; ok && rec.Expired(now) {
			delete(m.sessions, id)
			removed++
		}
		m.mu.Unlock()
	}
	return removed
}

// Len returns the number of stored records, expired ones included.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Start launches the periodic sweep. Calling Start twice is a no-op.
func (m *MemoryBackend) Start(ctx context.Context) {
	if m.interval <= 0 {
		return
	}

	m.runMu.Lock()
	defer m.runMu.Unlock()
	if m.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.Sweep(ctx); n > 0 {
					m.logger.DebugContext(ctx, "expired sessions swept", slog.Int("removed", n))
				}
			}
		}
	}()
}

// Close stops the sweep and waits for it to exit. It is safe to call Close
// even if Start was never called.
func (m *MemoryBackend) Close() error {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if m.cancel != nil {
		m.cancel()
		<-m.done
		m.cancel = nil
	}
	return nil
}

var (
	_ Backend = (*MemoryBackend)(nil)
	_ Runner  = (*MemoryBackend)(nil)
)
