package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedPolicy(now time.Time, refresh bool) ExpirationPolicy {
	return ExpirationPolicy{
		MaxAge:            time.Hour,
		RefreshOnActivity: refresh,
		Now:               func() time.Time { return now },
	}
}

func TestSessionSetCreatesRecord(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_000_000)
	s := newSession("", nil, fixedPolicy(now, true))
	assert.False(t, s.Exists())
	assert.Nil(t, s.Data())

	require.NoError(t, s.Set(Patch{Client: map[string]any{"a": 1}}))

	rec := s.Data()
	require.NotNil(t, rec)
	assert.Equal(t, map[string]any{"a": 1}, rec.Client)
	assert.Empty(t, rec.Server)
	assert.Equal(t, now.UnixMilli(), rec.Meta.CreatedAt)
	assert.Equal(t, now.UnixMilli(), rec.Meta.UpdatedAt)
	assert.Equal(t, now.Add(time.Hour).UnixMilli(), rec.Meta.ExpiresAt)
	assert.True(t, s.Activity().Updated)
}

func TestSessionSetMergesShallow(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_000_000)
	rec := &Record{
		Client: map[string]any{"a": 1, "b": map[string]any{"x": 1}},
		Server: map[string]any{"s": "keep"},
		Meta:   Meta{CreatedAt: 10, UpdatedAt: 10, ExpiresAt: now.UnixMilli() + 5},
	}
	s := newSession("id", rec, fixedPolicy(now, false))

	require.NoError(t, s.Set(Patch{Client: map[string]any{"b": map[string]any{"y": 2}, "c": 3}}))

	got := s.Data()
	assert.Equal(t, 1, got.Client["a"])
	assert.Equal(t, map[string]any{"y": 2}, got.Client["b"], "nested values are replaced, not merged")
	assert.Equal(t, 3, got.Client["c"])
	assert.Equal(t, "keep", got.Server["s"])
	assert.Equal(t, int64(10), got.Meta.CreatedAt)
	assert.Equal(t, now.UnixMilli()+5, got.Meta.ExpiresAt, "expiry kept without refresh")

	assert.Equal(t, 1, rec.Client["a"])
	assert.NotContains(t, rec.Client, "c", "resolved record is not mutated in place")
}

func TestSessionSetRefreshesExpiry(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_000_000)
	rec := &Record{
		Client: map[string]any{},
		Server: map[string]any{},
		Meta:   Meta{CreatedAt: 1, UpdatedAt: 1, ExpiresAt: now.UnixMilli() + 5},
	}
	s := newSession("id", rec, fixedPolicy(now, true))

	require.NoError(t, s.Set(Patch{Server: map[string]any{"k": "v"}}))
	assert.Equal(t, now.Add(time.Hour).UnixMilli(), s.Data().Meta.ExpiresAt)
}

func TestSessionSetExplicitExpiry(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_000_000)
	s := newSession("", nil, fixedPolicy(now, true))

	expiresAt := now.UnixMilli() + 42
	require.NoError(t, s.Set(Patch{ExpiresAt: &expiresAt}))
	assert.Equal(t, expiresAt, s.Data().Meta.ExpiresAt)
}

func TestSessionUpdatedAtStrictlyIncreases(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_000_000)
	s := newSession("", nil, fixedPolicy(now, true))

	require.NoError(t, s.Set(Patch{Client: map[string]any{"n": 1}}))
	first := s.Data().Meta.UpdatedAt
	require.NoError(t, s.Set(Patch{Client: map[string]any{"n": 2}}))
	second := s.Data().Meta.UpdatedAt
	require.NoError(t, s.Set(Patch{Client: map[string]any{"n": 3}}))
	third := s.Data().Meta.UpdatedAt

	assert.Greater(t, second, first)
	assert.Greater(t, third, second)
}

func TestSessionDelete(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_000_000)
	rec := &Record{
		Client: map[string]any{"a": 1},
		Server: map[string]any{},
		Meta:   Meta{CreatedAt: 1, UpdatedAt: 1, ExpiresAt: now.UnixMilli() + 1000},
	}
	s := newSession("id", rec, fixedPolicy(now, true))

	s.Delete()
	assert.True(t, s.Activity().Deleted)
	assert.Equal(t, 1, s.Data().Client["a"], "record readable until the request ends")

	assert.ErrorIs(t, s.Set(Patch{Client: map[string]any{"b": 2}}), ErrSessionDeleted)

	before := s.Data().Meta.ExpiresAt
	s.ResetExpiration()
	assert.Equal(t, before, s.Data().Meta.ExpiresAt)
	assert.False(t, s.Activity().Updated)
}

func TestSessionResetExpiration(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_000_000)

	t.Run("without record", func(t *testing.T) {
		t.Parallel()
		s := newSession("", nil, fixedPolicy(now, false))
		s.ResetExpiration()
		assert.False(t, s.Exists())
		assert.False(t, s.Activity().Updated)
	})

	t.Run("ignores refresh flag", func(t *testing.T) {
		t.Parallel()
		rec := &Record{
			Client: map[string]any{},
			Server: map[string]any{},
			Meta:   Meta{CreatedAt: 1, UpdatedAt: 1, ExpiresAt: now.UnixMilli() + 1},
		}
		s := newSession("id", rec, fixedPolicy(now, false))
		s.ResetExpiration()
		assert.Equal(t, now.Add(time.Hour).UnixMilli(), s.Data().Meta.ExpiresAt)
		assert.True(t, s.Activity().Updated)
	})

	t.Run("bumps updatedAt", func(t *testing.T) {
		t.Parallel()
		rec := &Record{
			Client: map[string]any{},
			Server: map[string]any{},
			Meta:   Meta{CreatedAt: 1, UpdatedAt: 1, ExpiresAt: now.UnixMilli() + 1},
		}
		s := newSession("id", rec, fixedPolicy(now, true))

		s.ResetExpiration()
		assert.Equal(t, now.UnixMilli(), s.Data().Meta.UpdatedAt)
		assert.Equal(t, int64(1), s.Data().Meta.CreatedAt)

		// same millisecond: still strictly increasing
		s.ResetExpiration()
		assert.Equal(t, now.UnixMilli()+1, s.Data().Meta.UpdatedAt)
	})
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	t.Run("no session", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()

		assert.ErrorIs(t, Set(ctx, Patch{}), ErrNoSession)
		_, err := Get(ctx)
		assert.ErrorIs(t, err, ErrNoSession)
		assert.ErrorIs(t, Delete(ctx), ErrNoSession)
		assert.ErrorIs(t, ResetExpiration(ctx), ErrNoSession)
		assert.Panics(t, func() { MustFromContext(ctx) })

		_, ok := FromContext(WithSession(ctx, nil))
		assert.False(t, ok)
	})

	t.Run("with session", func(t *testing.T) {
		t.Parallel()
		s := newSession("", nil, fixedPolicy(time.UnixMilli(1_000_000), true))
		ctx := WithSession(context.Background(), s)

		rec, err := Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, rec, "active but absent")

		require.NoError(t, Set(ctx, Patch{Client: map[string]any{"k": "v"}}))
		rec, err = Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "v", rec.Client["k"])

		require.NoError(t, ResetExpiration(ctx))
		require.NoError(t, Delete(ctx))
		assert.True(t, MustFromContext(ctx).Activity().Deleted)
	})
}
