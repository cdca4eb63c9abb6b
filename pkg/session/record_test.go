package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func TestRecordExpired(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(10_000)
	var nilRec *session.Record
	assert.False(t, nilRec.Expired(now))

	rec := &session.Record{Meta: session.Meta{ExpiresAt: 10_000}}
	assert.True(t, rec.Expired(now), "expiresAt equal to now is expired")
	assert.False(t, rec.Expired(now.Add(-time.Millisecond)))
}

func TestRecordCloneIsIndependent(t *testing.T) {
	t.Parallel()

	rec := &session.Record{
		Client: map[string]any{"theme": "dark"},
		Server: map[string]any{"role": "admin"},
		Meta:   session.Meta{CreatedAt: 1, UpdatedAt: 2, ExpiresAt: 3},
	}
	cp := rec.Clone()
	cp.Client["theme"] = "light"
	cp.Server["role"] = "user"

	assert.Equal(t, "dark", rec.Client["theme"])
	assert.Equal(t, "admin", rec.Server["role"])
	assert.Equal(t, rec.Meta, cp.Meta)
}

func TestRecordExportDropsServer(t *testing.T) {
	t.Parallel()

	rec := &session.Record{
		Client: map[string]any{"a": 1},
		Server: map[string]any{"secret": "x"},
		Meta:   session.Meta{CreatedAt: 1, UpdatedAt: 1, ExpiresAt: 2},
	}
	exp := rec.Export()
	require.NotNil(t, exp)
	assert.Equal(t, map[string]any{"a": 1}, exp.Client)
	assert.Equal(t, rec.Meta, exp.Meta)

	var nilRec *session.Record
	assert.Nil(t, nilRec.Export())
}

func TestExpirationPolicy(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	now := clock.Now().UnixMilli()

	t.Run("new record gets now plus max age", func(t *testing.T) {
		t.Parallel()
		p := session.ExpirationPolicy{MaxAge: time.Hour, Now: clock.Now}
		assert.Equal(t, now+time.Hour.Milliseconds(), p.Next(nil))
	})

	t.Run("refresh on activity recomputes", func(t *testing.T) {
		t.Parallel()
		p := session.ExpirationPolicy{MaxAge: time.Hour, RefreshOnActivity: true, Now: clock.Now}
		base := now + 5
		assert.Equal(t, now+time.Hour.Milliseconds(), p.Next(&base))
	})

	t.Run("without refresh keeps base", func(t *testing.T) {
		t.Parallel()
		p := session.ExpirationPolicy{MaxAge: time.Hour, Now: clock.Now}
		base := now + 5
		assert.Equal(t, base, p.Next(&base))
	})

	t.Run("zero max age falls back to default", func(t *testing.T) {
		t.Parallel()
		p := session.ExpirationPolicy{Now: clock.Now}
		assert.Equal(t, now+session.DefaultMaxAge.Milliseconds(), p.Next(nil))
	})

	t.Run("new meta", func(t *testing.T) {
		t.Parallel()
		p := session.ExpirationPolicy{MaxAge: time.Minute, Now: clock.Now}
		m := p.NewMeta()
		assert.Equal(t, now, m.CreatedAt)
		assert.Equal(t, now, m.UpdatedAt)
		assert.Equal(t, now+time.Minute.Milliseconds(), m.ExpiresAt)
	})

	t.Run("max age seconds never negative", func(t *testing.T) {
		t.Parallel()
		p := session.ExpirationPolicy{Now: clock.Now}
		assert.Equal(t, 90, p.MaxAgeSeconds(now+90_000))
		assert.Equal(t, 0, p.MaxAgeSeconds(now-1))
	})
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	payload := session.EncodeIdentity("abc")
	assert.JSONEq(t, `{"id":"abc"}`, payload)

	id, ok := session.DecodeIdentity(payload)
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	for _, bad := range []string{"", "not-json", `{"id":""}`, `{"other":"x"}`} {
		_, ok := session.DecodeIdentity(bad)
		assert.False(t, ok, bad)
	}

	a, err := session.NewID()
	require.NoError(t, err)
	b, err := session.NewID()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
