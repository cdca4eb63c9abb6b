package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func TestCookieTransport(t *testing.T) {
	t.Parallel()

	mgr, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	t.Run("default name", func(t *testing.T) {
		t.Parallel()
		tr := session.NewCookieTransport(mgr, "")
		assert.Equal(t, session.DefaultCookieName, tr.Name())
	})

	t.Run("encrypted round trip", func(t *testing.T) {
		t.Parallel()
		tr := session.NewCookieTransport(mgr, "sid", cookie.WithPath("/app"))

		rec := httptest.NewRecorder()
		require.NoError(t, tr.Write(rec, `{"id":"x"}`, session.CookieAttributes{MaxAge: 60, HTTPOnly: true, Encrypted: true}))

		c := rec.Result().Cookies()[0]
		assert.Equal(t, "sid", c.Name)
		assert.Equal(t, "/app", c.Path)
		assert.Equal(t, 60, c.MaxAge)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(c)
		payload, ok := tr.Read(req)
		assert.True(t, ok)
		assert.Equal(t, `{"id":"x"}`, payload)
	})

	t.Run("signed values are accepted", func(t *testing.T) {
		t.Parallel()
		tr := session.NewCookieTransport(mgr, "sid")

		rec := httptest.NewRecorder()
		require.NoError(t, tr.Write(rec, "plain", session.CookieAttributes{}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(rec.Result().Cookies()[0])
		payload, ok := tr.Read(req)
		assert.True(t, ok)
		assert.Equal(t, "plain", payload)
	})

	t.Run("missing or forged", func(t *testing.T) {
		t.Parallel()
		tr := session.NewCookieTransport(mgr, "sid")

		_, ok := tr.Read(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.False(t, ok)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: "forged"})
		_, ok = tr.Read(req)
		assert.False(t, ok)
	})

	t.Run("clear expires the cookie", func(t *testing.T) {
		t.Parallel()
		tr := session.NewCookieTransport(mgr, "sid")

		rec := httptest.NewRecorder()
		require.NoError(t, tr.Clear(rec))
		c := rec.Result().Cookies()[0]
		assert.Equal(t, "sid", c.Name)
		assert.Negative(t, c.MaxAge)
	})
}
