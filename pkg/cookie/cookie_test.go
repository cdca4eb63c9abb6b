package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

const (
	secretA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	secretB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

// replay copies the cookies set on rec into a fresh request.
func replay(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires a secret", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.New(nil)
		assert.ErrorIs(t, err, cookie.ErrNoSecret)

		_, err = cookie.New([]string{""})
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("rejects short secrets", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.New([]string{"short"})
		assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()
		mgr, err := cookie.New([]string{secretA})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		require.NoError(t, mgr.Set(rec, "plain", "value"))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "/", cookies[0].Path)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	})
}

func TestPlainCookie(t *testing.T) {
	t.Parallel()

	mgr, err := cookie.New([]string{secretA}, cookie.WithDomain("example.com"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, mgr.Set(rec, "plain", "value", cookie.WithMaxAge(60), cookie.WithSecure(true)))

	c := rec.Result().Cookies()[0]
	assert.Equal(t, 60, c.MaxAge)
	assert.True(t, c.Secure)
	assert.Equal(t, "example.com", c.Domain)

	got, err := mgr.Get(replay(t, rec), "plain")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	_, err = mgr.Get(httptest.NewRequest(http.MethodGet, "/", nil), "plain")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	mgr, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	mgr.Delete(rec, "gone")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "gone", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestSignedCookie(t *testing.T) {
	t.Parallel()

	mgr, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, mgr.SetSigned(rec, "signed", `{"id":"abc"}`))

		got, err := mgr.GetSigned(replay(t, rec), "signed")
		require.NoError(t, err)
		assert.Equal(t, `{"id":"abc"}`, got)
	})

	t.Run("tampered value", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, mgr.SetSigned(rec, "signed", "value"))

		c := rec.Result().Cookies()[0]
		_, sig, _ := strings.Cut(c.Value, "|")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "signed", Value: "b3RoZXI|" + sig})

		_, err := mgr.GetSigned(req, "signed")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("bound to name", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, mgr.SetSigned(rec, "one", "value"))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "two", Value: rec.Result().Cookies()[0].Value})

		_, err := mgr.GetSigned(req, "two")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "signed", Value: "no-separator"})

		_, err := mgr.GetSigned(req, "signed")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})
}

func TestEncryptedCookie(t *testing.T) {
	t.Parallel()

	mgr, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	t.Run("round trip hides plaintext", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, mgr.SetEncrypted(rec, "enc", "secret-value"))

		c := rec.Result().Cookies()[0]
		assert.NotContains(t, c.Value, "secret-value")

		got, err := mgr.GetEncrypted(replay(t, rec), "enc")
		require.NoError(t, err)
		assert.Equal(t, "secret-value", got)
	})

	t.Run("fresh nonce per write", func(t *testing.T) {
		t.Parallel()
		first, second := httptest.NewRecorder(), httptest.NewRecorder()
		require.NoError(t, mgr.SetEncrypted(first, "enc", "same"))
		require.NoError(t, mgr.SetEncrypted(second, "enc", "same"))
		assert.NotEqual(t, first.Result().Cookies()[0].Value, second.Result().Cookies()[0].Value)
	})

	t.Run("garbage fails", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "enc", Value: "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"})

		_, err := mgr.GetEncrypted(req, "enc")
		assert.ErrorIs(t, err, cookie.ErrDecryptionFailed)
	})

	t.Run("bound to name", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, mgr.SetEncrypted(rec, "one", "value"))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "two", Value: rec.Result().Cookies()[0].Value})

		_, err := mgr.GetEncrypted(req, "two")
		assert.ErrorIs(t, err, cookie.ErrDecryptionFailed)
	})
}

func TestKeyRotation(t *testing.T) {
	t.Parallel()

	oldMgr, err := cookie.New([]string{secretA})
	require.NoError(t, err)
	rotated, err := cookie.New([]string{secretB, secretA})
	require.NoError(t, err)
	other, err := cookie.New([]string{secretB})
	require.NoError(t, err)

	enc, signed := httptest.NewRecorder(), httptest.NewRecorder()
	require.NoError(t, oldMgr.SetEncrypted(enc, "enc", "payload"))
	require.NoError(t, oldMgr.SetSigned(signed, "sig", "payload"))

	got, err := rotated.GetEncrypted(replay(t, enc), "enc")
	require.NoError(t, err)
	assert.Equal(t, "payload", got)

	got, err = rotated.GetSigned(replay(t, signed), "sig")
	require.NoError(t, err)
	assert.Equal(t, "payload", got)

	_, err = other.GetEncrypted(replay(t, enc), "enc")
	assert.ErrorIs(t, err, cookie.ErrDecryptionFailed)
	_, err = other.GetSigned(replay(t, signed), "sig")
	assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("splits secrets and applies attributes", func(t *testing.T) {
		t.Parallel()
		cfg := cookie.DefaultConfig()
		cfg.Secrets = " " + secretA + " , " + secretB
		cfg.SameSite = "strict"
		cfg.Secure = true

		mgr, err := cookie.NewFromConfig(cfg)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		require.NoError(t, mgr.Set(rec, "c", "v"))
		c := rec.Result().Cookies()[0]
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.True(t, c.Secure)
	})

	t.Run("unknown same-site", func(t *testing.T) {
		t.Parallel()
		cfg := cookie.DefaultConfig()
		cfg.Secrets = secretA
		cfg.SameSite = "sometimes"

		_, err := cookie.NewFromConfig(cfg)
		assert.Error(t, err)
	})

	t.Run("no secrets", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.NewFromConfig(cookie.DefaultConfig())
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})
}

func TestParseSameSite(t *testing.T) {
	t.Parallel()

	tests := map[string]http.SameSite{
		"":       http.SameSiteLaxMode,
		"Lax":    http.SameSiteLaxMode,
		"strict": http.SameSiteStrictMode,
		"NONE":   http.SameSiteNoneMode,
	}
	for in, want := range tests {
		got, err := cookie.ParseSameSite(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
