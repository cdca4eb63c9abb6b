package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

const (
	minSecretLength = 32
	keyLength       = 32

	encryptionInfo = "sessionkit/cookie/encryption"
	signingInfo    = "sessionkit/cookie/signing"
)

// keys derived from one secret
type keyPair struct {
	aead cipher.AEAD
	mac  []byte
}

// Manager reads and writes plain, signed and encrypted cookies. The first
// secret signs and encrypts; all secrets are tried when reading, so old
// cookies survive key rotation.
type Manager struct {
	keys     []keyPair
	defaults Options
}

func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	keys := make([]keyPair, 0, len(secrets))
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
		kp, err := deriveKeys(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, kp)
	}

	defaults := applyOptions(Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, opts)

	return &Manager{keys: keys, defaults: defaults}, nil
}

func deriveKeys(secret string) (keyPair, error) {
	encKey := make([]byte, keyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(encryptionInfo)), encKey); err != nil {
		return keyPair{}, fmt.Errorf("derive encryption key: %w", err)
	}
	macKey := make([]byte, keyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(signingInfo)), macKey); err != nil {
		return keyPair{}, fmt.Errorf("derive signing key: %w", err)
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return keyPair{}, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return keyPair{}, err
	}
	return keyPair{aead: aead, mac: macKey}, nil
}

func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	options := applyOptions(m.defaults, opts)

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	})
	return nil
}

func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires the cookie on the client.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
		Secure:   m.defaults.Secure,
	})
}

// SetSigned stores value in clear text with an HMAC bound to the cookie name.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	return m.Set(w, name, m.sign(name, value), opts...)
}

func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(name, signed)
}

// SetEncrypted stores value encrypted with AES-GCM; the cookie name is
// authenticated so a value cannot be replayed under another name.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name, value string, opts ...Option) error {
	encrypted, err := m.encrypt(name, value)
	if err != nil {
		return err
	}
	return m.Set(w, name, encrypted, opts...)
}

func (m *Manager) GetEncrypted(r *http.Request, name string) (string, error) {
	encrypted, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.decrypt(name, encrypted)
}

func (m *Manager) sign(name, value string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "|" +
		base64.RawURLEncoding.EncodeToString(mac(m.keys[0].mac, name, value))
}

func (m *Manager) verify(name, signed string) (string, error) {
	encodedValue, encodedSig, ok := strings.Cut(signed, "|")
	if !ok {
		return "", ErrInvalidFormat
	}
	value, err := base64.RawURLEncoding.DecodeString(encodedValue)
	if err != nil {
		return "", ErrInvalidFormat
	}
	sig, err := base64.RawURLEncoding.DecodeString(encodedSig)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, k := range m.keys {
		if hmac.Equal(sig, mac(k.mac, name, string(value))) {
			return string(value), nil
		}
	}
	return "", ErrInvalidSignature
}

func mac(key []byte, name, value string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(value))
	return h.Sum(nil)
}

func (m *Manager) encrypt(name, value string) (string, error) {
	aead := m.keys[0].aead

	// Random nonce per value, prepended for self-contained decryption
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := aead.Seal(nonce, nonce, []byte(value), []byte(name))
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

func (m *Manager) decrypt(name, encrypted string) (string, error) {
	ciphertext, err := base64.RawURLEncoding.DecodeString(encrypted)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, k := range m.keys {
		ns := k.aead.NonceSize()
		if len(ciphertext) < ns {
			return "", ErrInvalidFormat
		}
		plaintext, err := k.aead.Open(nil, ciphertext[:ns], ciphertext[ns:], []byte(name))
		if err == nil {
			return string(plaintext), nil
		}
	}
	return "", ErrDecryptionFailed
}
