package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

type ctxKey struct{}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Run("json by default", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")

		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("debug filtered at info level", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Debug("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("text format", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.New(logger.WithFormat("xml"))
		})
	})

	t.Run("static attributes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("app", "sessiond")))
		log.Info("hello")
		assert.Equal(t, "sessiond", decode(t, buf)["app"])
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Run("development is text at debug", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment("dev", "svc"))
		log.Debug("visible")
		out := buf.String()
		assert.Contains(t, out, "msg=visible")
		assert.Contains(t, out, "env=development")
		assert.Contains(t, out, "service=svc")
	})

	t.Run("production is json at info", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment("prod", "svc"))
		log.Debug("hidden")
		assert.Empty(t, buf.String())

		log.Info("visible")
		entry := decode(t, buf)
		assert.Equal(t, "production", entry["env"])
		assert.Equal(t, "svc", entry["service"])
	})
}

func TestContextExtraction(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextValue("trace", ctxKey{}),
		logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
			return slog.String("static", "yes"), true
		}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "abc")
	log.With(slog.String("k", "v")).InfoContext(ctx, "hello")

	entry := decode(t, buf)
	assert.Equal(t, "abc", entry["trace"])
	assert.Equal(t, "yes", entry["static"])
	assert.Equal(t, "v", entry["k"])
}

func TestAttrs(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(errors.New("boom")).Key)
	assert.Equal(t, slog.Attr{}, logger.SessionID(""))
	assert.Equal(t, "session_id", logger.SessionID("abc").Key)
	assert.Equal(t, slog.Attr{}, logger.RequestID(""))
	assert.Equal(t, "memory", logger.Backend("memory").Value.String())
	assert.Equal(t, "session", logger.Component("session").Value.String())
}
