// Package logger builds log/slog loggers with functional options, helper
// attribute constructors and transparent injection of context values.
//
// New picks a text or JSON handler, attaches static attributes and, when
// extractors are registered, wraps the result so every ContextExtractor runs
// on each record. This is how request ids end up in every line logged
// during a request.
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "sessiond"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "session persisted", logger.SessionID(id))
//
// The attribute helpers return an empty slog.Attr for empty input, which
// slog drops silently.
package logger
