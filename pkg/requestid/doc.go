// Package requestid tags each request with an id carried in the
// X-Request-ID header and the request context.
//
// Inbound ids are accepted when they are at most 128 characters of letters,
// digits, dashes and underscores; anything else is replaced with a fresh
// UUID. LoggerExtractor plugs the id into pkg/logger so every log line
// written with the request context carries it.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid
