// Package logger builds the application's slog.Logger.
//
// Records go to a JSON or text handler on stdout and, when a Sentry DSN is
// configured, also to Sentry (errors become issues, warnings are kept as
// breadcrumb logs). A decorator appends request-scoped attributes pulled from
// the context by [ContextExtractor] functions:
//
//	log, err := logger.New(cfg.Log, logger.WithExtractors(
//		middlewares.RequestIDExtractor(),
//		middlewares.UserIDExtractor(),
//	))
//	log.InfoContext(r.Context(), "user registered", slog.Int64("user_id", id))
//	// {"level":"INFO","msg":"user registered","user_id":7,"request_id":"..."}
//
// Use [NewNope] in tests.
package logger
