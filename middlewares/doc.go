// Package middlewares provides the HTTP middleware of the authflow pipeline.
//
// # Identity
//
// Auth resolves the signed-in user from the session once per request.
// RedirectIfAuthenticated and RequireAuth read the resolved identity to gate
// public-only and private pages:
//
//	app := authflow.New(
//	    authflow.WithSession(store),
//	    authflow.WithMiddleware(
//	        middlewares.Recover(),
//	        middlewares.RequestID(),
//	        middlewares.Logging(),
//	        middlewares.Timeout(10*time.Second),
//	        middlewares.Auth(users),
//	        middlewares.RedirectIfAuthenticated("/home"),
//	    ),
//	)
//
// # Request ID
//
// RequestID reuses an upstream X-Request-ID or generates a UUID.
// RequestIDExtractor and UserIDExtractor add request_id and user_id to every
// log record:
//
//	log, err := logger.New(cfg.Log, logger.WithExtractors(
//	    middlewares.RequestIDExtractor(),
//	    middlewares.UserIDExtractor(),
//	))
//
// # Failures
//
// Recover and Timeout return an internal.ServerError wrapping a *PanicError or
// *TimeoutError, so the client gets an empty 500. Use AsPanicError and
// AsTimeoutError in a custom error handler to inspect them.
package middlewares
