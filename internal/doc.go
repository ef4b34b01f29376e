// Package internal holds the request pipeline behind the authflow root package.
//
// Import "github.com/dmitrymomot/authflow" instead; it re-exports the public API.
//
// # Pipeline
//
// A request flows through global middleware, route middleware and the route
// handler. Every stage sees the same Context: per-request state (the loaded
// session, the identity cell) lives in the request context, so middleware
// adapted into chi and handlers share it.
//
//	Recover → RequestID → Logging → Timeout → Auth → RedirectIfAuthenticated → handler
//
// Handlers return errors. The ErrorHandler maps them to responses:
//
//   - *DecodeError: 200 with an empty body, HX-Reswap: none for htmx requests
//   - *ValidationError: 200 with the pre-rendered form fragment
//   - *HTTPError: its status code, empty body
//   - anything else is a server error: 500, empty body, logged
//
// # Validated forms
//
// Request types implement Validatable and are extracted with ValidatedForm:
//
//	func (h *Auth) register(c internal.Context) error {
//	    req, err := internal.ValidatedForm[requests.Register](c)
//	    if err != nil {
//	        return err
//	    }
//	    ...
//	}
//
// # Identity
//
// The Auth middleware resolves the current user once per request.
// Context.Identity returns the memoized result; it never hits the store again.
package internal
