package middlewares

import (
	"net/http"

	"github.com/dmitrymomot/authflow/internal"
)

// Defaults for RedirectIfAuthenticated.
const (
	DefaultLandingPath = "/home"
	DefaultLoginPath   = "/login"
	DefaultSignupPath  = "/register"
)

// RedirectIfAuthenticated keeps signed-in users off public-only pages.
// A request for one of paths with a resolved identity is redirected to
// landing and the handler is not called; every other request passes through
// untouched. It reads the identity resolved by Auth and does no I/O.
//
// Empty landing means "/home"; no paths means "/login" and "/register".
func RedirectIfAuthenticated(landing string, paths ...string) internal.Middleware {
	if landing == "" {
		landing = DefaultLandingPath
	}
	if len(paths) == 0 {
		paths = []string{DefaultLoginPath, DefaultSignupPath}
	}
	guarded := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		guarded[p] = struct{}{}
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if _, ok := guarded[c.Request().URL.Path]; ok && c.IsAuthenticated() {
				return c.Redirect(http.StatusFound, landing)
			}
			return next(c)
		}
	}
}
