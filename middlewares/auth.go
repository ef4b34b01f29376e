package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/authflow/internal"
	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/session"
)

// IdentityFinder loads a user by id. A nil identity with a nil error means
// the user does not exist.
type IdentityFinder interface {
	FindIdentity(ctx context.Context, userID int64) (*internal.Identity, error)
}

// IdentityFinderFunc adapts a function to IdentityFinder.
type IdentityFinderFunc func(ctx context.Context, userID int64) (*internal.Identity, error)

func (f IdentityFinderFunc) FindIdentity(ctx context.Context, userID int64) (*internal.Identity, error) {
	return f(ctx, userID)
}

// Auth resolves the request identity from the session before calling next.
//
// A request without a session or without a user id in it is anonymous and
// never reaches finder. A finder error aborts the request with an
// internal.ServerError; it is not treated as anonymous.
//
// Handlers read the result with c.Identity().
func Auth(finder IdentityFinder) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			_, err := internal.ResolveIdentity(c, func(ctx context.Context) (*internal.Identity, error) {
				return findSessionIdentity(ctx, c, finder)
			})
			if err != nil {
				return internal.NewServerError("resolve identity", err)
			}
			return next(c)
		}
	}
}

func findSessionIdentity(ctx context.Context, c internal.Context, finder IdentityFinder) (*internal.Identity, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, err
	}

	userID, err := session.Int64(sess, session.KeyUserID)
	switch {
	case errors.Is(err, session.ErrNotFound):
		return nil, nil
	case errors.Is(err, session.ErrTypeMismatch):
		c.LogWarn("malformed user id in session", slog.Any("error", err))
		return nil, nil
	case err != nil:
		return nil, err
	}

	return finder.FindIdentity(ctx, userID)
}

// RequireAuth redirects anonymous requests to loginPath (default "/login").
// It must run after Auth.
func RequireAuth(loginPath string) internal.Middleware {
	if loginPath == "" {
		loginPath = "/login"
	}
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if !c.IsAuthenticated() {
				return c.Redirect(http.StatusFound, loginPath)
			}
			return next(c)
		}
	}
}

// UserIDExtractor adds "user_id" to log records of authenticated requests.
func UserIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := internal.IdentityFromContext(ctx); id != nil {
			return slog.Int64("user_id", id.ID), true
		}
		return slog.Attr{}, false
	}
}
