package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/authflow/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout puts a deadline on the request context. Handlers must pass the
// context to blocking calls for the deadline to take effect.
//
// An error returned after the deadline passed becomes an internal.ServerError
// wrapping a *TimeoutError.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()
			c.SetContext(ctx)

			err := next(c)
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				c.LogWarn("request timeout", "timeout", timeout.String())
				return internal.NewServerError("request timed out", errors.Join(&TimeoutError{Duration: timeout}, err))
			}
			return err
		}
	}
}
