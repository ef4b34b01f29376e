package middlewares

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/authflow/internal"
)

// Logging writes one access log record per request after the response.
// An error from the inner stages is handled here so the record carries the
// final status; failed requests and server errors are logged at warn level.
//
// Log records carry the request's identity and request id when the matching
// extractors are configured, even though Auth runs inside Logging.
func Logging() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.HandleError(err)
			}

			rw := c.ResponseWriter()
			attrs := []any{
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", rw.Status()),
				slog.Int64("size", rw.Size()),
				slog.Duration("latency", time.Since(start)),
			}
			if c.IsHTMX() {
				attrs = append(attrs, slog.Bool("htmx", true))
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}

			if err != nil || rw.Status() >= 500 {
				c.LogWarn("request", attrs...)
			} else {
				c.LogInfo("request", attrs...)
			}
			return nil
		}
	}
}
