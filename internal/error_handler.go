package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/authflow/pkg/htmx"
)

// DefaultErrorHandler maps handler errors to responses. Nothing but a
// validation fragment ever reaches the response body.
func DefaultErrorHandler(c Context, err error) error {
	var (
		validationErr *ValidationError
		decodeErr     *DecodeError
		httpErr       *HTTPError
	)

	switch {
	case errors.As(err, &validationErr):
		c.SetHeader("Content-Type", "text/html; charset=utf-8")
		c.Response().WriteHeader(http.StatusOK)
		_, werr := c.Response().Write(validationErr.Fragment)
		return werr

	case errors.As(err, &decodeErr):
		c.LogDebug("malformed request body", slog.Any("error", err))
		if c.IsHTMX() {
			htmx.Reswap(c.Response(), htmx.SwapNone)
		}
		return c.NoContent(http.StatusOK)

	case errors.As(err, &httpErr):
		if httpErr.Code >= http.StatusInternalServerError {
			c.LogError(httpErr.Message, slog.Int("status", httpErr.Code), slog.Any("error", httpErr.Err))
		}
		return c.NoContent(httpErr.Code)
	}

	msg := "request failed"
	var serverErr *ServerError
	switch {
	case errors.As(err, &serverErr):
		msg = serverErr.Message
	case errors.Is(err, context.DeadlineExceeded):
		msg = "request timed out"
	case errors.Is(err, context.Canceled):
		msg = "request canceled"
	}
	c.LogError(msg, slog.Any("error", err))
	return c.NoContent(http.StatusInternalServerError)
}
