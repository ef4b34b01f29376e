package internal

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/authflow/pkg/validator"
)

// DecodeError means the request body could not be decoded into the target type.
// Clients get an empty 200 so the submitted form stays as it is.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode request: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError carries a pre-rendered fragment showing the form with inline errors.
type ValidationError struct {
	Bag      *validator.ErrorBag
	Fragment []byte
}

func (e *ValidationError) Error() string {
	if e.Bag == nil {
		return validator.ErrValidationFailed.Error()
	}
	return e.Bag.Error()
}

func (e *ValidationError) Unwrap() error {
	if e.Bag == nil {
		return validator.ErrValidationFailed
	}
	return e.Bag
}

// ServerError is an infrastructure failure. Message and Err are logged, never sent.
type ServerError struct {
	Err     error
	Message string
}

// NewServerError wraps err with a log message.
func NewServerError(msg string, err error) *ServerError {
	return &ServerError{Message: msg, Err: err}
}

func (e *ServerError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ServerError) Unwrap() error { return e.Err }

// HTTPError is a routing level failure with a fixed status code.
type HTTPError struct {
	Err     error
	Message string
	Code    int
}

func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

func (e *HTTPError) Error() string { return e.Message }
func (e *HTTPError) Unwrap() error { return e.Err }

func (e *HTTPError) StatusText() string { return http.StatusText(e.Code) }

// WithError attaches the cause for logging.
func (e *HTTPError) WithError(err error) *HTTPError {
	e.Err = err
	return e
}

func ErrNotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message)
}

func ErrMethodNotAllowed(message string) *HTTPError {
	return NewHTTPError(http.StatusMethodNotAllowed, message)
}

func ErrBadRequest(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message)
}

func ErrForbidden(message string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message)
}

// AsHTTPError extracts an HTTPError from the chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}
