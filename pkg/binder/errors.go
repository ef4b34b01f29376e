package binder

import "errors"

var (
	// ErrUnsupportedMediaType is returned when the request body is not form encoded.
	ErrUnsupportedMediaType = errors.New("binder: unsupported media type")

	// ErrMalformedBody is returned when the form body cannot be parsed.
	ErrMalformedBody = errors.New("binder: malformed body")

	// ErrInvalidValue is returned when a submitted value cannot be converted
	// to the target field type.
	ErrInvalidValue = errors.New("binder: invalid value")

	// ErrInvalidTarget is returned when the target is not a non-nil struct pointer.
	ErrInvalidTarget = errors.New("binder: target must be a non-nil struct pointer")
)
