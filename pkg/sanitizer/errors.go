package sanitizer

import "errors"

var (
	// ErrNotStructPointer is returned when SanitizeStruct receives anything
	// other than a non-nil pointer to a struct.
	ErrNotStructPointer = errors.New("sanitizer: target must be a non-nil struct pointer")

	// ErrUnknownOperation is returned for an unsupported sanitize tag operation.
	ErrUnknownOperation = errors.New("sanitizer: unknown operation")
)
