package validator

import "errors"

// ErrValidationFailed is matched by every ErrorBag returned from Apply.
var ErrValidationFailed = errors.New("validator: validation failed")
