package internal

import (
	"bytes"
	"fmt"

	"github.com/dmitrymomot/authflow/pkg/binder"
	"github.com/dmitrymomot/authflow/pkg/sanitizer"
	"github.com/dmitrymomot/authflow/pkg/validator"
)

// Validatable is a form request that checks itself and renders itself with errors.
//
// Validate returns an *validator.ErrorBag (usually from validator.Apply) or nil.
// Render must be a pure function of the submitted values and bag.
type Validatable interface {
	Validate() error
	Render(bag *validator.ErrorBag) Component
}

// ValidatedForm decodes the urlencoded request body into a T, sanitizes it and
// validates it.
//
//   - malformed body: *DecodeError, no T is returned
//   - failed rules: *ValidationError holding T's own rendering of the errors
//   - success: the decoded T
func ValidatedForm[T any, PT interface {
	*T
	Validatable
}](c Context) (*T, error) {
	var v T
	if err := binder.Form(c.Request(), &v); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if err := sanitizer.SanitizeStruct(&v); err != nil {
		return nil, NewServerError("sanitize form", err)
	}

	if err := PT(&v).Validate(); err != nil {
		bag, ok := validator.AsErrorBag(err)
		if !ok {
			return nil, NewServerError("validate form", err)
		}
		return nil, Invalid(c, PT(&v), bag)
	}
	return &v, nil
}

// Invalid renders v with bag and wraps the fragment in a *ValidationError.
// Handlers use it for failures found after validation, such as a taken email.
func Invalid(c Context, v Validatable, bag *validator.ErrorBag) error {
	var buf bytes.Buffer
	if err := v.Render(bag).Render(c, &buf); err != nil {
		return NewServerError("render validation errors", fmt.Errorf("%T: %w", v, err))
	}
	return &ValidationError{Bag: bag, Fragment: buf.Bytes()}
}
